package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/sources"
)

// sourcesCommand lists the configured sources and the available types.
func (c *CLI) sourcesCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List configured sources and available source types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			// Fail here rather than halfway through a build.
			if _, _, err := sources.Open(cfg.Sources, sources.Deps{Logger: c.Logger}); err != nil {
				return err
			}

			printHeading("%d sources", len(cfg.Sources))
			for i, s := range cfg.Sources {
				printKeyValue(fmt.Sprintf("#%d %s", i+1, s.Capability), s.Label())
			}
			fmt.Println()
			printKeyValue("output", cfg.Output)
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("types", strings.Join(sources.Types(), ", "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", config.DefaultFile, "configuration file")

	return cmd
}
