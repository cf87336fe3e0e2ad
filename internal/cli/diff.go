package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/toolcatalog/pkg/diff"
	catalogio "github.com/matzehuels/toolcatalog/pkg/io"
)

// diffCommand creates the diff command.
func (c *CLI) diffCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "diff <old-dir> <new-dir>",
		Short: "Show the changes between two published catalogs",
		Long: `Compare two catalog directories and print the changes.

A directory without a repository.json is treated as an empty catalog, so
comparing against a missing directory lists everything as added.`,
		Example: `  toolcatalog diff ./old-catalog ./catalog
  toolcatalog diff --summary ./old-catalog ./catalog`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiff(args[0], args[1], summary, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print only the one-line summary")

	return cmd
}

func (c *CLI) runDiff(oldDir, newDir string, summary bool, w io.Writer) error {
	before, err := catalogio.Import(oldDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", oldDir, err)
	}
	after, err := catalogio.Import(newDir)
	if err != nil {
		return fmt.Errorf("read %s: %w", newDir, err)
	}

	d := diff.Compare(before, after)
	c.Logger.Debug("compared catalogs", "old", oldDir, "new", newDir, "changed", d != nil)
	if d == nil {
		return nil
	}
	if summary {
		_, err = fmt.Fprintln(w, d.Summary())
		return err
	}
	_, err = fmt.Fprint(w, diff.Render(d))
	return err
}
