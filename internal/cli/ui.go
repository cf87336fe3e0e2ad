package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Status line styles. Catalog changes themselves are printed unstyled so
// they can be pasted into commit messages.
var (
	styleHeading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
)

func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleWarn.Render("! " + fmt.Sprintf(format, args...)))
}

func printHeading(format string, args ...any) {
	fmt.Println(styleHeading.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the catalog directory that was written.
func printFile(path string) {
	fmt.Println("  " + styleMuted.Render("→") + " " + path)
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + value)
}
