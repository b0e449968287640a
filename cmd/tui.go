package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"convoscope/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	filters, err := buildFilters()
	if err != nil {
		return err
	}

	app := tui.New(logDir(), filters)
	_, err = tea.NewProgram(app, tea.WithAltScreen()).Run()
	return err
}
