package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Per-project breakdown",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	snap := analytics.Compute(result.Entries, filters)

	if len(snap.Projects) == 0 {
		fmt.Println("\n  No projects for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROJECT BREAKDOWN"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		rows = append(rows, []string{
			p.Project,
			cli.FormatNumber(int64(p.Messages)),
			cli.FormatNumber(int64(p.Sessions)),
			cli.FormatNumber(int64(p.ActiveDays)),
			cli.FormatTokens(p.TotalTokens),
			cli.FormatCost(p.TotalCost),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Messages", "Sessions", "Days", "Tokens", "Cost"},
		Rows:    rows,
	}))

	return nil
}
