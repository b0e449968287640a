package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Per-model token and cost breakdown",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	snap := analytics.Compute(result.Entries, filters)

	if len(snap.Models) == 0 {
		fmt.Println("\n  No model usage for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODEL BREAKDOWN"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Models))
	for _, m := range snap.Models {
		rows = append(rows, []string{
			m.Model,
			cli.FormatNumber(int64(m.Messages)),
			cli.FormatTokens(m.Tokens.Input),
			cli.FormatTokens(m.Tokens.Output),
			cli.FormatTokens(m.Tokens.CacheCreation),
			cli.FormatTokens(m.Tokens.CacheRead),
			cli.FormatCost(m.TotalCost),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Messages", "Input", "Output", "Cache W", "Cache R", "Cost"},
		Rows:    rows,
	}))

	return nil
}
