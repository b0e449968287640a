package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
	"convoscope/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overall usage summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			printNoData(result)
			return nil
		}
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	snap := analytics.Compute(result.Entries, filters)

	if snap.Totals.TotalMessages == 0 {
		fmt.Println("\n  No messages match the selected filters.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CONVERSATION USAGE"))
	fmt.Println()

	var totalTokens int64
	var totalCost float64
	for _, m := range snap.Models {
		totalTokens += m.Tokens.TotalTokens()
		totalCost += m.TotalCost
	}

	rows := [][]string{
		{"Active Days", cli.FormatNumber(int64(snap.Totals.ActiveDays))},
		{"Messages", cli.FormatNumber(int64(snap.Totals.TotalMessages))},
		{"Sessions", cli.FormatNumber(int64(snap.Totals.TotalSessions))},
		{"Avg Messages/Day", cli.FormatNumber(int64(snap.Totals.AvgMessagesPerDay))},
		{"Conversation Time", snap.Totals.TotalConversationTime},
		{"Tokens (models)", cli.FormatTokens(totalTokens)},
		{"Cost (est)", cli.FormatCost(totalCost)},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	printDiagnosticCounts(result)
	return nil
}

// printNoData distinguishes an unusable tree from an empty one; both carry
// different user guidance.
func printNoData(result *pipeline.LoadResult) {
	fmt.Println("\n  No usable records found.")
	if result == nil {
		return
	}
	if result.Files == 0 {
		fmt.Printf("  No %s files under %s — is this the right directory?\n", "*.jsonl", logDir())
		return
	}
	printDiagnosticCounts(result)
	fmt.Println("  Run `convoscope diagnostics` for details.")
}

func printDiagnosticCounts(result *pipeline.LoadResult) {
	d := result.Diagnostics
	if len(d.Invalid) == 0 && len(d.Failures) == 0 && d.FileErrors == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n  %d invalid lines, %d parse failures, %d unreadable files (see `convoscope diagnostics`)\n",
		len(d.Invalid), len(d.Failures), d.FileErrors)
}
