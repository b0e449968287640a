package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily conversation table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	snap := analytics.Compute(result.Entries, filters)

	if len(snap.Daily) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("DAILY CONVERSATIONS"))
	fmt.Println()

	rows := make([][]string, 0, len(snap.Daily))
	for _, d := range snap.Daily {
		rows = append(rows, []string{
			d.DateKey,
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			cli.FormatNumber(int64(d.Messages)),
			cli.FormatNumber(int64(d.Sessions)),
			d.FirstMessage.Local().Format("15:04"),
			d.LastMessage.Local().Format("15:04"),
			d.ConversationTime,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Messages", "Sessions", "First", "Last", "Time"},
		Rows:    rows,
	}))

	return nil
}
