package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Activity by hour of day",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	snap := analytics.Compute(result.Entries, filters)

	fmt.Println()
	fmt.Println(cli.RenderTitle("ACTIVITY BY HOUR (local time)"))
	fmt.Println()

	maxMessages := 0
	peak := 0
	for _, h := range snap.Hourly {
		if h.Messages > maxMessages {
			maxMessages = h.Messages
			peak = h.Hour
		}
	}

	for _, h := range snap.Hourly {
		fmt.Printf("  %02d:00 │ %6s │ %s\n",
			h.Hour,
			cli.FormatNumber(int64(h.Messages)),
			cli.RenderBar(h.Messages, maxMessages, 40),
		)
	}

	if maxMessages > 0 {
		fmt.Printf("\n  Peak: %02d:00 (%s messages)\n\n",
			peak, cli.FormatNumber(int64(maxMessages)))
	}

	return nil
}
