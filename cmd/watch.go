package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
	"convoscope/internal/pipeline"
	"convoscope/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the summary whenever logs change",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	filters, err := buildFilters()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := logDir()
	render := func() {
		result, loadErr := loadDataFrom(ctx, dir)
		if loadErr != nil {
			if errors.Is(loadErr, pipeline.ErrNoData) {
				fmt.Println("\n  No usable records yet.")
				return
			}
			fmt.Fprintf(os.Stderr, "  reload failed: %v\n", loadErr)
			return
		}

		snap := analytics.Compute(result.Entries, filters)
		fmt.Print("\033[H\033[2J") // clear screen between renders
		fmt.Println(cli.RenderTitle(fmt.Sprintf("WATCHING %s", dir)))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Active Days", cli.FormatNumber(int64(snap.Totals.ActiveDays))},
				{"Messages", cli.FormatNumber(int64(snap.Totals.TotalMessages))},
				{"Sessions", cli.FormatNumber(int64(snap.Totals.TotalSessions))},
				{"Conversation Time", snap.Totals.TotalConversationTime},
			},
		}))
		fmt.Printf("\n  Last update %s — Ctrl-C to stop\n", time.Now().Format("15:04:05"))
	}

	render()

	err = watch.Run(ctx, dir, watch.DefaultDebounce, render)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
