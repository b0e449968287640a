package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
	"convoscope/internal/session"
)

var flagSessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Reconstructed sessions, most recent first",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagSessionLimit, "limit", 20, "Maximum sessions to show (0 = all)")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	filters, err := buildFilters()
	if err != nil {
		return err
	}
	filtered := analytics.Filter(result.Entries, filters)
	sessions := session.Reconstruct(filtered)

	if len(sessions) == 0 {
		fmt.Println("\n  No sessions for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SESSIONS"))
	fmt.Println()

	// Most recent first.
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		if flagSessionLimit > 0 && len(rows) >= flagSessionLimit {
			break
		}
		id := s.ID
		if id == "" {
			id = "(no session id)"
		} else if len(id) > 12 {
			id = id[:12]
		}
		rows = append(rows, []string{
			s.StartTime().Local().Format("2006-01-02 15:04"),
			id,
			s.Project(),
			s.PrimaryModel(),
			cli.FormatNumber(int64(s.MessageCount())),
			s.Duration(),
			cli.FormatCost(s.TotalCost()),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Start", "Session", "Project", "Model", "Messages", "Time", "Cost"},
		Rows:    rows,
	}))

	return nil
}
