// Package cmd implements the convoscope command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"convoscope/internal/analytics"
	"convoscope/internal/config"
	"convoscope/internal/pipeline"
)

var (
	flagDir     string
	flagProject string
	flagSince   string
	flagUntil   string
	flagDays    int
	flagQuiet   bool

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "convoscope",
	Short: "Conversation-log analytics",
	Long:  "Analyze AI-assistant conversation logs: tokens, costs, sessions, and activity.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		config.ApplyPricing(cfg)
		if flagDays == 0 && cfg.General.DefaultDays > 0 {
			flagDays = cfg.General.DefaultDays
		}
		return nil
	},
	RunE: runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "Log directory (default: configured or ~/.claude/projects)")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Filter to one project (exact match on derived name)")
	rootCmd.PersistentFlags().StringVar(&flagSince, "since", "", "Start date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagUntil, "until", "", "End date, inclusive (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Shorthand for --since <today-days+1> (default 30)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// logDir resolves the log directory from flag, config, then the default.
func logDir() string {
	if flagDir != "" {
		return flagDir
	}
	if cfg.General.LogDir != "" {
		return cfg.General.LogDir
	}
	return config.DefaultLogDir()
}

// loadData runs the full load pipeline over the resolved directory.
func loadData() (*pipeline.LoadResult, error) {
	return loadDataFrom(context.Background(), logDir())
}

func loadDataFrom(ctx context.Context, dir string) (*pipeline.LoadResult, error) {
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	result, err := pipeline.Load(ctx, os.DirFS(dir), progressFn)
	if err != nil {
		return result, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d files, %d entries across %d projects    \n",
			result.ParsedFiles, len(result.Entries), result.ProjectCount)
	}

	return result, nil
}

// buildFilters converts the date/project flags into aggregation filters.
func buildFilters() (analytics.Filters, error) {
	f := analytics.Filters{Project: flagProject}

	if flagSince != "" {
		t, err := time.ParseInLocation("2006-01-02", flagSince, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --since date %q: %w", flagSince, err)
		}
		f.StartDate = &t
	}
	if flagUntil != "" {
		t, err := time.ParseInLocation("2006-01-02", flagUntil, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --until date %q: %w", flagUntil, err)
		}
		f.EndDate = &t
	}

	// --days is a convenience; explicit dates win.
	if f.StartDate == nil && f.EndDate == nil && flagDays > 0 {
		t := time.Now().AddDate(0, 0, -(flagDays - 1))
		f.StartDate = &t
	}

	return f, nil
}
