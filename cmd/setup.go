package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"convoscope/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run configuration",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	logDir := cfg.General.LogDir
	if logDir == "" {
		logDir = config.DefaultLogDir()
	}
	days := strconv.Itoa(cfg.General.DefaultDays)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Log directory").
				Description("Directory tree containing your .jsonl conversation logs").
				Value(&logDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("log directory is required")
					}
					if _, err := os.Stat(s); err != nil {
						return fmt.Errorf("cannot read %s", s)
					}
					return nil
				}),
			huh.NewInput().
				Title("Default window (days)").
				Value(&days).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 1 {
						return fmt.Errorf("enter a positive number")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.General.LogDir = logDir
	cfg.General.DefaultDays, _ = strconv.Atoi(days)

	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("  Saved %s\n", config.ConfigPath())
	return nil
}
