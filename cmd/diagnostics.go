package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"convoscope/internal/cli"
	"convoscope/internal/pipeline"
)

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Lines excluded from analytics and why",
	RunE:  runDiagnostics,
}

func init() {
	rootCmd.AddCommand(diagnosticsCmd)
}

func runDiagnostics(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil && !errors.Is(err, pipeline.ErrNoData) {
		return err
	}
	if result == nil {
		return err
	}

	d := result.Diagnostics

	fmt.Println()
	fmt.Println(cli.RenderTitle("DIAGNOSTICS"))
	fmt.Println()

	if len(d.Invalid) == 0 && len(d.Failures) == 0 && d.FileErrors == 0 {
		fmt.Println("  All scanned lines parsed cleanly.")
		return nil
	}

	if len(d.Invalid) > 0 {
		rows := make([][]string, 0, len(d.Invalid))
		for _, inv := range d.Invalid {
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", inv.File, inv.Line),
				inv.Reason,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Invalid entries (JSON but failed validation)",
			Headers: []string{"Location", "Reason"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if len(d.Failures) > 0 {
		rows := make([][]string, 0, len(d.Failures))
		for _, f := range d.Failures {
			raw := f.Raw
			if len(raw) > 60 {
				raw = raw[:57] + "..."
			}
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", f.File, f.Line),
				f.Err,
				raw,
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Parse failures (not valid JSON)",
			Headers: []string{"Location", "Error", "Raw"},
			Rows:    rows,
		}))
		fmt.Println()
	}

	if d.FileErrors > 0 {
		fmt.Println(cli.WarnStyle.Render(
			fmt.Sprintf("  %d files could not be read at all", d.FileErrors)))
	}

	return nil
}
