// Package tui provides the interactive Bubble Tea dashboard.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"convoscope/internal/analytics"
	"convoscope/internal/cli"
	"convoscope/internal/pipeline"
)

var tabNames = []string{"Summary", "Daily", "Projects", "Models"}

// dataLoadedMsg is sent when a load pass finishes.
type dataLoadedMsg struct {
	result *pipeline.LoadResult
	err    error
}

type keyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:   key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next tab")),
		Prev:   key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev tab")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// App is the root Bubble Tea model.
type App struct {
	dir     string
	filters analytics.Filters

	keys    keyMap
	spin    spinner.Model
	loading bool

	// scanID is the load currently on screen. A result landing with any
	// other ID is stale and dropped.
	scanID uuid.UUID
	result *pipeline.LoadResult
	snap   analytics.Snapshot
	err    error

	activeTab int
	width     int
}

// New builds the dashboard for the given log directory and filters.
func New(dir string, filters analytics.Filters) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(cli.ColorAccent)
	return App{
		dir:     dir,
		filters: filters,
		keys:    defaultKeyMap(),
		spin:    s,
		loading: true,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, loadCmd(a.dir))
}

func loadCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		result, err := pipeline.Load(context.Background(), os.DirFS(dir), nil)
		return dataLoadedMsg{result: result, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case dataLoadedMsg:
		if !a.loading {
			// A reload already superseded this scan.
			return a, nil
		}
		a.loading = false
		a.err = msg.err
		if msg.result != nil {
			a.scanID = msg.result.ScanID
			a.result = msg.result
			a.snap = analytics.Compute(msg.result.Entries, a.filters)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Next):
			a.activeTab = (a.activeTab + 1) % len(tabNames)
		case key.Matches(msg, a.keys.Prev):
			a.activeTab = (a.activeTab + len(tabNames) - 1) % len(tabNames)
		case key.Matches(msg, a.keys.Reload):
			if !a.loading {
				a.loading = true
				return a, tea.Batch(a.spin.Tick, loadCmd(a.dir))
			}
		}
		return a, nil
	}

	return a, nil
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString("\n  ")
	for i, name := range tabNames {
		style := lipgloss.NewStyle().Foreground(cli.ColorMuted).Padding(0, 1)
		if i == a.activeTab {
			style = style.Foreground(cli.ColorText).Bold(true).Underline(true)
		}
		b.WriteString(style.Render(name))
	}
	b.WriteString("\n\n")

	switch {
	case a.loading:
		b.WriteString(fmt.Sprintf("  %s loading logs from %s...\n", a.spin.View(), a.dir))
	case a.err != nil:
		b.WriteString(cli.WarnStyle.Render(fmt.Sprintf("  %v\n", a.err)))
	default:
		b.WriteString(a.viewTab())
	}

	help := lipgloss.NewStyle().Foreground(cli.ColorDim).
		Render("  ←/→ switch tab • r reload • q quit")
	b.WriteString("\n" + help + "\n")

	return b.String()
}

func (a App) viewTab() string {
	switch tabNames[a.activeTab] {
	case "Daily":
		return renderDaily(a.snap)
	case "Projects":
		return renderProjects(a.snap)
	case "Models":
		return renderModels(a.snap)
	default:
		return renderSummary(a.snap, a.result)
	}
}

func renderSummary(snap analytics.Snapshot, result *pipeline.LoadResult) string {
	t := snap.Totals
	rows := [][]string{
		{"Active Days", cli.FormatNumber(int64(t.ActiveDays))},
		{"Messages", cli.FormatNumber(int64(t.TotalMessages))},
		{"Sessions", cli.FormatNumber(int64(t.TotalSessions))},
		{"Avg Messages/Day", cli.FormatNumber(int64(t.AvgMessagesPerDay))},
		{"Conversation Time", t.TotalConversationTime},
	}
	out := cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows})
	if result != nil && (result.Diagnostics.FileErrors > 0 || len(result.Diagnostics.Failures) > 0 || len(result.Diagnostics.Invalid) > 0) {
		out += cli.WarnStyle.Render(fmt.Sprintf("\n  %d invalid lines, %d parse failures, %d unreadable files\n",
			len(result.Diagnostics.Invalid), len(result.Diagnostics.Failures), result.Diagnostics.FileErrors))
	}
	return out
}

func renderDaily(snap analytics.Snapshot) string {
	rows := make([][]string, 0, len(snap.Daily))
	for _, d := range snap.Daily {
		rows = append(rows, []string{
			d.DateKey,
			cli.FormatNumber(int64(d.Messages)),
			cli.FormatNumber(int64(d.Sessions)),
			d.ConversationTime,
		})
	}
	return cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Messages", "Sessions", "Time"},
		Rows:    rows,
	})
}

func renderProjects(snap analytics.Snapshot) string {
	rows := make([][]string, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		rows = append(rows, []string{
			p.Project,
			cli.FormatNumber(int64(p.Messages)),
			cli.FormatNumber(int64(p.Sessions)),
			cli.FormatTokens(p.TotalTokens),
			cli.FormatCost(p.TotalCost),
		})
	}
	return cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Messages", "Sessions", "Tokens", "Cost"},
		Rows:    rows,
	})
}

func renderModels(snap analytics.Snapshot) string {
	rows := make([][]string, 0, len(snap.Models))
	for _, m := range snap.Models {
		rows = append(rows, []string{
			m.Model,
			cli.FormatNumber(int64(m.Messages)),
			cli.FormatTokens(m.Tokens.TotalTokens()),
			cli.FormatTokens(m.Tokens.CacheTotal()),
			cli.FormatCost(m.TotalCost),
		})
	}
	return cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Messages", "Tokens", "Cache", "Cost"},
		Rows:    rows,
	})
}
