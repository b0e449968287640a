// Package analytics computes cross-cutting rollups from the full entry set:
// daily conversation summaries, hourly activity, per-project and per-model
// breakdowns, and total statistics.
package analytics

import (
	"time"

	"convoscope/internal/entry"
)

// Filters narrows the entry set before aggregation. Zero values impose no
// constraint; set fields compose with AND semantics.
type Filters struct {
	// Project filters by exact match on the derived project name.
	Project string
	// StartDate and EndDate bound entries by local calendar date,
	// inclusive on both ends.
	StartDate *time.Time
	EndDate   *time.Time
}

// DailyConversation aggregates one calendar day.
type DailyConversation struct {
	Date         time.Time
	DateKey      string
	FirstMessage time.Time
	LastMessage  time.Time
	// ConversationTime is the gap-based active duration, formatted.
	ConversationTime string
	Messages         int
	// Sessions is the distinct session-id count, never below 1 for a day
	// that has entries.
	Sessions   int
	SessionIDs []string
}

// HourlyActivity is one bucket of the 24-hour histogram.
type HourlyActivity struct {
	Hour     int
	Messages int
	// TotalTime is messages/10 — a deliberately coarse activity estimate,
	// not a measured duration.
	TotalTime float64
}

// ProjectActivity is the per-project rollup.
type ProjectActivity struct {
	Project     string
	Messages    int
	Sessions    int
	TotalTokens int64
	TotalCost   float64
	ActiveDays  int
	// TimeEstimate uses the same messages/10 heuristic as HourlyActivity.
	TimeEstimate float64
}

// ModelActivity is the per-model rollup.
type ModelActivity struct {
	Model      string
	Messages   int
	Tokens     entry.TokenBreakdown
	TotalCost  float64
	Sessions   int
	ActiveDays int
}

// TotalStats summarizes the whole filtered window.
type TotalStats struct {
	ActiveDays        int
	TotalMessages     int
	TotalSessions     int
	AvgMessagesPerDay int
	// TotalConversationTime sums the per-day gap-based durations.
	TotalConversationTime string
}

// Snapshot is one aggregation result: a deep, independent value recomputed
// from scratch on every call. Mutating the input entries afterward cannot
// change a snapshot already returned.
type Snapshot struct {
	Daily    []DailyConversation
	Hourly   []HourlyActivity
	Projects []ProjectActivity
	Models   []ModelActivity
	Totals   TotalStats
}
