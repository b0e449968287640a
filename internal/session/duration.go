package session

import (
	"fmt"
	"sort"
	"time"

	"convoscope/internal/entry"
)

// GapThreshold is the inactivity gap that splits a run of entries into
// separate active sub-runs. Idle stretches longer than this do not count
// toward conversation time.
const GapThreshold = 3 * time.Minute

// ActiveMinutes estimates active conversation time for a set of entries.
//
// Entries are sorted by timestamp and segmented into sub-runs wherever the
// gap between neighbors exceeds GapThreshold. Each sub-run contributes
// max(1, floor(span/1m)) minutes; the result is the sum over sub-runs.
func ActiveMinutes(entries []entry.Entry) int {
	times := make([]time.Time, len(entries))
	for i, e := range entries {
		times[i] = e.Timestamp()
	}
	return ActiveMinutesOf(times)
}

// ActiveMinutesOf is ActiveMinutes over bare timestamps.
func ActiveMinutesOf(times []time.Time) int {
	if len(times) == 0 {
		return 0
	}
	// A lone entry is one minute by definition. The generic path below
	// would produce the same answer, but this invariant must not depend on
	// clock behavior in the degenerate case.
	if len(times) == 1 {
		return 1
	}

	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	total := 0
	runStart := sorted[0]
	prev := sorted[0]

	for _, t := range sorted[1:] {
		if t.Sub(prev) > GapThreshold {
			total += runMinutes(runStart, prev)
			runStart = t
		}
		prev = t
	}
	total += runMinutes(runStart, prev)

	return total
}

func runMinutes(first, last time.Time) int {
	m := int(last.Sub(first) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

// FormatMinutes renders a minute count the way the dashboard displays
// durations: "0m", "45m", "2h", "2h 5m".
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	h := m / 60
	rem := m % 60
	if rem == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, rem)
}
