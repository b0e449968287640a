// Package session groups entries into conversation sessions and estimates
// active conversation time from timestamp gaps.
package session

import (
	"sort"
	"time"

	"convoscope/internal/entry"
)

// Session is a maximal set of entries sharing a session identifier,
// ordered by timestamp.
type Session struct {
	ID      string
	Entries []entry.Entry
}

// Reconstruct groups entries by session identifier. Entries inside each
// session and the sessions themselves come back time-ordered. Entries
// without a session identifier group together under the empty ID.
func Reconstruct(entries []entry.Entry) []Session {
	byID := make(map[string][]entry.Entry)
	for _, e := range entries {
		byID[e.SessionID()] = append(byID[e.SessionID()], e)
	}

	sessions := make([]Session, 0, len(byID))
	for id, es := range byID {
		sort.SliceStable(es, func(i, j int) bool {
			return es[i].Timestamp().Before(es[j].Timestamp())
		})
		sessions = append(sessions, Session{ID: id, Entries: es})
	}

	sort.Slice(sessions, func(i, j int) bool {
		si, sj := sessions[i], sessions[j]
		if !si.StartTime().Equal(sj.StartTime()) {
			return si.StartTime().Before(sj.StartTime())
		}
		return si.ID < sj.ID
	})

	return sessions
}

// StartTime is the earliest entry timestamp, zero for an empty session.
func (s Session) StartTime() time.Time {
	if len(s.Entries) == 0 {
		return time.Time{}
	}
	return s.Entries[0].Timestamp()
}

// EndTime is the latest entry timestamp, zero for an empty session.
func (s Session) EndTime() time.Time {
	if len(s.Entries) == 0 {
		return time.Time{}
	}
	return s.Entries[len(s.Entries)-1].Timestamp()
}

// MessageCount is the number of entries in the session.
func (s Session) MessageCount() int { return len(s.Entries) }

// TotalTokens sums the full token count of every entry.
func (s Session) TotalTokens() int64 {
	var total int64
	for _, e := range s.Entries {
		total += e.Tokens().TotalTokens()
	}
	return total
}

// TotalCost sums entry costs, estimated where the source had none.
func (s Session) TotalCost() float64 {
	var total float64
	for _, e := range s.Entries {
		total += e.Cost()
	}
	return total
}

// PrimaryModel is the most frequent model by entry count. Ties resolve to
// the model seen first in time order.
func (s Session) PrimaryModel() string {
	return mostFrequent(s.Entries, entry.Entry.Model)
}

// Project is the most frequent project by entry count.
func (s Session) Project() string {
	return mostFrequent(s.Entries, entry.Entry.Project)
}

// ActiveMinutes estimates the session's active conversation time.
func (s Session) ActiveMinutes() int {
	return ActiveMinutes(s.Entries)
}

// Duration is the formatted active conversation time.
func (s Session) Duration() string {
	return FormatMinutes(s.ActiveMinutes())
}

func mostFrequent(entries []entry.Entry, key func(entry.Entry) string) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, e := range entries {
		k := key(e)
		if k == "" {
			continue
		}
		counts[k]++
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
