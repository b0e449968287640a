// Package entry wraps one valid log record with derived accessors used by
// the session and analytics layers.
package entry

import (
	"strings"
	"time"

	"convoscope/internal/pricing"
	"convoscope/internal/schema"
)

// UnknownProject is the fallback for records without a usable cwd.
const UnknownProject = "Unknown Project"

// TokenBreakdown holds the token counters of one record. Totals are always
// derived, never stored alongside the base fields.
type TokenBreakdown struct {
	Input         int64
	Output        int64
	CacheCreation int64
	CacheRead     int64
	Ephemeral5m   int64
	Ephemeral1h   int64
}

// TotalInput is input plus both cache counters.
func (t TokenBreakdown) TotalInput() int64 {
	return t.Input + t.CacheCreation + t.CacheRead
}

// TotalTokens is total input plus output.
func (t TokenBreakdown) TotalTokens() int64 {
	return t.TotalInput() + t.Output
}

// CacheTotal sums every cache-related counter.
func (t TokenBreakdown) CacheTotal() int64 {
	return t.CacheCreation + t.CacheRead + t.Ephemeral5m + t.Ephemeral1h
}

// Entry is an immutable view over one normalized record. All accessors are
// pure functions of the wrapped record; only the token breakdown is
// memoized at construction.
type Entry struct {
	rec    *schema.LogRecord
	tokens TokenBreakdown
}

// New wraps a normalized record.
func New(rec *schema.LogRecord) Entry {
	e := Entry{rec: rec}
	if rec.Message != nil {
		u := rec.Message.Usage
		e.tokens = TokenBreakdown{
			Input:         u.InputTokens,
			Output:        u.OutputTokens,
			CacheCreation: u.CacheCreationInputTokens,
			CacheRead:     u.CacheReadInputTokens,
		}
		if cc := u.CacheCreation; cc != nil {
			e.tokens.Ephemeral5m = cc.Ephemeral5mInputTokens
			e.tokens.Ephemeral1h = cc.Ephemeral1hInputTokens
			if e.tokens.CacheCreation == 0 {
				e.tokens.CacheCreation = cc.Ephemeral5mInputTokens + cc.Ephemeral1hInputTokens
			}
		}
	}
	return e
}

// Record exposes the underlying normalized record.
func (e Entry) Record() *schema.LogRecord { return e.rec }

// Timestamp returns the record's timestamp.
func (e Entry) Timestamp() time.Time { return e.rec.Timestamp }

// SessionID returns the record's session identifier, possibly empty.
func (e Entry) SessionID() string { return e.rec.SessionID }

// Model returns the model identifier of the message, possibly empty.
func (e Entry) Model() string {
	if e.rec.Message == nil {
		return ""
	}
	return e.rec.Message.Model
}

// Role returns the message role, possibly empty.
func (e Entry) Role() string {
	if e.rec.Message == nil {
		return ""
	}
	return e.rec.Message.Role
}

// Tokens returns the memoized token breakdown.
func (e Entry) Tokens() TokenBreakdown { return e.tokens }

// Cost returns the record's precomputed cost when the source carried one,
// otherwise a pricing estimate. A precomputed cost is never overridden.
func (e Entry) Cost() float64 {
	if e.rec.CostUSD != nil {
		return *e.rec.CostUSD
	}
	t := e.tokens
	if t == (TokenBreakdown{}) {
		return 0
	}
	return pricing.Estimate(e.Model(), t.Input, t.Output, t.CacheCreation, t.CacheRead)
}

// Project derives the display project name from the record's cwd.
func (e Entry) Project() string {
	return ProjectFromCwd(e.rec.Cwd)
}

// InDateRange reports whether the entry's local calendar date falls within
// the inclusive [start, end] range. Nil bounds impose no constraint.
func (e Entry) InDateRange(start, end *time.Time) bool {
	d := localDate(e.rec.Timestamp)
	if start != nil && d.Before(localDate(*start)) {
		return false
	}
	if end != nil && d.After(localDate(*end)) {
		return false
	}
	return true
}

// HasModel reports whether name matches the model identifier,
// case-insensitively, as a substring. Identifiers embed version and date
// suffixes, so exact matching would be useless.
func (e Entry) HasModel(name string) bool {
	return strings.Contains(strings.ToLower(e.Model()), strings.ToLower(name))
}

func localDate(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}

// DateKey formats the entry's local calendar date as YYYY-MM-DD, the key
// used for daily grouping.
func (e Entry) DateKey() string {
	return e.rec.Timestamp.Local().Format("2006-01-02")
}
