package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoscope/internal/entry"
	"convoscope/internal/schema"
)

func makeEntry(ts time.Time, sessionID, cwd, model string, input, output int64) entry.Entry {
	return entry.New(&schema.LogRecord{
		Timestamp: ts,
		SessionID: sessionID,
		Cwd:       cwd,
		Message: &schema.Message{
			Role:  "assistant",
			Model: model,
			Usage: schema.Usage{InputTokens: input, OutputTokens: output},
		},
	})
}

func morningEntries() []entry.Entry {
	// Ten minutes of activity: two entries a minute apart, then a gap past
	// the split threshold, then one more. All inside a single calendar day
	// at any real UTC offset.
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return []entry.Entry{
		makeEntry(base, "sess-1", "/home/user/projA", "claude-sonnet-4", 100, 50),
		makeEntry(base.Add(1*time.Minute), "sess-1", "/home/user/projA", "claude-sonnet-4", 100, 50),
		makeEntry(base.Add(10*time.Minute), "sess-1", "/home/user/projA", "claude-sonnet-4", 100, 50),
	}
}

func TestCompute_SingleDayHappyPath(t *testing.T) {
	snap := Compute(morningEntries(), Filters{})

	require.Len(t, snap.Daily, 1)
	day := snap.Daily[0]
	assert.Equal(t, 3, day.Messages)
	assert.Equal(t, 1, day.Sessions)
	assert.Equal(t, []string{"sess-1"}, day.SessionIDs)
	assert.Equal(t, "2m", day.ConversationTime, "two sub-runs of one minute each")
	assert.True(t, day.FirstMessage.Before(day.LastMessage))

	assert.Equal(t, 1, snap.Totals.ActiveDays)
	assert.Equal(t, 3, snap.Totals.TotalMessages)
	assert.Equal(t, 1, snap.Totals.TotalSessions)
	assert.Equal(t, 3, snap.Totals.AvgMessagesPerDay)
	assert.Equal(t, "2m", snap.Totals.TotalConversationTime)

	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "ProjA", snap.Projects[0].Project)
	assert.Equal(t, 3, snap.Projects[0].Messages)
	assert.Equal(t, 1, snap.Projects[0].Sessions)
	assert.Equal(t, int64(450), snap.Projects[0].TotalTokens)

	require.Len(t, snap.Models, 1)
	assert.Equal(t, "claude-sonnet-4", snap.Models[0].Model)
	assert.Equal(t, 3, snap.Models[0].Messages)
}

func TestCompute_Idempotent(t *testing.T) {
	entries := morningEntries()
	first := Compute(entries, Filters{})
	second := Compute(entries, Filters{})
	require.Equal(t, first, second)
}

func TestCompute_DaySessionsNeverBelowOne(t *testing.T) {
	entries := []entry.Entry{
		makeEntry(time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC), "", "/p", "", 0, 0),
	}

	snap := Compute(entries, Filters{})
	require.Len(t, snap.Daily, 1)
	assert.Equal(t, 1, snap.Daily[0].Sessions)
	assert.Empty(t, snap.Daily[0].SessionIDs)
}

func TestFilter_ByProject(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	entries := []entry.Entry{
		makeEntry(ts, "s1", "/home/user/alpha", "", 0, 0),
		makeEntry(ts, "s2", "/home/user/beta", "", 0, 0),
	}

	got := Filter(entries, Filters{Project: "Alpha"})
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Project())
}

func TestFilter_ComposesAsIntersection(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local)
	entries := []entry.Entry{
		makeEntry(day1, "s1", "/home/user/alpha", "", 0, 0),
		makeEntry(day2, "s2", "/home/user/alpha", "", 0, 0),
		makeEntry(day2, "s3", "/home/user/beta", "", 0, 0),
	}

	both := Filters{Project: "Alpha", StartDate: &day2}

	combined := Filter(entries, both)
	require.Len(t, combined, 1)
	assert.Equal(t, "s2", combined[0].SessionID())

	// Sequential application in either order matches the combined filter.
	projectFirst := Filter(Filter(entries, Filters{Project: "Alpha"}), Filters{StartDate: &day2})
	dateFirst := Filter(Filter(entries, Filters{StartDate: &day2}), Filters{Project: "Alpha"})
	assert.Equal(t, combined, projectFirst)
	assert.Equal(t, combined, dateFirst)
}

func TestFilter_NoConstraintsReturnsAll(t *testing.T) {
	entries := morningEntries()
	assert.Len(t, Filter(entries, Filters{}), len(entries))
}

func TestComputeHourly_BucketsAndHeuristic(t *testing.T) {
	entries := morningEntries()
	snap := Compute(entries, Filters{})

	require.Len(t, snap.Hourly, 24)

	total := 0
	for i, h := range snap.Hourly {
		assert.Equal(t, i, h.Hour)
		assert.InDelta(t, float64(h.Messages)/10, h.TotalTime, 1e-9)
		total += h.Messages
	}
	assert.Equal(t, 3, total)

	// All three land in the bucket of their local wall-clock hour.
	want := entries[0].Timestamp().Local().Hour()
	assert.Equal(t, 3, snap.Hourly[want].Messages)
}

func TestComputeProjects_SortedByCostDescending(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	entries := []entry.Entry{
		makeEntry(ts, "s1", "/home/user/cheap", "claude-sonnet-4", 100, 10),
		makeEntry(ts, "s2", "/home/user/costly", "claude-opus-4-1", 1_000_000, 100_000),
	}

	snap := Compute(entries, Filters{})
	require.Len(t, snap.Projects, 2)
	assert.Equal(t, "Costly", snap.Projects[0].Project)
	assert.Equal(t, "Cheap", snap.Projects[1].Project)
	assert.Greater(t, snap.Projects[0].TotalCost, snap.Projects[1].TotalCost)
	assert.InDelta(t, 0.1, snap.Projects[0].TimeEstimate, 1e-9)
}

func TestComputeModels_SkipsEntriesWithoutModel(t *testing.T) {
	ts := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	entries := []entry.Entry{
		makeEntry(ts, "s1", "/p", "claude-sonnet-4", 10, 10),
		makeEntry(ts, "s1", "/p", "", 10, 10),
	}

	snap := Compute(entries, Filters{})
	require.Len(t, snap.Models, 1)
	assert.Equal(t, "claude-sonnet-4", snap.Models[0].Model)
	assert.Equal(t, 1, snap.Models[0].Messages)
}

func TestComputeTotals_AvgMessagesRounds(t *testing.T) {
	day1 := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local)

	// 3 messages over 2 active days rounds 1.5 up to 2.
	entries := []entry.Entry{
		makeEntry(day1, "s1", "/p", "", 0, 0),
		makeEntry(day1, "s1", "/p", "", 0, 0),
		makeEntry(day2, "s2", "/p", "", 0, 0),
	}

	snap := Compute(entries, Filters{})
	assert.Equal(t, 2, snap.Totals.ActiveDays)
	assert.Equal(t, 2, snap.Totals.AvgMessagesPerDay)
}

func TestCompute_EmptyInput(t *testing.T) {
	snap := Compute(nil, Filters{})
	assert.Empty(t, snap.Daily)
	assert.Empty(t, snap.Projects)
	assert.Empty(t, snap.Models)
	assert.Len(t, snap.Hourly, 24)
	assert.Equal(t, "0m", snap.Totals.TotalConversationTime)
	assert.Zero(t, snap.Totals.AvgMessagesPerDay)
}
