package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"convoscope/internal/entry"
	"convoscope/internal/session"
)

// Compute runs the full aggregation over the entry set: filter, group by
// day, histogram by hour, roll up by project and model, then total.
func Compute(entries []entry.Entry, f Filters) Snapshot {
	filtered := Filter(entries, f)

	daily := computeDaily(filtered)
	snap := Snapshot{
		Daily:    daily,
		Hourly:   computeHourly(filtered),
		Projects: computeProjects(filtered),
		Models:   computeModels(filtered),
		Totals:   computeTotals(filtered, daily),
	}
	return snap
}

// Filter applies the optional project and date-range constraints. Both are
// independent; applying them in one call or in sequence yields the same
// entry set.
func Filter(entries []entry.Entry, f Filters) []entry.Entry {
	if f.Project == "" && f.StartDate == nil && f.EndDate == nil {
		return entries
	}
	return lo.Filter(entries, func(e entry.Entry, _ int) bool {
		if f.Project != "" && e.Project() != f.Project {
			return false
		}
		return e.InDateRange(f.StartDate, f.EndDate)
	})
}

func computeDaily(entries []entry.Entry) []DailyConversation {
	byDay := lo.GroupBy(entries, entry.Entry.DateKey)

	days := make([]DailyConversation, 0, len(byDay))
	for key, dayEntries := range byDay {
		date, _ := time.ParseInLocation("2006-01-02", key, time.Local)

		first := dayEntries[0].Timestamp()
		last := first
		ids := make(map[string]struct{})
		for _, e := range dayEntries {
			ts := e.Timestamp()
			if ts.Before(first) {
				first = ts
			}
			if ts.After(last) {
				last = ts
			}
			if id := e.SessionID(); id != "" {
				ids[id] = struct{}{}
			}
		}

		sessionIDs := lo.Keys(ids)
		sort.Strings(sessionIDs)

		sessions := len(sessionIDs)
		if sessions == 0 {
			sessions = 1
		}

		days = append(days, DailyConversation{
			Date:             date,
			DateKey:          key,
			FirstMessage:     first,
			LastMessage:      last,
			ConversationTime: session.FormatMinutes(session.ActiveMinutes(dayEntries)),
			Messages:         len(dayEntries),
			Sessions:         sessions,
			SessionIDs:       sessionIDs,
		})
	}

	sort.Slice(days, func(i, j int) bool { return days[i].DateKey < days[j].DateKey })
	return days
}

func computeHourly(entries []entry.Entry) []HourlyActivity {
	hours := make([]HourlyActivity, 24)
	for i := range hours {
		hours[i].Hour = i
	}
	for _, e := range entries {
		h := e.Timestamp().Local().Hour()
		hours[h].Messages++
	}
	for i := range hours {
		hours[i].TotalTime = float64(hours[i].Messages) / 10
	}
	return hours
}

func computeProjects(entries []entry.Entry) []ProjectActivity {
	type acc struct {
		activity ProjectActivity
		sessions map[string]struct{}
		days     map[string]struct{}
	}

	byProject := make(map[string]*acc)
	for _, e := range entries {
		name := e.Project()
		a, ok := byProject[name]
		if !ok {
			a = &acc{
				activity: ProjectActivity{Project: name},
				sessions: make(map[string]struct{}),
				days:     make(map[string]struct{}),
			}
			byProject[name] = a
		}
		a.activity.Messages++
		a.activity.TotalTokens += e.Tokens().TotalTokens()
		a.activity.TotalCost += e.Cost()
		if id := e.SessionID(); id != "" {
			a.sessions[id] = struct{}{}
		}
		a.days[e.DateKey()] = struct{}{}
	}

	projects := make([]ProjectActivity, 0, len(byProject))
	for _, a := range byProject {
		a.activity.Sessions = len(a.sessions)
		a.activity.ActiveDays = len(a.days)
		a.activity.TimeEstimate = float64(a.activity.Messages) / 10
		projects = append(projects, a.activity)
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].TotalCost != projects[j].TotalCost {
			return projects[i].TotalCost > projects[j].TotalCost
		}
		return projects[i].Project < projects[j].Project
	})
	return projects
}

func computeModels(entries []entry.Entry) []ModelActivity {
	type acc struct {
		activity ModelActivity
		sessions map[string]struct{}
		days     map[string]struct{}
	}

	byModel := make(map[string]*acc)
	for _, e := range entries {
		name := e.Model()
		if name == "" {
			continue
		}
		a, ok := byModel[name]
		if !ok {
			a = &acc{
				activity: ModelActivity{Model: name},
				sessions: make(map[string]struct{}),
				days:     make(map[string]struct{}),
			}
			byModel[name] = a
		}
		t := e.Tokens()
		a.activity.Messages++
		a.activity.Tokens.Input += t.Input
		a.activity.Tokens.Output += t.Output
		a.activity.Tokens.CacheCreation += t.CacheCreation
		a.activity.Tokens.CacheRead += t.CacheRead
		a.activity.Tokens.Ephemeral5m += t.Ephemeral5m
		a.activity.Tokens.Ephemeral1h += t.Ephemeral1h
		a.activity.TotalCost += e.Cost()
		if id := e.SessionID(); id != "" {
			a.sessions[id] = struct{}{}
		}
		a.days[e.DateKey()] = struct{}{}
	}

	models := make([]ModelActivity, 0, len(byModel))
	for _, a := range byModel {
		a.activity.Sessions = len(a.sessions)
		a.activity.ActiveDays = len(a.days)
		models = append(models, a.activity)
	}

	sort.Slice(models, func(i, j int) bool {
		if models[i].TotalCost != models[j].TotalCost {
			return models[i].TotalCost > models[j].TotalCost
		}
		return models[i].Model < models[j].Model
	})
	return models
}

func computeTotals(entries []entry.Entry, daily []DailyConversation) TotalStats {
	totals := TotalStats{ActiveDays: len(daily)}

	totalMinutes := 0
	byDay := lo.GroupBy(entries, entry.Entry.DateKey)
	for _, d := range daily {
		totals.TotalMessages += d.Messages
		totals.TotalSessions += d.Sessions
		totalMinutes += session.ActiveMinutes(byDay[d.DateKey])
	}

	if totals.ActiveDays > 0 {
		totals.AvgMessagesPerDay = int(math.Round(float64(totals.TotalMessages) / float64(totals.ActiveDays)))
	}
	totals.TotalConversationTime = session.FormatMinutes(totalMinutes)

	return totals
}
