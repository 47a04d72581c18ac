// Package summary rolls ledger events into per-range totals consumed
// by the dashboard, the weekly goal evaluator, and the threshold bonus
// rules.
package summary

import (
	"log/slog"
	"time"

	"github.com/mhollis/homepoints/internal/model"
)

// KnownCategories is the fixed label set bucketed by CategoryCounts.
// Events in any other category still contribute to point totals but are
// not bucketed.
var KnownCategories = []string{"health", "household", "productivity", "finance", "leisure"}

// PositiveCategories is the subset goal generation draws from when
// picking a least-active category to encourage.
var PositiveCategories = []string{"health", "household", "productivity"}

// Summary describes one date range of ledger activity. Counts go by
// the sign of base points so streak bonuses do not inflate the tallies;
// Total and NegativeTotal use awarded points, which for negative events
// are always equal to base.
type Summary struct {
	From             time.Time      `json:"from"`
	To               time.Time      `json:"to"`
	Total            int            `json:"total"`
	PositiveCount    int            `json:"positive_count"`
	NegativeCount    int            `json:"negative_count"`
	NegativeTotal    int            `json:"negative_total"`
	TopActivity      string         `json:"top_activity"`
	TopActivityCount int            `json:"top_activity_count"`
	CategoryCounts   map[string]int `json:"category_counts"`
	ActivityCounts   map[string]int `json:"activity_counts"`
}

// Summarize aggregates the events falling in [from, to). Input order
// matters only for the top-activity tie break, which goes to the
// activity first encountered chronologically; the ledger is
// append-ordered so this is stable for a given history.
func Summarize(events []model.ActivityEvent, from, to time.Time) Summary {
	known := make(map[string]bool, len(KnownCategories))
	for _, c := range KnownCategories {
		known[c] = true
	}

	s := Summary{
		From:           from,
		To:             to,
		CategoryCounts: make(map[string]int),
		ActivityCounts: make(map[string]int),
	}

	for _, ev := range events {
		if ev.Timestamp.Before(from) || !ev.Timestamp.Before(to) {
			continue
		}

		s.Total += ev.AwardedPoints
		switch {
		case ev.BasePoints > 0:
			s.PositiveCount++
		case ev.BasePoints < 0:
			s.NegativeCount++
			s.NegativeTotal += -ev.AwardedPoints
		}

		s.ActivityCounts[ev.ActivityName]++
		if n := s.ActivityCounts[ev.ActivityName]; n > s.TopActivityCount {
			s.TopActivity = ev.ActivityName
			s.TopActivityCount = n
		}

		if known[ev.Category] {
			s.CategoryCounts[ev.Category]++
		} else if ev.Category != "" {
			slog.Debug("dropping unrecognized category", "category", ev.Category, "activity", ev.ActivityName)
		}
	}

	return s
}

// Balance is an actor's lifetime point total, for the leaderboard view.
type Balance struct {
	ActorKey string `json:"actor_key"`
	Points   int    `json:"points"`
	Events   int    `json:"events"`
}

// Balances sums awarded points per actor across the given events,
// ordered by points descending (ties by actor key for stability).
func Balances(events []model.ActivityEvent) []Balance {
	totals := make(map[string]*Balance)
	var order []string
	for _, ev := range events {
		b, ok := totals[ev.ActorKey]
		if !ok {
			b = &Balance{ActorKey: ev.ActorKey}
			totals[ev.ActorKey] = b
			order = append(order, ev.ActorKey)
		}
		b.Points += ev.AwardedPoints
		b.Events++
	}

	out := make([]Balance, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].Points > out[i].Points ||
				(out[j].Points == out[i].Points && out[j].ActorKey < out[i].ActorKey) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}
