// Package streak detects consecutive-day runs of positive activities
// in the ledger. A streak is a pure function of event history as of a
// reference day; nothing here is persisted.
package streak

import (
	"time"

	"github.com/mhollis/homepoints/internal/model"
)

// LookbackDays bounds how far back event history is scanned. A run
// broken by a gap can never be extended by older entries, so 30 days is
// enough for any streak the reward tiers care about.
const LookbackDays = 30

type Class string

const (
	ClassNone     Class = "none"
	ClassBuilding Class = "building"
	ClassActive   Class = "active"
)

// State describes one (actor, activity) streak as of a reference day.
// EndDay is the most recent calendar day in the run; zero when Length
// is zero.
type State struct {
	Length int       `json:"length"`
	Class  Class     `json:"class"`
	EndDay time.Time `json:"end_day,omitzero"`
}

// For computes the streak for one actor and activity as of asOf.
// Only events with positive base points count; negative and neutral
// activities never streak. Events for other actors or activities are
// ignored, so callers can pass an unfiltered ledger slice.
func For(events []model.ActivityEvent, actorKey, activityName string, asOf time.Time) State {
	today := startOfDay(asOf)
	cutoff := today.AddDate(0, 0, -LookbackDays)

	days := make(map[time.Time]bool)
	for _, ev := range events {
		if ev.ActorKey != actorKey || ev.ActivityName != activityName {
			continue
		}
		if ev.BasePoints <= 0 {
			continue
		}
		day := startOfDay(ev.Timestamp)
		if day.Before(cutoff) || day.After(today) {
			continue
		}
		days[day] = true
	}
	if len(days) == 0 {
		return State{Class: ClassNone}
	}

	// Walk backward from the most recent logged day, counting strictly
	// consecutive calendar days.
	end := time.Time{}
	for day := range days {
		if day.After(end) {
			end = day
		}
	}
	length := 1
	for cur := end.AddDate(0, 0, -1); days[cur]; cur = cur.AddDate(0, 0, -1) {
		length++
	}

	return State{Length: length, Class: classify(length, end, today), EndDay: end}
}

// ForAll computes streaks for every activity the actor has logged,
// restricted to names present in eligible (the positive catalog).
func ForAll(events []model.ActivityEvent, actorKey string, eligible map[string]bool, asOf time.Time) map[string]State {
	seen := make(map[string]bool)
	for _, ev := range events {
		if ev.ActorKey == actorKey && eligible[ev.ActivityName] {
			seen[ev.ActivityName] = true
		}
	}
	out := make(map[string]State, len(seen))
	for name := range seen {
		out[name] = For(events, actorKey, name, asOf)
	}
	return out
}

// Longest returns the activity with the longest current streak and its
// state. Ties break alphabetically so the result is deterministic.
func Longest(states map[string]State) (string, State) {
	var bestName string
	var best State
	for name, st := range states {
		if st.Length > best.Length || (st.Length == best.Length && st.Length > 0 && (bestName == "" || name < bestName)) {
			bestName, best = name, st
		}
	}
	return bestName, best
}

// classify applies the BUILDING rule: a 2-day run is only worth
// prompting about while it ended yesterday; once it has lapsed it is
// plain NONE again. ACTIVE ignores the end day so a broken long streak
// still reports its length until the lookback ages it out.
func classify(length int, end, today time.Time) Class {
	switch {
	case length >= 3:
		return ClassActive
	case length == 2 && end.Equal(today.AddDate(0, 0, -1)):
		return ClassBuilding
	default:
		return ClassNone
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
