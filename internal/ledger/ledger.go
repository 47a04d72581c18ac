// Package ledger turns raw submissions into typed activity events.
// Normalization fills in base points and category from the catalog;
// awarded points are priced later by the reward calculator.
package ledger

import (
	"log/slog"
	"strings"

	"github.com/mhollis/homepoints/internal/model"
)

// Warning flags a submission entry that could not be fully resolved.
// Warnings ride alongside the events; they never abort the submission.
type Warning struct {
	ActivityName string `json:"activity_name"`
	Reason       string `json:"reason"`
}

// Normalize resolves each named activity in the submission against the
// catalog. Unknown names produce a zero-point flagged event plus a
// warning, so one typo does not lose the rest of the submission.
// Inactive catalog entries are treated as unknown.
func Normalize(sub model.Submission, defs []model.ActivityDefinition) ([]model.ActivityEvent, []Warning) {
	byName := make(map[string]model.ActivityDefinition, len(defs))
	for _, d := range defs {
		if d.Active {
			byName[d.Name] = d
		}
	}

	var events []model.ActivityEvent
	var warnings []Warning
	for _, name := range sub.Activities {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		ev := model.ActivityEvent{
			Timestamp:    sub.Timestamp,
			ActorKey:     sub.ActorKey,
			ActivityName: name,
		}

		def, ok := byName[name]
		if !ok {
			ev.Unknown = true
			warnings = append(warnings, Warning{ActivityName: name, Reason: "no catalog entry"})
			slog.Warn("unknown activity in submission", "activity", name, "actor", sub.ActorKey)
		} else {
			ev.BasePoints = def.BasePoints
			ev.Category = def.Category
		}
		events = append(events, ev)
	}

	return events, warnings
}
