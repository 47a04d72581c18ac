// Package goal implements the weekly behavioral goals, the threshold
// bonus rules, and the financial goal engine.
package goal

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
	"github.com/mhollis/homepoints/internal/streak"
	"github.com/mhollis/homepoints/internal/summary"
	"github.com/mhollis/homepoints/internal/week"
)

const (
	// MaxGoalsPerWeek caps how many goals generation keeps.
	MaxGoalsPerWeek = 3

	// negativeNoiseThreshold is the prior-week negative total below
	// which no reduction goal is generated.
	negativeNoiseThreshold = 5

	// streakStartTarget is the run length a STREAK_START goal asks for,
	// matching the ACTIVE classification threshold.
	streakStartTarget = 3

	// maintainExtensionDays is how far a STREAK_MAINTAIN goal extends
	// the starting run.
	maintainExtensionDays = 7
)

// Snapshot is the live state one week of goals is evaluated against:
// the current week's partial summary and the actor's current streaks.
type Snapshot struct {
	Week    summary.Summary
	Streaks map[string]streak.State
}

// Progress is the computed state of one goal against a Snapshot.
type Progress struct {
	Current   int  `json:"current"`
	Target    int  `json:"target"`
	Percent   int  `json:"percent"`
	Completed bool `json:"completed"`
}

// Evaluate computes progress for a single weekly goal. It is pure; the
// stored Completed flag is ignored so finalization can OR the two.
func Evaluate(g model.WeeklyGoal, snap Snapshot) Progress {
	switch p := g.Params.(type) {
	case model.CategoryCountParams:
		return countProgress(snap.Week.CategoryCounts[p.Category], p.Target)
	case model.ActivityCountParams:
		return countProgress(snap.Week.ActivityCounts[p.Activity], p.Target)
	case model.NegativeLimitParams:
		return negativeLimitProgress(snap.Week.NegativeTotal, p)
	case model.StreakMaintainParams:
		return countProgress(snap.Streaks[p.Activity].Length, p.StartLength+maintainExtensionDays)
	case model.StreakStartParams:
		longest := 0
		for _, st := range snap.Streaks {
			if st.Length > longest {
				longest = st.Length
			}
		}
		return countProgress(longest, p.Target)
	default:
		return Progress{}
	}
}

func countProgress(current, target int) Progress {
	pr := Progress{Current: current, Target: target}
	if target <= 0 {
		pr.Percent = 100
		pr.Completed = true
		return pr
	}
	pr.Percent = min(100, current*100/target)
	pr.Completed = current >= target
	return pr
}

// negativeLimitProgress inverts the usual direction: lower is better,
// and a week with no negative activity at all is vacuously complete.
func negativeLimitProgress(current int, p model.NegativeLimitParams) Progress {
	pr := Progress{Current: current, Target: p.Limit}
	pr.Completed = current == 0 || current <= p.Limit

	required := p.PriorTotal - p.Limit
	if required <= 0 {
		if pr.Completed {
			pr.Percent = 100
		}
		return pr
	}
	achieved := max(0, p.PriorTotal-current)
	pr.Percent = min(100, achieved*100/required)
	return pr
}

// GenerateInput carries everything goal generation needs: the prior
// week's summary, the actor's current streaks, and the catalog.
type GenerateInput struct {
	ActorKey  string
	WeekStart time.Time
	Prior     summary.Summary
	Streaks   map[string]streak.State
	Catalog   []model.ActivityDefinition
}

// Generate builds at most MaxGoalsPerWeek goals for the week starting
// at in.WeekStart. Heuristics, in order: encourage the least-active
// positive category, cut back last week's negative total when it was
// above the noise threshold (else push a neutral no-spend activity),
// and extend or start a streak based on the longest current run.
func Generate(in GenerateInput, now time.Time) []model.WeeklyGoal {
	ws := week.Start(in.WeekStart)
	we := ws.AddDate(0, 0, 7)

	base := func(name, desc string, typ model.WeeklyGoalType, params model.GoalParams, bonus int) model.WeeklyGoal {
		return model.WeeklyGoal{
			ID:          uuid.New(),
			ActorKey:    in.ActorKey,
			Name:        name,
			Description: desc,
			Type:        typ,
			Params:      params,
			BonusPoints: bonus,
			WeekStart:   ws,
			WeekEnd:     we,
			CreatedAt:   now,
		}
	}

	var goals []model.WeeklyGoal

	if cat, ok := leastActiveCategory(in.Prior); ok {
		target := max(3, in.Prior.CategoryCounts[cat]+2)
		goals = append(goals, base(
			fmt.Sprintf("Boost %s", cat),
			fmt.Sprintf("Log %d %s activities this week", target, cat),
			model.GoalCategoryCount,
			model.CategoryCountParams{Category: cat, Target: target},
			10,
		))
	}

	if in.Prior.NegativeTotal > negativeNoiseThreshold {
		limit := in.Prior.NegativeTotal - max(1, in.Prior.NegativeTotal/5)
		goals = append(goals, base(
			"Cut back",
			fmt.Sprintf("Keep negative points at or under %d (last week: %d)", limit, in.Prior.NegativeTotal),
			model.GoalNegativeLimit,
			model.NegativeLimitParams{Limit: limit, PriorTotal: in.Prior.NegativeTotal},
			15,
		))
	} else if name, ok := noSpendActivity(in.Catalog); ok {
		goals = append(goals, base(
			"No-spend days",
			fmt.Sprintf("Log %q 3 times this week", name),
			model.GoalActivityCount,
			model.ActivityCountParams{Activity: name, Target: 3},
			10,
		))
	}

	streakGoal := buildStreakGoal(in, base)
	if len(goals) >= MaxGoalsPerWeek {
		goals[MaxGoalsPerWeek-1] = streakGoal
		goals = goals[:MaxGoalsPerWeek]
	} else {
		goals = append(goals, streakGoal)
	}

	return goals
}

func buildStreakGoal(in GenerateInput, base func(string, string, model.WeeklyGoalType, model.GoalParams, int) model.WeeklyGoal) model.WeeklyGoal {
	name, st := streak.Longest(in.Streaks)
	if st.Length >= streakStartTarget && name != "" {
		return base(
			"Keep it going",
			fmt.Sprintf("Extend your %d-day %q streak by %d days", st.Length, name, maintainExtensionDays),
			model.GoalStreakMaintain,
			model.StreakMaintainParams{Activity: name, StartLength: st.Length},
			20,
		)
	}
	return base(
		"Start a streak",
		fmt.Sprintf("Reach a %d-day streak on any activity", streakStartTarget),
		model.GoalStreakStart,
		model.StreakStartParams{Target: streakStartTarget},
		10,
	)
}

// leastActiveCategory picks the positive category with the fewest
// prior-week occurrences; ties go to the earlier entry in the fixed
// category order.
func leastActiveCategory(prior summary.Summary) (string, bool) {
	if len(summary.PositiveCategories) == 0 {
		return "", false
	}
	best := summary.PositiveCategories[0]
	for _, cat := range summary.PositiveCategories[1:] {
		if prior.CategoryCounts[cat] < prior.CategoryCounts[best] {
			best = cat
		}
	}
	return best, true
}

// noSpendActivity finds a neutral finance-category catalog entry to
// hang an ACTIVITY_COUNT goal on.
func noSpendActivity(catalog []model.ActivityDefinition) (string, bool) {
	for _, def := range catalog {
		if def.Active && def.Category == "finance" && def.BasePoints == 0 {
			return def.Name, true
		}
	}
	return "", false
}

// Outcome pairs a goal with its progress at finalization time.
type Outcome struct {
	Goal     model.WeeklyGoal `json:"goal"`
	Progress Progress         `json:"progress"`
}

// Finalize flips Completed on every goal whose progress says so and
// returns the outcomes plus the bonus total earned from completed
// goals. Already-completed goals stay completed, so re-running
// finalization for the same week is a no-op. Goals left incomplete are
// implicitly expired; no separate transition exists.
func Finalize(goals []model.WeeklyGoal, snap Snapshot) ([]Outcome, int) {
	outcomes := make([]Outcome, 0, len(goals))
	bonusTotal := 0
	for _, g := range goals {
		pr := Evaluate(g, snap)
		g.Completed = g.Completed || pr.Completed
		if g.Completed {
			pr.Completed = true
			bonusTotal += g.BonusPoints
		}
		outcomes = append(outcomes, Outcome{Goal: g, Progress: pr})
	}
	return outcomes, bonusTotal
}
