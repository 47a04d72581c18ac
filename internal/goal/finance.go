package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
)

// FinancialProgress is the evaluated view of one financial goal.
// CurrentAmount echoes the stored amount except for vacation funds,
// where it is derived from the linked savings goal's excess. Waiting is
// true for a vacation fund whose linked savings goal has not completed
// (or which has no link at all).
type FinancialProgress struct {
	Goal            model.FinancialGoal `json:"goal"`
	CurrentAmount   float64             `json:"current_amount"`
	AmountRemaining float64             `json:"amount_remaining"`
	Percent         float64             `json:"percent"`
	Waiting         bool                `json:"waiting"`
}

// EvaluateFinancial computes progress for one goal given the
// household's full goal set (needed to resolve vacation-fund links).
// The link is recomputed on every call, never stored.
func EvaluateFinancial(g model.FinancialGoal, all []model.FinancialGoal) FinancialProgress {
	switch g.Type {
	case model.FinDebt:
		pr := FinancialProgress{Goal: g, CurrentAmount: g.CurrentAmount, AmountRemaining: g.CurrentAmount}
		if g.InitialAmount > 0 {
			pr.Percent = clampPercent((g.InitialAmount - g.CurrentAmount) / g.InitialAmount * 100)
		} else if g.CurrentAmount <= 0 {
			pr.Percent = 100
		}
		return pr

	case model.FinVacationFund:
		linked := LinkedSavings(g, all)
		if linked == nil || savingsPercent(*linked) < 100 {
			return FinancialProgress{Goal: g, Waiting: true, AmountRemaining: g.TargetAmount}
		}
		excess := max(0, linked.CurrentAmount-linked.TargetAmount)
		pr := FinancialProgress{Goal: g, CurrentAmount: excess}
		if g.TargetAmount > 0 {
			pr.Percent = clampPercent(excess / g.TargetAmount * 100)
		}
		pr.AmountRemaining = max(0, g.TargetAmount-excess)
		return pr

	default: // savings
		pr := FinancialProgress{Goal: g, CurrentAmount: g.CurrentAmount}
		pr.Percent = savingsPercent(g)
		pr.AmountRemaining = max(0, g.TargetAmount-g.CurrentAmount)
		return pr
	}
}

// EvaluateHousehold evaluates every goal in a household's set.
func EvaluateHousehold(goals []model.FinancialGoal) []FinancialProgress {
	out := make([]FinancialProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, EvaluateFinancial(g, goals))
	}
	return out
}

// LinkedSavings resolves the savings goal a vacation fund draws from.
// An explicit LinkedGoalID wins; otherwise the legacy convention
// applies: the first savings goal where either goal's name mentions
// "vacation" or "travel", case-insensitive.
func LinkedSavings(v model.FinancialGoal, all []model.FinancialGoal) *model.FinancialGoal {
	if v.Type != model.FinVacationFund {
		return nil
	}

	for i := range all {
		s := &all[i]
		if s.Type != model.FinSavings || s.ID == v.ID {
			continue
		}
		if v.LinkedGoalID != nil {
			if s.ID == *v.LinkedGoalID {
				return s
			}
			continue
		}
		if vacationNamed(v.Name) || vacationNamed(s.Name) {
			return s
		}
	}
	return nil
}

func vacationNamed(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "vacation") || strings.Contains(lower, "travel")
}

func savingsPercent(g model.FinancialGoal) float64 {
	if g.TargetAmount <= 0 {
		return 100
	}
	return clampPercent(g.CurrentAmount / g.TargetAmount * 100)
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// AmountUpdate is one entry in a batch current-amount update.
type AmountUpdate struct {
	GoalID    uuid.UUID `json:"goal_id"`
	NewAmount float64   `json:"new_amount"`
}

// UpdateResult reports one update's outcome so a batch can report
// partial success instead of failing wholesale.
type UpdateResult struct {
	GoalID       uuid.UUID                 `json:"goal_id"`
	Applied      bool                      `json:"applied"`
	Error        string                    `json:"error,omitempty"`
	Status       model.FinancialGoalStatus `json:"status,omitempty"`
	CompletedNow bool                      `json:"completed_now,omitempty"`
}

// ApplyAmountUpdates applies a batch of amount updates to a snapshot of
// a household's goals. It returns the mutated goal set, per-update
// results, and the IDs of vacation funds whose cascade activated
// because a savings goal completed in this batch. The caller persists
// the changed goals.
func ApplyAmountUpdates(goals []model.FinancialGoal, updates []AmountUpdate, now time.Time) ([]model.FinancialGoal, []UpdateResult, []uuid.UUID) {
	byID := make(map[uuid.UUID]int, len(goals))
	for i, g := range goals {
		byID[g.ID] = i
	}

	results := make([]UpdateResult, 0, len(updates))
	var completedSavings []uuid.UUID

	for _, u := range updates {
		res := UpdateResult{GoalID: u.GoalID}
		idx, ok := byID[u.GoalID]
		switch {
		case !ok:
			res.Error = "goal not found"
		case u.NewAmount < 0:
			res.Error = "amount must be non-negative"
		case goals[idx].Type == model.FinVacationFund:
			res.Error = "vacation fund amounts are derived from the linked savings goal"
		case goals[idx].Status == model.FinCancelled:
			res.Error = "goal is cancelled"
		default:
			g := &goals[idx]
			wasCompleted := g.Status == model.FinCompleted
			g.CurrentAmount = u.NewAmount
			g.Status = recomputeStatus(*g)
			g.UpdatedAt = now

			res.Applied = true
			res.Status = g.Status
			res.CompletedNow = !wasCompleted && g.Status == model.FinCompleted
			if res.CompletedNow && g.Type == model.FinSavings {
				completedSavings = append(completedSavings, g.ID)
			}
		}
		results = append(results, res)
	}

	// A savings goal completing re-activates any vacation fund linked
	// to it, an observable side effect of the batch.
	var activated []uuid.UUID
	for _, savingsID := range completedSavings {
		for _, g := range goals {
			if g.Type != model.FinVacationFund {
				continue
			}
			if linked := LinkedSavings(g, goals); linked != nil && linked.ID == savingsID {
				activated = append(activated, g.ID)
			}
		}
	}

	return goals, results, activated
}

// recomputeStatus derives status from amounts; paused goals stay
// paused until completion overrides and cancelled goals are never
// updated.
func recomputeStatus(g model.FinancialGoal) model.FinancialGoalStatus {
	completed := false
	switch g.Type {
	case model.FinSavings:
		completed = g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
	case model.FinDebt:
		completed = g.CurrentAmount <= 0
	}
	if completed {
		return model.FinCompleted
	}
	if g.Status == model.FinPaused {
		return model.FinPaused
	}
	return model.FinActive
}
