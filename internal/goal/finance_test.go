package goal

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
)

var finNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func savings(name string, target, current float64) model.FinancialGoal {
	return model.FinancialGoal{
		ID: uuid.New(), HouseholdID: 1, Name: name,
		Type: model.FinSavings, TargetAmount: target, CurrentAmount: current,
		Status: model.FinActive,
	}
}

func TestSavingsProgress(t *testing.T) {
	pr := EvaluateFinancial(savings("Emergency fund", 1000, 250), nil)
	if pr.Percent != 25 {
		t.Errorf("percent = %.1f, want 25", pr.Percent)
	}
	if pr.AmountRemaining != 750 {
		t.Errorf("remaining = %.1f, want 750", pr.AmountRemaining)
	}
}

func TestSavingsProgressCapped(t *testing.T) {
	pr := EvaluateFinancial(savings("Emergency fund", 1000, 1500), nil)
	if pr.Percent != 100 {
		t.Errorf("percent = %.1f, want 100", pr.Percent)
	}
	if pr.AmountRemaining != 0 {
		t.Errorf("remaining = %.1f, want 0", pr.AmountRemaining)
	}
}

func TestDebtProgress(t *testing.T) {
	g := model.FinancialGoal{
		ID: uuid.New(), Name: "Car loan", Type: model.FinDebt,
		InitialAmount: 8000, CurrentAmount: 2000, Status: model.FinActive,
	}

	pr := EvaluateFinancial(g, nil)
	if pr.AmountRemaining != 2000 {
		t.Errorf("remaining = %.1f, want 2000", pr.AmountRemaining)
	}
	if pr.Percent != 75 {
		t.Errorf("percent = %.1f, want 75", pr.Percent)
	}
}

func TestVacationWaitingBeforeLinkCompletes(t *testing.T) {
	s := savings("Vacation savings", 1000, 600)
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Beach trip fund", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}
	all := []model.FinancialGoal{s, v}

	pr := EvaluateFinancial(v, all)
	if !pr.Waiting {
		t.Error("vacation fund should be waiting while linked savings < 100%")
	}
	if pr.Percent != 0 || pr.CurrentAmount != 0 {
		t.Errorf("got percent=%.1f current=%.1f, want zeros while waiting", pr.Percent, pr.CurrentAmount)
	}
}

func TestVacationCascadeScenario(t *testing.T) {
	// Savings target 1000 with current 1100: excess 100 flows into the
	// vacation fund (target 500) for 20% progress.
	s := savings("Vacation savings", 1000, 1100)
	s.Status = model.FinCompleted
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Island hop", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}
	all := []model.FinancialGoal{s, v}

	pr := EvaluateFinancial(v, all)
	if pr.Waiting {
		t.Fatal("should not be waiting once the linked savings goal completed")
	}
	if pr.CurrentAmount != 100 {
		t.Errorf("current = %.1f, want 100", pr.CurrentAmount)
	}
	if pr.Percent != 20 {
		t.Errorf("percent = %.1f, want 20", pr.Percent)
	}
}

func TestLinkedSavingsExplicitIDWins(t *testing.T) {
	s1 := savings("Vacation savings", 1000, 100)
	s2 := savings("House fund", 5000, 100)
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Trip", Type: model.FinVacationFund,
		TargetAmount: 500, LinkedGoalID: &s2.ID, Status: model.FinActive,
	}
	all := []model.FinancialGoal{s1, s2, v}

	linked := LinkedSavings(v, all)
	if linked == nil || linked.ID != s2.ID {
		t.Errorf("linked = %v, want explicit s2", linked)
	}
}

func TestLinkedSavingsNameHeuristic(t *testing.T) {
	s1 := savings("House fund", 5000, 100)
	s2 := savings("Travel nest egg", 1000, 100)
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Summer fund", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}
	all := []model.FinancialGoal{s1, s2, v}

	linked := LinkedSavings(v, all)
	if linked == nil || linked.ID != s2.ID {
		t.Errorf("linked = %v, want the travel-named savings goal", linked)
	}
}

func TestLinkedSavingsVacationNamedFund(t *testing.T) {
	// The heuristic also matches when the fund itself carries the name.
	s := savings("Long-term savings", 1000, 100)
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Vacation 2027", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}

	linked := LinkedSavings(v, []model.FinancialGoal{s, v})
	if linked == nil || linked.ID != s.ID {
		t.Errorf("linked = %v, want the savings goal", linked)
	}
}

func TestApplyAmountUpdates(t *testing.T) {
	s := savings("Vacation savings", 1000, 900)
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Trip fund", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}
	goals := []model.FinancialGoal{s, v}

	updated, results, activated := ApplyAmountUpdates(goals, []AmountUpdate{
		{GoalID: s.ID, NewAmount: 1100},
	}, finNow)

	if len(results) != 1 || !results[0].Applied {
		t.Fatalf("results = %+v, want one applied", results)
	}
	if !results[0].CompletedNow || results[0].Status != model.FinCompleted {
		t.Errorf("result = %+v, want completed-now", results[0])
	}
	if updated[0].CurrentAmount != 1100 || updated[0].Status != model.FinCompleted {
		t.Errorf("goal = %+v, want amount 1100 completed", updated[0])
	}
	if len(activated) != 1 || activated[0] != v.ID {
		t.Errorf("activated = %v, want the vacation fund cascade", activated)
	}
}

func TestApplyAmountUpdatesPartialFailure(t *testing.T) {
	s := savings("Emergency fund", 1000, 100)
	goals := []model.FinancialGoal{s}

	_, results, _ := ApplyAmountUpdates(goals, []AmountUpdate{
		{GoalID: uuid.New(), NewAmount: 50},
		{GoalID: s.ID, NewAmount: -1},
		{GoalID: s.ID, NewAmount: 200},
	}, finNow)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Applied || results[0].Error == "" {
		t.Errorf("result[0] = %+v, want not-found error", results[0])
	}
	if results[1].Applied || results[1].Error == "" {
		t.Errorf("result[1] = %+v, want negative-amount error", results[1])
	}
	if !results[2].Applied {
		t.Errorf("result[2] = %+v, want applied despite earlier failures", results[2])
	}
}

func TestApplyAmountUpdatesRejectsVacationFund(t *testing.T) {
	v := model.FinancialGoal{
		ID: uuid.New(), Name: "Trip fund", Type: model.FinVacationFund,
		TargetAmount: 500, Status: model.FinActive,
	}

	_, results, _ := ApplyAmountUpdates([]model.FinancialGoal{v}, []AmountUpdate{
		{GoalID: v.ID, NewAmount: 100},
	}, finNow)
	if results[0].Applied {
		t.Error("vacation fund amounts are derived and must not be writable")
	}
}

func TestDebtCompletionOnUpdate(t *testing.T) {
	d := model.FinancialGoal{
		ID: uuid.New(), Name: "Card", Type: model.FinDebt,
		InitialAmount: 500, CurrentAmount: 120, Status: model.FinActive,
	}

	updated, results, activated := ApplyAmountUpdates([]model.FinancialGoal{d}, []AmountUpdate{
		{GoalID: d.ID, NewAmount: 0},
	}, finNow)
	if updated[0].Status != model.FinCompleted || !results[0].CompletedNow {
		t.Errorf("debt payoff should complete the goal: %+v", results[0])
	}
	if len(activated) != 0 {
		t.Errorf("debt completion must not trigger a cascade: %v", activated)
	}
}
