package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
)

func TestFinancialGoalRoundTrip(t *testing.T) {
	fs := NewFinancialGoalStore(setupTestDB(t))
	due := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	created, err := fs.Create(model.FinancialGoal{
		HouseholdID:  1,
		Name:         "Emergency fund",
		Type:         model.FinSavings,
		TargetAmount: 1000,
		TargetDate:   &due,
		Status:       model.FinActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("created goal should have an id")
	}
	if created.TargetDate == nil || !created.TargetDate.Equal(due) {
		t.Errorf("target date = %v, want %v", created.TargetDate, due)
	}

	got, err := fs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Emergency fund" || got.Type != model.FinSavings {
		t.Errorf("got = %+v", got)
	}
}

func TestFinancialGoalLinkedID(t *testing.T) {
	fs := NewFinancialGoalStore(setupTestDB(t))

	savings, err := fs.Create(model.FinancialGoal{
		HouseholdID: 1, Name: "Vacation savings", Type: model.FinSavings,
		TargetAmount: 1000, Status: model.FinActive,
	})
	if err != nil {
		t.Fatalf("create savings: %v", err)
	}

	fund, err := fs.Create(model.FinancialGoal{
		HouseholdID: 1, Name: "Trip fund", Type: model.FinVacationFund,
		TargetAmount: 500, LinkedGoalID: &savings.ID, Status: model.FinActive,
	})
	if err != nil {
		t.Fatalf("create fund: %v", err)
	}
	if fund.LinkedGoalID == nil || *fund.LinkedGoalID != savings.ID {
		t.Errorf("linked id = %v, want %v", fund.LinkedGoalID, savings.ID)
	}
}

func TestFinancialGoalForHousehold(t *testing.T) {
	fs := NewFinancialGoalStore(setupTestDB(t))

	for i, name := range []string{"First", "Second"} {
		g := model.FinancialGoal{
			HouseholdID: 1, Name: name, Type: model.FinSavings,
			TargetAmount: float64(1000 * (i + 1)), Status: model.FinActive,
		}
		if _, err := fs.Create(g); err != nil {
			t.Fatalf("create %q: %v", name, err)
		}
	}
	other := model.FinancialGoal{HouseholdID: 2, Name: "Elsewhere", Type: model.FinDebt, Status: model.FinActive}
	if _, err := fs.Create(other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	goals, err := fs.ForHousehold(1)
	if err != nil {
		t.Fatalf("for household: %v", err)
	}
	if len(goals) != 2 {
		t.Errorf("len(goals) = %d, want 2", len(goals))
	}
}

func TestFinancialGoalUpdateAmount(t *testing.T) {
	fs := NewFinancialGoalStore(setupTestDB(t))

	created, err := fs.Create(model.FinancialGoal{
		HouseholdID: 1, Name: "Emergency fund", Type: model.FinSavings,
		TargetAmount: 1000, CurrentAmount: 100, Status: model.FinActive,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	if err := fs.UpdateAmount(created.ID, 1100, model.FinCompleted, now); err != nil {
		t.Fatalf("update amount: %v", err)
	}

	got, err := fs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CurrentAmount != 1100 || got.Status != model.FinCompleted {
		t.Errorf("got = %+v, want amount 1100 completed", got)
	}
}

func TestFinancialGoalGetMissing(t *testing.T) {
	fs := NewFinancialGoalStore(setupTestDB(t))

	got, err := fs.GetByID(uuid.New())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}
