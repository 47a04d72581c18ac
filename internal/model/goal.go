package model

import (
	"time"

	"github.com/google/uuid"
)

type WeeklyGoalType string

const (
	GoalCategoryCount  WeeklyGoalType = "category_count"
	GoalNegativeLimit  WeeklyGoalType = "negative_limit"
	GoalStreakMaintain WeeklyGoalType = "streak_maintain"
	GoalStreakStart    WeeklyGoalType = "streak_start"
	GoalActivityCount  WeeklyGoalType = "activity_count"
)

// GoalParams is the per-type parameter variant carried by a WeeklyGoal.
// Exactly one concrete type matches each WeeklyGoalType.
type GoalParams interface {
	goalParams()
}

// CategoryCountParams: log Target events in Category this week.
type CategoryCountParams struct {
	Category string `json:"category"`
	Target   int    `json:"target"`
}

// ActivityCountParams: log Activity Target times this week.
type ActivityCountParams struct {
	Activity string `json:"activity"`
	Target   int    `json:"target"`
}

// NegativeLimitParams: keep this week's negative point total at or
// under Limit. PriorTotal is last week's negative total, kept so
// progress can be expressed as reduction achieved vs required.
type NegativeLimitParams struct {
	Limit      int `json:"limit"`
	PriorTotal int `json:"prior_total"`
}

// StreakMaintainParams: extend the streak on Activity from StartLength
// to StartLength+7 by the end of the week.
type StreakMaintainParams struct {
	Activity    string `json:"activity"`
	StartLength int    `json:"start_length"`
}

// StreakStartParams: reach a streak of Target days on any activity.
type StreakStartParams struct {
	Target int `json:"target"`
}

func (CategoryCountParams) goalParams()  {}
func (ActivityCountParams) goalParams()  {}
func (NegativeLimitParams) goalParams()  {}
func (StreakMaintainParams) goalParams() {}
func (StreakStartParams) goalParams()    {}

// WeeklyGoal is a behavioral goal for one calendar week. Goals are
// generated at week start, never deleted by the engine, and mutated
// only to flip Completed.
type WeeklyGoal struct {
	ID          uuid.UUID      `json:"id"`
	ActorKey    string         `json:"actor_key"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Type        WeeklyGoalType `json:"type"`
	Params      GoalParams     `json:"params"`
	BonusPoints int            `json:"bonus_points"`
	WeekStart   time.Time      `json:"week_start"`
	WeekEnd     time.Time      `json:"week_end"`
	Completed   bool           `json:"completed"`
	CreatedAt   time.Time      `json:"created_at"`
}

type FinancialGoalType string

const (
	FinSavings      FinancialGoalType = "savings"
	FinDebt         FinancialGoalType = "debt"
	FinVacationFund FinancialGoalType = "vacation_fund"
)

type FinancialGoalStatus string

const (
	FinActive    FinancialGoalStatus = "active"
	FinCompleted FinancialGoalStatus = "completed"
	FinPaused    FinancialGoalStatus = "paused"
	FinCancelled FinancialGoalStatus = "cancelled"
)

// FinancialGoal is a long-horizon money goal owned by a household.
// For vacation_fund goals CurrentAmount is derived from the linked
// savings goal at evaluation time, never stored. LinkedGoalID, when
// set, names the savings goal a vacation fund draws from; when nil the
// legacy name heuristic applies.
type FinancialGoal struct {
	ID            uuid.UUID           `json:"id"`
	HouseholdID   int64               `json:"household_id"`
	Name          string              `json:"name"`
	Type          FinancialGoalType   `json:"type"`
	TargetAmount  float64             `json:"target_amount"`
	CurrentAmount float64             `json:"current_amount"`
	InitialAmount float64             `json:"initial_amount"`
	TargetDate    *time.Time          `json:"target_date"`
	LinkedGoalID  *uuid.UUID          `json:"linked_goal_id"`
	Status        FinancialGoalStatus `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
