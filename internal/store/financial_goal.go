package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
)

type FinancialGoalStore struct {
	db *sql.DB
}

func NewFinancialGoalStore(db *sql.DB) *FinancialGoalStore {
	return &FinancialGoalStore{db: db}
}

const financialGoalCols = `id, household_id, name, type, target_amount, current_amount, initial_amount, target_date, linked_goal_id, status, created_at, updated_at`

func scanFinancialGoal(scanner interface{ Scan(...any) error }) (*model.FinancialGoal, error) {
	var g model.FinancialGoal
	var id string
	var targetDate sql.NullTime
	var linkedID sql.NullString

	err := scanner.Scan(&id, &g.HouseholdID, &g.Name, &g.Type, &g.TargetAmount, &g.CurrentAmount, &g.InitialAmount, &targetDate, &linkedID, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse goal id %q: %w", id, err)
	}
	if targetDate.Valid {
		g.TargetDate = &targetDate.Time
	}
	if linkedID.Valid && linkedID.String != "" {
		parsed, err := uuid.Parse(linkedID.String)
		if err != nil {
			return nil, fmt.Errorf("parse linked goal id %q: %w", linkedID.String, err)
		}
		g.LinkedGoalID = &parsed
	}
	return &g, nil
}

func (s *FinancialGoalStore) Create(g model.FinancialGoal) (*model.FinancialGoal, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	now := time.Now().UTC()

	var targetDate any
	if g.TargetDate != nil {
		targetDate = *g.TargetDate
	}
	var linkedID any
	if g.LinkedGoalID != nil {
		linkedID = g.LinkedGoalID.String()
	}

	_, err := s.db.Exec(
		`INSERT INTO financial_goals (id, household_id, name, type, target_amount, current_amount, initial_amount, target_date, linked_goal_id, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID.String(), g.HouseholdID, g.Name, string(g.Type), g.TargetAmount, g.CurrentAmount, g.InitialAmount, targetDate, linkedID, string(g.Status), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert financial goal: %w", err)
	}
	return s.GetByID(g.ID)
}

func (s *FinancialGoalStore) GetByID(id uuid.UUID) (*model.FinancialGoal, error) {
	row := s.db.QueryRow(`SELECT `+financialGoalCols+` FROM financial_goals WHERE id = ?`, id.String())
	g, err := scanFinancialGoal(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get financial goal: %w", err)
	}
	return g, nil
}

// ForHousehold returns a household's goals in creation order, which
// also fixes the order the name-heuristic link resolution scans in.
func (s *FinancialGoalStore) ForHousehold(householdID int64) ([]model.FinancialGoal, error) {
	rows, err := s.db.Query(
		`SELECT `+financialGoalCols+` FROM financial_goals WHERE household_id = ? ORDER BY created_at ASC, id ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list financial goals: %w", err)
	}
	defer rows.Close()

	var goals []model.FinancialGoal
	for rows.Next() {
		g, err := scanFinancialGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan financial goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// UpdateAmount persists the outcome of one applied amount update.
func (s *FinancialGoalStore) UpdateAmount(id uuid.UUID, currentAmount float64, status model.FinancialGoalStatus, updatedAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE financial_goals SET current_amount = ?, status = ?, updated_at = ? WHERE id = ?`,
		currentAmount, string(status), updatedAt, id.String(),
	)
	if err != nil {
		return fmt.Errorf("update financial goal amount: %w", err)
	}
	return nil
}
