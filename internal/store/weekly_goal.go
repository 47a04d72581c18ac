package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/model"
)

// WeeklyGoalStore persists weekly goals. Per-type params are stored as
// a JSON column and decoded back into the matching typed variant; the
// engine never sees an untyped parameter bag.
type WeeklyGoalStore struct {
	db *sql.DB
}

func NewWeeklyGoalStore(db *sql.DB) *WeeklyGoalStore {
	return &WeeklyGoalStore{db: db}
}

const weeklyGoalCols = `id, actor_key, name, description, type, params, bonus_points, week_start, week_end, completed, created_at`

func decodeParams(typ model.WeeklyGoalType, raw string) (model.GoalParams, error) {
	switch typ {
	case model.GoalCategoryCount:
		var p model.CategoryCountParams
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case model.GoalActivityCount:
		var p model.ActivityCountParams
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case model.GoalNegativeLimit:
		var p model.NegativeLimitParams
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case model.GoalStreakMaintain:
		var p model.StreakMaintainParams
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	case model.GoalStreakStart:
		var p model.StreakStartParams
		err := json.Unmarshal([]byte(raw), &p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown goal type %q", typ)
	}
}

func scanWeeklyGoal(scanner interface{ Scan(...any) error }) (*model.WeeklyGoal, error) {
	var g model.WeeklyGoal
	var id, params string
	var completed int

	err := scanner.Scan(&id, &g.ActorKey, &g.Name, &g.Description, &g.Type, &params, &g.BonusPoints, &g.WeekStart, &g.WeekEnd, &completed, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	g.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse goal id %q: %w", id, err)
	}
	g.Params, err = decodeParams(g.Type, params)
	if err != nil {
		return nil, fmt.Errorf("decode goal params: %w", err)
	}
	g.Completed = completed != 0
	return &g, nil
}

// SaveAll inserts the given goals, ignoring ones already present so a
// re-run of goal generation for the same week is harmless.
func (s *WeeklyGoalStore) SaveAll(goals []model.WeeklyGoal) error {
	for _, g := range goals {
		params, err := json.Marshal(g.Params)
		if err != nil {
			return fmt.Errorf("encode goal params: %w", err)
		}

		var completed int
		if g.Completed {
			completed = 1
		}
		_, err = s.db.Exec(
			`INSERT OR IGNORE INTO weekly_goals (id, actor_key, name, description, type, params, bonus_points, week_start, week_end, completed, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID.String(), g.ActorKey, g.Name, g.Description, string(g.Type), string(params), g.BonusPoints, g.WeekStart, g.WeekEnd, completed, g.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert weekly goal: %w", err)
		}
	}
	return nil
}

// ForWeek returns the actor's goals for the week starting at weekStart,
// in creation order.
func (s *WeeklyGoalStore) ForWeek(actorKey string, weekStart time.Time) ([]model.WeeklyGoal, error) {
	rows, err := s.db.Query(
		`SELECT `+weeklyGoalCols+` FROM weekly_goals WHERE actor_key = ? AND week_start = ? ORDER BY created_at ASC, id ASC`,
		actorKey, weekStart,
	)
	if err != nil {
		return nil, fmt.Errorf("list weekly goals: %w", err)
	}
	defer rows.Close()

	var goals []model.WeeklyGoal
	for rows.Next() {
		g, err := scanWeeklyGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly goal: %w", err)
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// MarkCompleted flips the completed flag. Flipping an already-completed
// goal is a no-op, which is what makes finalization idempotent.
func (s *WeeklyGoalStore) MarkCompleted(id uuid.UUID) error {
	_, err := s.db.Exec(`UPDATE weekly_goals SET completed = 1 WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("mark goal completed: %w", err)
	}
	return nil
}
