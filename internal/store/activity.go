package store

import (
	"database/sql"
	"fmt"

	"github.com/mhollis/homepoints/internal/model"
)

// ActivityStore manages the activity definition catalog. The engine
// only reads it (through the catalog cache); writes come from the admin
// handlers.
type ActivityStore struct {
	db *sql.DB
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

const activityCols = `id, name, base_points, category, required, active, created_at, updated_at`

func scanActivity(scanner interface{ Scan(...any) error }) (*model.ActivityDefinition, error) {
	var d model.ActivityDefinition
	var required, active int

	err := scanner.Scan(&d.ID, &d.Name, &d.BasePoints, &d.Category, &required, &active, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	d.Required = required != 0
	d.Active = active != 0
	return &d, nil
}

func (s *ActivityStore) Create(name string, basePoints int, category string, required bool) (*model.ActivityDefinition, error) {
	var req int
	if required {
		req = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO activities (name, base_points, category, required) VALUES (?, ?, ?, ?)`,
		name, basePoints, category, req,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ActivityStore) GetByID(id int64) (*model.ActivityDefinition, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	d, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return d, nil
}

func (s *ActivityStore) GetByName(name string) (*model.ActivityDefinition, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE name = ?`, name)
	d, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity by name: %w", err)
	}
	return d, nil
}

// List returns all catalog entries, active first, then by name.
func (s *ActivityStore) List() ([]model.ActivityDefinition, error) {
	return s.list(`SELECT ` + activityCols + ` FROM activities ORDER BY active DESC, name ASC`)
}

// ListActive returns only active entries; this is the cache's source.
func (s *ActivityStore) ListActive() ([]model.ActivityDefinition, error) {
	return s.list(`SELECT ` + activityCols + ` FROM activities WHERE active = 1 ORDER BY name ASC`)
}

func (s *ActivityStore) list(query string) ([]model.ActivityDefinition, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var defs []model.ActivityDefinition
	for rows.Next() {
		d, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		defs = append(defs, *d)
	}
	return defs, rows.Err()
}

func (s *ActivityStore) Update(id int64, name string, basePoints int, category string, required, active bool) (*model.ActivityDefinition, error) {
	var req, act int
	if required {
		req = 1
	}
	if active {
		act = 1
	}

	_, err := s.db.Exec(
		`UPDATE activities SET name = ?, base_points = ?, category = ?, required = ?, active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, basePoints, category, req, act, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update activity: %w", err)
	}
	return s.GetByID(id)
}
