package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mhollis/homepoints/internal/model"
)

// EventStore is the append-only activity ledger. Awarded points are
// written once at submission time and never recomputed from stored
// rows.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventCols = `id, timestamp, actor_key, activity_name, category, base_points, awarded_points, unknown`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.ActivityEvent, error) {
	var ev model.ActivityEvent
	var unknown int

	err := scanner.Scan(&ev.ID, &ev.Timestamp, &ev.ActorKey, &ev.ActivityName, &ev.Category, &ev.BasePoints, &ev.AwardedPoints, &unknown)
	if err != nil {
		return nil, err
	}

	ev.Unknown = unknown != 0
	return &ev, nil
}

func (s *EventStore) Append(ev model.ActivityEvent) (*model.ActivityEvent, error) {
	var unknown int
	if ev.Unknown {
		unknown = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO activity_events (timestamp, actor_key, activity_name, category, base_points, awarded_points, unknown)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.Timestamp, ev.ActorKey, ev.ActivityName, ev.Category, ev.BasePoints, ev.AwardedPoints, unknown,
	)
	if err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+eventCols+` FROM activity_events WHERE id = ?`, id)
	return scanEvent(row)
}

// Query returns events in [from, to) in chronological order. An empty
// actorKeys slice matches all actors. Rows that fail to scan are
// logged and skipped so one malformed entry cannot sink a streak or
// summary computation.
func (s *EventStore) Query(actorKeys []string, from, to time.Time) ([]model.ActivityEvent, error) {
	query := `SELECT ` + eventCols + ` FROM activity_events WHERE timestamp >= ? AND timestamp < ?`
	args := []any{from, to}
	if len(actorKeys) > 0 {
		query += ` AND actor_key IN (?` + strings.Repeat(", ?", len(actorKeys)-1) + `)`
		for _, key := range actorKeys {
			args = append(args, key)
		}
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.ActivityEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			slog.Warn("skipping malformed ledger entry", "error", err)
			continue
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}
