package model

import "time"

// ActivityDefinition is a catalog entry describing a loggable activity.
// The engine treats the catalog as read-only; administrators edit it
// through the catalog handlers, which invalidate the cache.
type ActivityDefinition struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	BasePoints int       `json:"base_points"`
	Category   string    `json:"category"`
	Required   bool      `json:"required"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ActivityEvent is one append-only ledger entry. AwardedPoints is fixed
// once at submission time; BasePoints is kept so aggregation can count
// by sign without un-doing streak bonuses.
type ActivityEvent struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	ActorKey      string    `json:"actor_key"`
	ActivityName  string    `json:"activity_name"`
	Category      string    `json:"category"`
	BasePoints    int       `json:"base_points"`
	AwardedPoints int       `json:"awarded_points"`
	Unknown       bool      `json:"unknown,omitempty"`
}

// Submission is a raw intake record: one actor logging one or more
// activities at a single point in time.
type Submission struct {
	ActorKey   string    `json:"actor_key"`
	Timestamp  time.Time `json:"timestamp"`
	Activities []string  `json:"activities"`
}
