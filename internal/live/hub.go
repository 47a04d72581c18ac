// Package live pushes engine events to connected dashboard clients
// over WebSocket. The engine publishes typed events; clients only
// listen, so the read side of each connection is drained and dropped.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is one engine notification. Fields beyond Type are filled per
// kind: activity events carry actor/activity/points, goal events carry
// the goal ID.
type Event struct {
	Type     string `json:"type"`
	ActorKey string `json:"actor_key,omitempty"`
	Activity string `json:"activity,omitempty"`
	Points   int    `json:"points,omitempty"`
	GoalID   string `json:"goal_id,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Event types published by the engine.
const (
	EventActivityLogged    = "activity_logged"
	EventUnknownActivity   = "unknown_activity"
	EventGoalsGenerated    = "goals_generated"
	EventWeekFinalized     = "week_finalized"
	EventGoalCompleted     = "goal_completed"
	EventCascadeActivated  = "cascade_activated"
	EventSettingsChanged   = "settings_changed"
	EventCatalogChanged    = "catalog_changed"
)

// Hub tracks connected clients and fans events out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish sends an event to every connected client. Clients with full
// buffers miss the event rather than blocking the engine.
func (h *Hub) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("marshal event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
