package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mhollis/homepoints/internal/engine"
	"github.com/mhollis/homepoints/internal/model"
)

type ActivityHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewActivityHandler(eng *engine.Engine, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{engine: eng, logger: logger}
}

type submitRequest struct {
	ActorKey   string   `json:"actor_key"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Activities []string `json:"activities"`
}

// Submit logs a batch of activities for one actor. Unknown names are
// recorded at zero points and reported back as warnings rather than
// failing the batch.
func (h *ActivityHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.ActorKey = strings.TrimSpace(req.ActorKey)
	if req.ActorKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "actor_key is required"})
		return
	}
	if len(req.Activities) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "activities is required"})
		return
	}

	sub := model.Submission{ActorKey: req.ActorKey, Activities: req.Activities}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "timestamp must be RFC 3339"})
			return
		}
		sub.Timestamp = ts
	}

	result, err := h.engine.Submit(sub)
	if err != nil {
		h.logger.Error("submit activities", "actor", req.ActorKey, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to log activities"})
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *ActivityHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	actorKey := r.PathValue("actor")
	streaks, err := h.engine.Streaks(actorKey)
	if err != nil {
		h.logger.Error("streak overview", "actor", actorKey, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute streaks"})
		return
	}
	writeJSON(w, http.StatusOK, streaks)
}

func (h *ActivityHandler) WeekSummary(w http.ResponseWriter, r *http.Request) {
	actorKey := r.PathValue("actor")
	s, err := h.engine.WeekSummary(actorKey, time.Now())
	if err != nil {
		h.logger.Error("week summary", "actor", actorKey, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to summarize week"})
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *ActivityHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	balances, err := h.engine.Leaderboard()
	if err != nil {
		h.logger.Error("leaderboard", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute balances"})
		return
	}
	writeJSON(w, http.StatusOK, balances)
}
