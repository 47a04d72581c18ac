package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mhollis/homepoints/internal/live"
	"github.com/mhollis/homepoints/internal/reward"
	"github.com/mhollis/homepoints/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	hub           *live.Hub
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *live.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, hub: hub, logger: logger}
}

func (h *SettingsHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetStreakSettings()
	if err != nil {
		h.logger.Error("get streak settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateStreak updates the streak reward tuning. The whole request is
// validated before any key is written so a bad batch cannot leave the
// tiers half-updated.
func (h *SettingsHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := validateStreakSettings(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for key, value := range req {
		if err := h.settingsStore.Set(key, value); err != nil {
			h.logger.Error("save streak setting", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	if h.hub != nil {
		h.hub.Publish(live.Event{Type: live.EventSettingsChanged})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func validateStreakSettings(req map[string]string) error {
	allowed := map[string]bool{
		reward.KeyTier1Days:      true,
		reward.KeyTier2Days:      true,
		reward.KeyMultiplierDays: true,
		reward.KeyTier1Bonus:     true,
		reward.KeyTier2Bonus:     true,
	}

	parsed := map[string]int{}
	for key, value := range req {
		if !allowed[key] {
			return fmt.Errorf("unknown setting %q", key)
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive integer", key)
		}
		parsed[key] = n
	}

	// Tier ordering is only checkable when all three day keys arrive
	// together; partial updates are validated against themselves only
	// and the reward config falls back to defaults if they invert.
	t1, ok1 := parsed[reward.KeyTier1Days]
	t2, ok2 := parsed[reward.KeyTier2Days]
	tm, okm := parsed[reward.KeyMultiplierDays]
	if ok1 && ok2 && okm && (t1 >= t2 || t2 >= tm) {
		return fmt.Errorf("tier days must be strictly increasing")
	}
	return nil
}
