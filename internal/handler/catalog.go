package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/mhollis/homepoints/internal/catalog"
	"github.com/mhollis/homepoints/internal/live"
	"github.com/mhollis/homepoints/internal/model"
	"github.com/mhollis/homepoints/internal/store"
	"github.com/mhollis/homepoints/internal/summary"
)

type CatalogHandler struct {
	activityStore *store.ActivityStore
	cache         *catalog.Cache
	hub           *live.Hub
	logger        *slog.Logger
}

func NewCatalogHandler(as *store.ActivityStore, cache *catalog.Cache, hub *live.Hub, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{activityStore: as, cache: cache, hub: hub, logger: logger}
}

func (h *CatalogHandler) changed() {
	h.cache.Invalidate()
	if h.hub != nil {
		h.hub.Publish(live.Event{Type: live.EventCatalogChanged})
	}
}

type activityRequest struct {
	Name       string `json:"name"`
	BasePoints int    `json:"base_points"`
	Category   string `json:"category"`
	Required   bool   `json:"required"`
	Active     *bool  `json:"active,omitempty"`
}

func (r *activityRequest) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name is required"
	}
	if !slices.Contains(summary.KnownCategories, r.Category) {
		return "category must be one of: " + strings.Join(summary.KnownCategories, ", ")
	}
	return ""
}

// List returns the full catalog; pass ?active=true for only the
// definitions a submission can currently resolve against.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		defs []model.ActivityDefinition
		err  error
	)
	if r.URL.Query().Get("active") == "true" {
		defs, err = h.activityStore.ListActive()
	} else {
		defs, err = h.activityStore.List()
	}
	if err != nil {
		h.logger.Error("list activities", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list activities"})
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	existing, err := h.activityStore.GetByName(req.Name)
	if err != nil {
		h.logger.Error("check activity name", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create activity"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "activity name already exists"})
		return
	}

	def, err := h.activityStore.Create(req.Name, req.BasePoints, req.Category, req.Required)
	if err != nil {
		h.logger.Error("create activity", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create activity"})
		return
	}

	h.changed()
	writeJSON(w, http.StatusCreated, def)
}

func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid activity id"})
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	current, err := h.activityStore.GetByID(id)
	if err != nil {
		h.logger.Error("load activity", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update activity"})
		return
	}
	if current == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "activity not found"})
		return
	}

	active := current.Active
	if req.Active != nil {
		active = *req.Active
	}

	def, err := h.activityStore.Update(id, req.Name, req.BasePoints, req.Category, req.Required, active)
	if err != nil {
		h.logger.Error("update activity", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update activity"})
		return
	}

	h.changed()
	writeJSON(w, http.StatusOK, def)
}
