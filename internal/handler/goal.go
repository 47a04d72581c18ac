package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mhollis/homepoints/internal/engine"
	"github.com/mhollis/homepoints/internal/goal"
	"github.com/mhollis/homepoints/internal/model"
	"github.com/mhollis/homepoints/internal/store"
)

// defaultHouseholdID matches the seed row; the kiosk serves one
// household per install.
const defaultHouseholdID = 1

type GoalHandler struct {
	engine    *engine.Engine
	financial *store.FinancialGoalStore
	logger    *slog.Logger
}

func NewGoalHandler(eng *engine.Engine, fs *store.FinancialGoalStore, logger *slog.Logger) *GoalHandler {
	return &GoalHandler{engine: eng, financial: fs, logger: logger}
}

// Weekly returns the actor's goals for the current week with live
// progress, generating them on first request.
func (h *GoalHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	actorKey := r.PathValue("actor")
	progress, err := h.engine.EvaluateWeeklyGoals(actorKey, time.Now())
	if err != nil {
		h.logger.Error("weekly goals", "actor", actorKey, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to evaluate goals"})
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type finalizeRequest struct {
	Week string `json:"week,omitempty"`
}

// Finalize closes out a week for the actor: goal completion bonuses
// plus threshold bonuses, returned as a week-in-review. Defaults to
// the previous week since finalization normally runs after Sunday.
func (h *GoalHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	actorKey := r.PathValue("actor")

	var req finalizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
	}

	at := time.Now().AddDate(0, 0, -7)
	if req.Week != "" {
		parsed, err := time.Parse("2006-01-02", req.Week)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be YYYY-MM-DD"})
			return
		}
		at = parsed
	}

	review, err := h.engine.FinalizeWeek(actorKey, at)
	if err != nil {
		h.logger.Error("finalize week", "actor", actorKey, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to finalize week"})
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func (h *GoalHandler) Financial(w http.ResponseWriter, r *http.Request) {
	progress, err := h.engine.FinancialGoals(defaultHouseholdID)
	if err != nil {
		h.logger.Error("financial goals", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to evaluate financial goals"})
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

type financialGoalRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	TargetAmount  float64 `json:"target_amount"`
	InitialAmount float64 `json:"initial_amount,omitempty"`
	TargetDate    string  `json:"target_date,omitempty"`
	LinkedGoalID  string  `json:"linked_goal_id,omitempty"`
}

func (h *GoalHandler) CreateFinancial(w http.ResponseWriter, r *http.Request) {
	var req financialGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	goalType := model.FinancialGoalType(req.Type)
	switch goalType {
	case model.FinSavings, model.FinDebt, model.FinVacationFund:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be savings, debt, or vacation_fund"})
		return
	}
	if req.TargetAmount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_amount must be positive"})
		return
	}

	g := model.FinancialGoal{
		HouseholdID:   defaultHouseholdID,
		Name:          req.Name,
		Type:          goalType,
		TargetAmount:  req.TargetAmount,
		InitialAmount: req.InitialAmount,
		CurrentAmount: req.InitialAmount,
		Status:        model.FinActive,
	}
	if goalType == model.FinDebt && req.InitialAmount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "debt goals need a positive initial_amount"})
		return
	}
	if req.TargetDate != "" {
		td, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_date must be YYYY-MM-DD"})
			return
		}
		g.TargetDate = &td
	}
	if req.LinkedGoalID != "" {
		linkedID, err := uuid.Parse(req.LinkedGoalID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "linked_goal_id must be a UUID"})
			return
		}
		linked, err := h.financial.GetByID(linkedID)
		if err != nil {
			h.logger.Error("check linked goal", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
			return
		}
		if linked == nil || linked.Type != model.FinSavings {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "linked_goal_id must reference a savings goal"})
			return
		}
		g.LinkedGoalID = &linkedID
	}

	created, err := h.financial.Create(g)
	if err != nil {
		h.logger.Error("create financial goal", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type amountUpdatesRequest struct {
	Updates []goal.AmountUpdate `json:"updates"`
}

// UpdateAmounts applies a batch of financial amount updates. The batch
// always returns 200 with per-item results so one bad item does not
// hide the rest.
func (h *GoalHandler) UpdateAmounts(w http.ResponseWriter, r *http.Request) {
	var req amountUpdatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Updates) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "updates is required"})
		return
	}

	results, err := h.engine.UpdateGoalAmounts(defaultHouseholdID, req.Updates)
	if err != nil {
		h.logger.Error("update goal amounts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to apply updates"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
