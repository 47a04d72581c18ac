package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhollis/homepoints/internal/catalog"
	"github.com/mhollis/homepoints/internal/engine"
	"github.com/mhollis/homepoints/internal/goal"
	"github.com/mhollis/homepoints/internal/handler"
	"github.com/mhollis/homepoints/internal/live"
	"github.com/mhollis/homepoints/internal/middleware"
	"github.com/mhollis/homepoints/internal/store"
)

// Config carries the tunables the server wires into its components.
type Config struct {
	CatalogTTL time.Duration
	BonusRules []goal.BonusRule
}

type Server struct {
	db          *sql.DB
	hub         *live.Hub
	activityH   *handler.ActivityHandler
	catalogH    *handler.CatalogHandler
	goalH       *handler.GoalHandler
	settingsH   *handler.SettingsHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := live.NewHub(logger.With("component", "live"))

	activityStore := store.NewActivityStore(db)
	eventStore := store.NewEventStore(db)
	weeklyGoalStore := store.NewWeeklyGoalStore(db)
	financialGoalStore := store.NewFinancialGoalStore(db)
	settingsStore := store.NewSettingsStore(db)

	cache := catalog.NewCache(activityStore, cfg.CatalogTTL)

	rules := cfg.BonusRules
	if len(rules) == 0 {
		rules = goal.DefaultBonusRules()
	}

	eng := engine.New(
		eventStore, weeklyGoalStore, financialGoalStore, settingsStore,
		cache, rules, hub,
		logger.With("component", "engine"),
	)

	return &Server{
		db:          db,
		hub:         hub,
		activityH:   handler.NewActivityHandler(eng, logger.With("component", "activity")),
		catalogH:    handler.NewCatalogHandler(activityStore, cache, hub, logger.With("component", "catalog")),
		goalH:       handler.NewGoalHandler(eng, financialGoalStore, logger.With("component", "goal")),
		settingsH:   handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the live event hub so callers can observe client counts.
func (s *Server) Hub() *live.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", live.Handler(s.hub))

	// Ledger
	mux.HandleFunc("POST /api/activities", s.rateLimitedHandler(s.activityH.Submit))
	mux.HandleFunc("GET /api/actors/{actor}/streaks", s.activityH.Streaks)
	mux.HandleFunc("GET /api/actors/{actor}/summary", s.activityH.WeekSummary)
	mux.HandleFunc("GET /api/leaderboard", s.activityH.Leaderboard)

	// Catalog
	mux.HandleFunc("GET /api/catalog", s.catalogH.List)
	mux.HandleFunc("POST /api/catalog", s.catalogH.Create)
	mux.HandleFunc("PUT /api/catalog/{id}", s.catalogH.Update)

	// Weekly goals
	mux.HandleFunc("GET /api/actors/{actor}/goals", s.goalH.Weekly)
	mux.HandleFunc("POST /api/actors/{actor}/finalize", s.goalH.Finalize)

	// Financial goals
	mux.HandleFunc("GET /api/financial-goals", s.goalH.Financial)
	mux.HandleFunc("POST /api/financial-goals", s.goalH.CreateFinancial)
	mux.HandleFunc("POST /api/financial-goals/amounts", s.goalH.UpdateAmounts)

	// Settings
	mux.HandleFunc("GET /api/settings/streak", s.settingsH.GetStreak)
	mux.HandleFunc("PUT /api/settings/streak", s.settingsH.UpdateStreak)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 60, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
