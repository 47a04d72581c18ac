package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mhollis/homepoints/internal/config"
	"github.com/mhollis/homepoints/internal/database"
	"github.com/mhollis/homepoints/internal/goal"
	"github.com/mhollis/homepoints/internal/logging"
	"github.com/mhollis/homepoints/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rules := goal.DefaultBonusRules()
	if cfg.BonusRulesPath != "" {
		rules, err = goal.LoadBonusRules(cfg.BonusRulesPath)
		if err != nil {
			logger.Error("load bonus rules", "path", cfg.BonusRulesPath, "error", err)
			os.Exit(1)
		}
	}

	srv := server.New(db, server.Config{
		CatalogTTL: cfg.CatalogCacheTTL,
		BonusRules: rules,
	}, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("homepoints running", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
