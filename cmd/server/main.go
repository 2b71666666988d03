package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/config"
	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/httpapi"
	"github.com/draftnight/draftnight/internal/pool"
	"github.com/draftnight/draftnight/internal/room"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	// The pool failing to load is the one fatal startup condition.
	players, err := pool.Load(cfg.PlayersFile)
	if err != nil {
		logger.Fatal("loading player pool", zap.Error(err))
	}
	logger.Info("player pool loaded",
		zap.String("file", cfg.PlayersFile),
		zap.Int("players", players.Len()))

	draft := engine.New(engine.Options{
		Pool:         players,
		Commissioner: cfg.CommissionerName,
	})
	rm := room.New(context.Background(), room.Options{
		Draft:     draft,
		ExportDir: cfg.ExportDir,
		Logger:    logger,
	})

	handler := httpapi.SetupRoutes(rm, logger)

	logger.Info("listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("session", draft.Token))
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
