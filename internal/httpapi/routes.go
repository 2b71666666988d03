package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/room"
	"github.com/draftnight/draftnight/internal/ws"
)

func SetupRoutes(rm *room.Room, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthz)
	r.Get("/state", GetState(rm))
	r.Get("/players", GetPlayers(rm))
	r.Get("/results", GetResults(rm, log))
	r.Get("/ws", ws.Handler(rm, log))
	return r
}
