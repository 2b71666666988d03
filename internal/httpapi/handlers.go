package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/room"
	"github.com/draftnight/draftnight/internal/roster"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GetState serves the current full snapshot.
func GetState(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rm.Snapshot())
	}
}

// GetPlayers serves the unclaimed players, optionally filtered with
// ?position=QB|RB|WR|TE|DST.
func GetPlayers(rm *room.Room) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		position := roster.Position(r.URL.Query().Get("position"))
		if position != "" {
			if _, ok := roster.SlotFor(position); !ok {
				http.Error(w, "unknown position", http.StatusBadRequest)
				return
			}
		}
		writeJSON(w, http.StatusOK, rm.AvailablePlayers(position))
	}
}

// GetResults serves the final export payload once the draft completes.
func GetResults(rm *room.Room, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ok := rm.Results()
		if !ok {
			http.Error(w, "draft is not complete", http.StatusConflict)
			return
		}
		log.Debug("results served", zap.String("remote", r.RemoteAddr))
		writeJSON(w, http.StatusOK, res)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
