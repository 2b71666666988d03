package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/pool"
	"github.com/draftnight/draftnight/internal/room"
	"github.com/draftnight/draftnight/internal/roster"
	"github.com/draftnight/draftnight/internal/types"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	var players []pool.Player
	for i, pos := range []roster.Position{roster.QB, roster.RB, roster.WR, roster.DST} {
		players = append(players, pool.Player{
			ID:       fmt.Sprintf("p%d", i+1),
			Name:     fmt.Sprintf("Player %d", i+1),
			Position: pos,
			Team:     "FA",
		})
	}
	pl, err := pool.New(players)
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	d := engine.New(engine.Options{Pool: pl, Commissioner: "Commissioner"})
	rm := room.New(ctx, room.Options{Draft: d, ExportDir: t.TempDir()})

	srv := httptest.NewServer(SetupRoutes(rm, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetState(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()

	var snap types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if snap.Phase != string(engine.PhaseSetup) {
		t.Fatalf("phase = %s, want setup", snap.Phase)
	}
	if snap.SessionToken == "" {
		t.Fatalf("snapshot missing session token")
	}
}

func TestGetPlayers(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/players")
	if err != nil {
		t.Fatalf("GET /players: %v", err)
	}
	defer resp.Body.Close()

	var players []pool.Player
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		t.Fatalf("decoding players: %v", err)
	}
	if len(players) != 4 {
		t.Fatalf("players = %d, want 4", len(players))
	}

	resp2, err := http.Get(srv.URL + "/players?position=QB")
	if err != nil {
		t.Fatalf("GET /players?position=QB: %v", err)
	}
	defer resp2.Body.Close()
	players = nil
	if err := json.NewDecoder(resp2.Body).Decode(&players); err != nil {
		t.Fatalf("decoding players: %v", err)
	}
	if len(players) != 1 || players[0].Position != roster.QB {
		t.Fatalf("QB filter = %+v", players)
	}

	resp3, err := http.Get(srv.URL + "/players?position=COACH")
	if err != nil {
		t.Fatalf("GET /players?position=COACH: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown position status = %d, want 400", resp3.StatusCode)
	}
}

func TestGetResults_BeforeCompletion(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/results")
	if err != nil {
		t.Fatalf("GET /results: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}
