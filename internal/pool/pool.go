// Package pool loads the immutable player pool from disk. The pool is
// read-only reference data; who has claimed what lives in the draft
// state, not here.
package pool

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/draftnight/draftnight/internal/roster"
)

type Player struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Position  roster.Position `json:"position"`
	Team      string          `json:"team"`
	SearchKey string          `json:"searchKey,omitempty"`
}

type Pool struct {
	players []Player
	byID    map[string]Player
}

// Load reads and validates the pool file. Any failure here is fatal to
// the caller: the server must not start with a missing or malformed
// pool.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read player pool: %w", err)
	}

	var players []Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("parse player pool %s: %w", path, err)
	}
	p, err := New(players)
	if err != nil {
		return nil, fmt.Errorf("player pool %s: %w", path, err)
	}
	return p, nil
}

// New validates an already-decoded player list.
func New(players []Player) (*Pool, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("pool is empty")
	}

	byID := make(map[string]Player, len(players))
	for i, p := range players {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("entry %d missing id or name", i)
		}
		if _, ok := roster.SlotFor(p.Position); !ok {
			return nil, fmt.Errorf("player %s has unknown position %q", p.ID, p.Position)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		if p.SearchKey == "" {
			p.SearchKey = strings.ToLower(p.Name)
			players[i] = p
		}
		byID[p.ID] = p
	}

	return &Pool{players: players, byID: byID}, nil
}

func (p *Pool) ByID(id string) (Player, bool) {
	pl, ok := p.byID[id]
	return pl, ok
}

func (p *Pool) Len() int { return len(p.players) }

// Available returns the players not in claimed, in pool-file order,
// optionally narrowed to one position. An empty position means all.
func (p *Pool) Available(claimed map[string]bool, position roster.Position) []Player {
	out := make([]Player, 0, len(p.players))
	for _, pl := range p.players {
		if claimed[pl.ID] {
			continue
		}
		if position != "" && pl.Position != position {
			continue
		}
		out = append(out, pl)
	}
	return out
}
