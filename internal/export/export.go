// Package export writes the final draft results to disk once the draft
// completes.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/roster"
)

type Results struct {
	CompletedAt  time.Time    `json:"completed_at"`
	SessionToken string       `json:"session_token"`
	Teams        []TeamResult `json:"teams"`
	Picks        []PickResult `json:"picks"`
}

type TeamResult struct {
	Name   string                   `json:"name"`
	Roster map[string][]RosterEntry `json:"roster"`
}

// RosterEntry keeps only display-relevant fields. Position is filled in
// for flex entries, where the slot alone doesn't say what the player is.
type RosterEntry struct {
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position,omitempty"`
}

type PickResult struct {
	Sequence   int       `json:"sequence"`
	TeamName   string    `json:"team"`
	PlayerName string    `json:"player"`
	PlayerTeam string    `json:"player_team"`
	Position   string    `json:"position"`
	At         time.Time `json:"at"`
}

// Build assembles the export payload from a completed draft.
func Build(d *engine.Draft, completedAt time.Time) Results {
	res := Results{
		CompletedAt:  completedAt,
		SessionToken: d.Token,
	}

	for _, p := range d.Registry.Participants() {
		team := TeamResult{
			Name:   p.Name,
			Roster: make(map[string][]RosterEntry, len(roster.Slots)),
		}
		for _, slot := range roster.Slots {
			entries := make([]RosterEntry, 0, len(p.Roster[slot]))
			for _, id := range p.Roster[slot] {
				player, ok := d.Pool.ByID(id)
				if !ok {
					continue
				}
				entry := RosterEntry{Name: player.Name, Team: player.Team}
				if slot == roster.SlotFlex {
					entry.Position = string(player.Position)
				}
				entries = append(entries, entry)
			}
			team.Roster[string(slot)] = entries
		}
		res.Teams = append(res.Teams, team)
	}

	for _, pick := range d.Picks {
		pr := PickResult{Sequence: pick.Sequence, At: pick.At}
		if owner := d.Registry.ParticipantByID(pick.ParticipantID); owner != nil {
			pr.TeamName = owner.Name
		}
		if player, ok := d.Pool.ByID(pick.PlayerID); ok {
			pr.PlayerName = player.Name
			pr.PlayerTeam = player.Team
			pr.Position = string(player.Position)
		}
		res.Picks = append(res.Picks, pr)
	}
	return res
}

// Write persists the results under dir with a unique, timestamp-derived
// filename. It refuses to overwrite an existing file.
func Write(dir string, res Results) (string, error) {
	name := fmt.Sprintf("draft_results_%s_%s.json",
		res.CompletedAt.UTC().Format("20060102T150405Z"), shortToken(res.SessionToken))
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}
	return path, nil
}

func shortToken(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
