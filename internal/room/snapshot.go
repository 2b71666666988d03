package room

import (
	"slices"

	"github.com/draftnight/draftnight/internal/types"
)

// snapshot serializes the session for the wire. Everything mutable is
// copied: the returned value crosses goroutines while the loop keeps
// mutating the originals. The claimed set leaves as a sorted slice.
func (r *Room) snapshot() types.Snapshot {
	d := r.draft

	snap := types.Snapshot{
		SessionToken:     d.Token,
		Version:          r.version,
		Phase:            string(d.Phase),
		Paused:           d.Paused,
		PickOrder:        slices.Clone(d.PickOrder),
		CurrentPickIndex: d.Cursor,
		Participants:     make([]types.ParticipantView, 0, d.Registry.NumParticipants()),
		Spectators:       make([]types.SpectatorView, 0, len(d.Registry.Spectators())),
		Picks:            make([]types.PickView, 0, len(d.Picks)),
		DraftedPlayerIDs: make([]string, 0, len(d.Drafted)),
	}

	for _, p := range d.Registry.Participants() {
		view := types.ParticipantView{
			ID:        p.ID,
			Name:      p.Name,
			Connected: p.Connected(),
			Roster:    make(map[string][]string, len(p.Roster)),
		}
		for slot, ids := range p.Roster {
			view.Roster[string(slot)] = slices.Clone(ids)
		}
		snap.Participants = append(snap.Participants, view)
	}

	// Spectators cross the boundary as id+name only; their connection
	// ids stay server-side.
	for _, s := range d.Registry.Spectators() {
		snap.Spectators = append(snap.Spectators, types.SpectatorView{ID: s.ID, Name: s.Name})
	}

	for _, pick := range d.Picks {
		view := types.PickView{
			Sequence:      pick.Sequence,
			ParticipantID: pick.ParticipantID,
			PlayerID:      pick.PlayerID,
			At:            pick.At,
		}
		if owner := d.Registry.ParticipantByID(pick.ParticipantID); owner != nil {
			view.ParticipantName = owner.Name
		}
		if player, ok := d.Pool.ByID(pick.PlayerID); ok {
			view.PlayerName = player.Name
		}
		snap.Picks = append(snap.Picks, view)
	}

	for id := range d.Drafted {
		snap.DraftedPlayerIDs = append(snap.DraftedPlayerIDs, id)
	}
	slices.Sort(snap.DraftedPlayerIDs)

	if picker := d.CurrentPicker(); picker != nil {
		snap.CurrentPickerID = picker.ID
	}
	return snap
}

func (r *Room) snapshotPtr() *types.Snapshot {
	snap := r.snapshot()
	return &snap
}
