// Package types defines the wire messages exchanged with clients.
package types

import (
	"time"

	"github.com/draftnight/draftnight/internal/chat"
	"github.com/draftnight/draftnight/internal/pool"
)

// Client -> Server
const (
	MsgJoin          = "join"
	MsgJoinSpectator = "join_spectator"
	MsgStartDraft    = "start_draft"
	MsgLockPick      = "lock_pick"
	MsgPause         = "pause"
	MsgResume        = "resume"
	MsgUndoPick      = "undo_pick"
	MsgChatPost      = "chat_post"
	MsgChatHistory   = "chat_history"
)

type ClientMessage struct {
	Type     string `json:"type"`
	Name     string `json:"name,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Sequence int    `json:"sequence,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Server -> Client
const (
	MsgJoined           = "joined"
	MsgSpectatorJoined  = "spectator_joined"
	MsgSnapshot         = "snapshot"
	MsgDraftStarted     = "draft_started"
	MsgPlayerDrafted    = "player_drafted"
	MsgAvailablePlayers = "available_players"
	MsgChatMessage      = "chat_message"
	MsgChatHistoryList  = "chat_history"
	MsgActionRejected   = "action_rejected"
)

type ServerMessage struct {
	Type string `json:"type"`

	// joined / spectator_joined
	ParticipantID string `json:"participant_id,omitempty"`
	Name          string `json:"name,omitempty"`
	Reconnected   bool   `json:"reconnected,omitempty"`

	// snapshot
	Snapshot *Snapshot `json:"snapshot,omitempty"`

	// draft_started
	PickOrder []string `json:"pick_order,omitempty"`

	// player_drafted
	Drafted *DraftedPlayer `json:"drafted,omitempty"`

	// available_players
	Players []pool.Player `json:"players,omitempty"`

	// chat_message / chat_history
	Chat        *chat.Message  `json:"chat,omitempty"`
	ChatHistory []chat.Message `json:"chat_history,omitempty"`

	// action_rejected
	Reason string `json:"reason,omitempty"`
}

// DraftedPlayer is the transient notification for one pick, with names
// resolved for display.
type DraftedPlayer struct {
	PlayerID        string `json:"player_id"`
	PlayerName      string `json:"player_name"`
	Position        string `json:"position"`
	Team            string `json:"team"`
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	Sequence        int    `json:"sequence"`
}

// Snapshot is the full serializable session state. The claimed set
// crosses the wire as a sorted slice; spectators are reduced to id and
// name.
type Snapshot struct {
	SessionToken     string            `json:"session_token"`
	Version          int               `json:"version"`
	Phase            string            `json:"phase"`
	Paused           bool              `json:"paused"`
	Participants     []ParticipantView `json:"participants"`
	Spectators       []SpectatorView   `json:"spectators"`
	PickOrder        []string          `json:"pick_order,omitempty"`
	CurrentPickIndex int               `json:"current_pick_index"`
	CurrentPickerID  string            `json:"current_picker_id,omitempty"`
	Picks            []PickView        `json:"picks"`
	DraftedPlayerIDs []string          `json:"drafted_player_ids"`
}

type ParticipantView struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Connected bool                `json:"connected"`
	Roster    map[string][]string `json:"roster"`
}

type SpectatorView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PickView struct {
	Sequence        int       `json:"sequence"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	PlayerID        string    `json:"player_id"`
	PlayerName      string    `json:"player_name"`
	At              time.Time `json:"at"`
}
