// Package registry tracks who is in the session. A member's stable
// identity (server-assigned id + display name) is deliberately separate
// from its transient connection id: reconnecting with the same name
// rebinds a fresh connection to the existing member.
package registry

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/draftnight/draftnight/internal/roster"
)

var (
	ErrEmptyName      = errors.New("display name is empty")
	ErrNameTaken      = errors.New("name already taken")
	ErrAlreadyStarted = errors.New("draft already started")
	ErrFull           = errors.New("draft is full")
)

const MaxParticipants = 8

type Participant struct {
	ID     string
	Name   string
	ConnID string // empty while disconnected
	Roster roster.Roster
}

func (p *Participant) Connected() bool { return p.ConnID != "" }

type Spectator struct {
	ID     string
	Name   string
	ConnID string
}

func (s *Spectator) Connected() bool { return s.ConnID != "" }

// Registry is not safe for concurrent use; the room actor owns it and
// serializes all access.
type Registry struct {
	participants []*Participant
	spectators   []*Spectator
}

func New() *Registry {
	return &Registry{}
}

// JoinParticipant registers a new participant or rebinds an existing
// one matched case-insensitively by name. The reconnect path succeeds
// in any phase; creating a new participant is only allowed while
// inSetup and below the participant cap.
func (r *Registry) JoinParticipant(name, connID string, inSetup bool) (p *Participant, reconnected bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}

	if existing := r.ParticipantByName(name); existing != nil {
		r.stealBinding(connID)
		existing.ConnID = connID
		return existing, true, nil
	}

	if !inSetup {
		return nil, false, ErrAlreadyStarted
	}
	if len(r.participants) >= MaxParticipants {
		return nil, false, ErrFull
	}

	r.stealBinding(connID)
	p = &Participant{
		ID:     uuid.NewString(),
		Name:   name,
		ConnID: connID,
		Roster: roster.New(),
	}
	r.participants = append(r.participants, p)
	return p, false, nil
}

// JoinSpectator registers or rebinds a spectator. Spectator names live
// in their own namespace but may not shadow a participant's name.
func (r *Registry) JoinSpectator(name, connID string) (s *Spectator, reconnected bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrEmptyName
	}
	if r.ParticipantByName(name) != nil {
		return nil, false, ErrNameTaken
	}

	for _, sp := range r.spectators {
		if strings.EqualFold(sp.Name, name) {
			r.stealBinding(connID)
			sp.ConnID = connID
			return sp, true, nil
		}
	}

	r.stealBinding(connID)
	s = &Spectator{ID: uuid.NewString(), Name: name, ConnID: connID}
	r.spectators = append(r.spectators, s)
	return s, false, nil
}

// Unbind clears whatever binding connID currently holds. Idempotent;
// reports whether anything changed.
func (r *Registry) Unbind(connID string) bool {
	return connID != "" && r.stealBinding(connID)
}

// stealBinding drops connID from any member holding it, so a reused
// connection never appears to belong to two members at once.
func (r *Registry) stealBinding(connID string) bool {
	if connID == "" {
		return false
	}
	changed := false
	for _, p := range r.participants {
		if p.ConnID == connID {
			p.ConnID = ""
			changed = true
		}
	}
	for _, s := range r.spectators {
		if s.ConnID == connID {
			s.ConnID = ""
			changed = true
		}
	}
	return changed
}

func (r *Registry) ParticipantByName(name string) *Participant {
	for _, p := range r.participants {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (r *Registry) ParticipantByID(id string) *Participant {
	for _, p := range r.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Registry) ParticipantByConn(connID string) *Participant {
	if connID == "" {
		return nil
	}
	for _, p := range r.participants {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Registry) SpectatorByConn(connID string) *Spectator {
	if connID == "" {
		return nil
	}
	for _, s := range r.spectators {
		if s.ConnID == connID {
			return s
		}
	}
	return nil
}

func (r *Registry) Participants() []*Participant { return r.participants }
func (r *Registry) Spectators() []*Spectator     { return r.spectators }
func (r *Registry) NumParticipants() int         { return len(r.participants) }
