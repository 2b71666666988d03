// Package engine is the authoritative draft state machine. It knows
// nothing about transports: commands come in, events and sentinel
// errors come out, and the room actor decides who hears about it.
package engine

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/draftnight/draftnight/internal/pool"
	"github.com/draftnight/draftnight/internal/registry"
	"github.com/draftnight/draftnight/internal/roster"
)

var (
	ErrNotInSetup         = errors.New("draft is not in setup")
	ErrTooFewParticipants = errors.New("need at least two teams to start")
	ErrNotDrafting        = errors.New("draft is not in progress")
	ErrPaused             = errors.New("draft is paused")
	ErrNotPaused          = errors.New("draft must be paused first")
	ErrNotRegistered      = errors.New("connection is not a registered team")
	ErrNotYourTurn        = errors.New("not your turn")
	ErrUnknownPlayer      = errors.New("unknown player")
	ErrAlreadyDrafted     = errors.New("player already drafted")
	ErrSlotFull           = errors.New("no roster slot left for that position")
	ErrUnauthorized       = errors.New("commissioner only")
	ErrPickNotFound       = errors.New("no pick with that number")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseDrafting Phase = "drafting"
	PhaseComplete Phase = "complete"
)

const MinParticipants = 2

type CommandType string

const (
	CmdJoin          CommandType = "Join"
	CmdJoinSpectator CommandType = "JoinSpectator"
	CmdStartDraft    CommandType = "StartDraft"
	CmdLockPick      CommandType = "LockPick"
	CmdPause         CommandType = "Pause"
	CmdResume        CommandType = "Resume"
	CmdUndoPick      CommandType = "UndoPick"
)

type Command struct {
	Type     CommandType
	ConnID   string
	Name     string // Join, JoinSpectator
	PlayerID string // LockPick
	Sequence int    // UndoPick
}

type EventType string

const (
	EvtParticipantJoined EventType = "ParticipantJoined"
	EvtSpectatorJoined   EventType = "SpectatorJoined"
	EvtDraftStarted      EventType = "DraftStarted"
	EvtPlayerDrafted     EventType = "PlayerDrafted"
	EvtDraftCompleted    EventType = "DraftCompleted"
	EvtDraftPaused       EventType = "DraftPaused"
	EvtDraftResumed      EventType = "DraftResumed"
	EvtPickUndone        EventType = "PickUndone"
)

type Event struct {
	Type          EventType
	ParticipantID string
	Name          string
	Reconnected   bool
	Player        pool.Player
	Sequence      int
	PickOrder     []string
}

// Pick is immutable once created. Sequence is 1-based and fixed at
// creation; undo of an earlier pick does not renumber later ones.
type Pick struct {
	Sequence      int
	ParticipantID string
	PlayerID      string
	At            time.Time
}

// Draft is the single shared session state. It is not safe for
// concurrent use: the owning room actor serializes every Apply.
type Draft struct {
	Token        string
	Phase        Phase
	Paused       bool
	Registry     *registry.Registry
	PickOrder    []string
	Cursor       int
	Picks        []Pick
	Drafted      map[string]bool
	Pool         *pool.Pool
	Commissioner string

	shuffle ShuffleFunc
	now     func() time.Time
}

type Options struct {
	Pool         *pool.Pool
	Commissioner string
	Shuffle      ShuffleFunc      // nil means crypto-seeded
	Now          func() time.Time // nil means time.Now
}

func New(opts Options) *Draft {
	shuffle := opts.Shuffle
	if shuffle == nil {
		shuffle = seededShuffle()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Draft{
		Token:        uuid.NewString(),
		Phase:        PhaseSetup,
		Registry:     registry.New(),
		Drafted:      make(map[string]bool),
		Pool:         opts.Pool,
		Commissioner: opts.Commissioner,
		shuffle:      shuffle,
		now:          now,
	}
}

// Apply validates and applies one command against the draft. State is
// untouched on error; on success the returned events describe what
// happened, in order.
func (d *Draft) Apply(cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdJoin:
		return d.join(cmd)
	case CmdJoinSpectator:
		return d.joinSpectator(cmd)
	case CmdStartDraft:
		return d.start()
	case CmdLockPick:
		return d.lockPick(cmd)
	case CmdPause:
		return d.pause(cmd)
	case CmdResume:
		return d.resume(cmd)
	case CmdUndoPick:
		return d.undoPick(cmd)
	default:
		return nil, ErrUnsupportedCommand
	}
}

func (d *Draft) join(cmd Command) ([]Event, error) {
	p, reconnected, err := d.Registry.JoinParticipant(cmd.Name, cmd.ConnID, d.Phase == PhaseSetup)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Type:          EvtParticipantJoined,
		ParticipantID: p.ID,
		Name:          p.Name,
		Reconnected:   reconnected,
	}}, nil
}

func (d *Draft) joinSpectator(cmd Command) ([]Event, error) {
	s, reconnected, err := d.Registry.JoinSpectator(cmd.Name, cmd.ConnID)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Type:          EvtSpectatorJoined,
		ParticipantID: s.ID,
		Name:          s.Name,
		Reconnected:   reconnected,
	}}, nil
}

func (d *Draft) start() ([]Event, error) {
	if d.Phase != PhaseSetup {
		return nil, ErrNotInSetup
	}
	if d.Registry.NumParticipants() < MinParticipants {
		return nil, ErrTooFewParticipants
	}

	ids := make([]string, 0, d.Registry.NumParticipants())
	for _, p := range d.Registry.Participants() {
		ids = append(ids, p.ID)
	}
	d.PickOrder = SnakeOrder(ids, d.shuffle)
	d.Phase = PhaseDrafting
	d.Cursor = 0
	d.Paused = false

	return []Event{{Type: EvtDraftStarted, PickOrder: d.PickOrder}}, nil
}

// CurrentPicker returns the participant on the clock, or nil outside
// the drafting phase.
func (d *Draft) CurrentPicker() *registry.Participant {
	if d.Phase != PhaseDrafting || d.Cursor >= len(d.PickOrder) {
		return nil
	}
	return d.Registry.ParticipantByID(d.PickOrder[d.Cursor])
}

func (d *Draft) lockPick(cmd Command) ([]Event, error) {
	if d.Phase != PhaseDrafting {
		return nil, ErrNotDrafting
	}
	if d.Paused {
		return nil, ErrPaused
	}
	p := d.Registry.ParticipantByConn(cmd.ConnID)
	if p == nil {
		return nil, ErrNotRegistered
	}
	picker := d.CurrentPicker()
	if picker == nil || picker.ID != p.ID {
		return nil, ErrNotYourTurn
	}
	player, ok := d.Pool.ByID(cmd.PlayerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	if d.Drafted[player.ID] {
		return nil, ErrAlreadyDrafted
	}
	if !p.Roster.CanClaim(player.Position) {
		return nil, ErrSlotFull
	}

	// All checks passed: claim, record, advance. One transaction.
	p.Roster.Add(player.Position, player.ID)
	d.Drafted[player.ID] = true
	pick := Pick{
		Sequence:      d.Cursor + 1,
		ParticipantID: p.ID,
		PlayerID:      player.ID,
		At:            d.now(),
	}
	d.Picks = append(d.Picks, pick)
	d.Cursor++

	events := []Event{{
		Type:          EvtPlayerDrafted,
		ParticipantID: p.ID,
		Name:          p.Name,
		Player:        player,
		Sequence:      pick.Sequence,
	}}

	if d.Cursor == d.Registry.NumParticipants()*roster.RoundsPerTeam {
		d.Phase = PhaseComplete
		events = append(events, Event{Type: EvtDraftCompleted})
	}
	return events, nil
}

func (d *Draft) pause(cmd Command) ([]Event, error) {
	if err := d.requireCommissioner(cmd.ConnID); err != nil {
		return nil, err
	}
	if d.Phase != PhaseDrafting {
		return nil, ErrNotDrafting
	}
	d.Paused = true
	return []Event{{Type: EvtDraftPaused}}, nil
}

func (d *Draft) resume(cmd Command) ([]Event, error) {
	if err := d.requireCommissioner(cmd.ConnID); err != nil {
		return nil, err
	}
	if d.Phase != PhaseDrafting {
		return nil, ErrNotDrafting
	}
	d.Paused = false
	return []Event{{Type: EvtDraftResumed}}, nil
}

// undoPick removes the pick with the given sequence number. Later
// picks keep their recorded sequence numbers, so undoing a non-latest
// pick leaves a gap between stored numbers and list positions. That
// mirrors the commissioner's mental model of "take pick N back" and is
// left as-is rather than silently renumbering already-announced picks.
func (d *Draft) undoPick(cmd Command) ([]Event, error) {
	if err := d.requireCommissioner(cmd.ConnID); err != nil {
		return nil, err
	}
	if d.Phase != PhaseDrafting {
		return nil, ErrNotDrafting
	}
	if !d.Paused {
		return nil, ErrNotPaused
	}

	idx := -1
	for i, p := range d.Picks {
		if p.Sequence == cmd.Sequence {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrPickNotFound
	}

	pick := d.Picks[idx]
	player, ok := d.Pool.ByID(pick.PlayerID)
	if !ok {
		return nil, ErrUnknownPlayer
	}
	owner := d.Registry.ParticipantByID(pick.ParticipantID)
	if owner != nil {
		if slot, ok := roster.SlotFor(player.Position); ok {
			owner.Roster.Remove(slot, player.ID)
		}
	}
	delete(d.Drafted, player.ID)
	d.Picks = append(d.Picks[:idx:idx], d.Picks[idx+1:]...)
	if d.Cursor > 0 {
		d.Cursor--
	}

	return []Event{{
		Type:          EvtPickUndone,
		ParticipantID: pick.ParticipantID,
		Player:        player,
		Sequence:      pick.Sequence,
	}}, nil
}

func (d *Draft) requireCommissioner(connID string) error {
	p := d.Registry.ParticipantByConn(connID)
	if p == nil || !strings.EqualFold(p.Name, d.Commissioner) {
		return ErrUnauthorized
	}
	return nil
}
