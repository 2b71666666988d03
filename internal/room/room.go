// Package room runs the single draft session actor. One goroutine owns
// all mutable state (draft, registry, chat); every action arrives as a
// message on the inbox and is applied as one serialized transaction.
// Only the completion export escapes the loop, and only after commit.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/chat"
	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/export"
	"github.com/draftnight/draftnight/internal/pool"
	"github.com/draftnight/draftnight/internal/roster"
	"github.com/draftnight/draftnight/internal/types"
)

type Msg interface{ isRoomMsg() }

// Join registers a connection and immediately sends it the current
// snapshot followed by the available player list.
type Join struct {
	ConnID string
	Outbox chan types.ServerMessage
}

type Leave struct{ ConnID string }

// FromClient carries one draft action from a connection.
type FromClient struct {
	ConnID string
	Cmd    engine.Command
}

type ChatPost struct {
	ConnID string
	Text   string
}

type ChatHistory struct{ ConnID string }

type GetSnapshot struct{ Reply chan types.Snapshot }

type GetAvailable struct {
	Position roster.Position
	Reply    chan []pool.Player
}

// GetResults replies nil unless the draft is complete.
type GetResults struct{ Reply chan *export.Results }

// GetView is a test hook: it reflects internal counters without racing
// the loop.
type GetView struct{ Reply chan View }

type Shutdown struct{}

func (Join) isRoomMsg()        {}
func (Leave) isRoomMsg()       {}
func (FromClient) isRoomMsg()  {}
func (ChatPost) isRoomMsg()    {}
func (ChatHistory) isRoomMsg() {}
func (GetSnapshot) isRoomMsg() {}
func (GetAvailable) isRoomMsg() {}
func (GetResults) isRoomMsg()  {}
func (GetView) isRoomMsg()     {}
func (Shutdown) isRoomMsg()    {}

type View struct {
	Version    int
	NumClients int
	Phase      engine.Phase
}

type Room struct {
	inbox       chan Msg
	draft       *engine.Draft
	chat        *chat.Log
	clients     map[string]chan types.ServerMessage
	version     int
	completedAt time.Time
	exportDir   string
	log         *zap.Logger
	now         func() time.Time
	ctx         context.Context
	cancel      context.CancelFunc
}

type Options struct {
	Draft     *engine.Draft
	ExportDir string
	Logger    *zap.Logger
	Now       func() time.Time // nil means time.Now
}

func New(parent context.Context, opts Options) *Room {
	ctx, cancel := context.WithCancel(parent)
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	r := &Room{
		inbox:     make(chan Msg, 64),
		draft:     opts.Draft,
		chat:      chat.NewLog(),
		clients:   make(map[string]chan types.ServerMessage),
		exportDir: opts.ExportDir,
		log:       log,
		now:       now,
		ctx:       ctx,
		cancel:    cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.clients[msg.ConnID] = msg.Outbox
				r.sendTo(msg.ConnID, types.ServerMessage{Type: types.MsgSnapshot, Snapshot: r.snapshotPtr()})
				r.sendTo(msg.ConnID, types.ServerMessage{
					Type:    types.MsgAvailablePlayers,
					Players: r.draft.Pool.Available(r.draft.Drafted, ""),
				})

			case Leave:
				if ch, ok := r.clients[msg.ConnID]; ok {
					close(ch)
					delete(r.clients, msg.ConnID)
				}
				if r.draft.Registry.Unbind(msg.ConnID) {
					r.version++
					r.broadcastSnapshot()
				}

			case FromClient:
				r.handleCommand(msg)

			case ChatPost:
				r.handleChatPost(msg)

			case ChatHistory:
				r.sendTo(msg.ConnID, types.ServerMessage{
					Type:        types.MsgChatHistoryList,
					ChatHistory: r.chat.History(),
				})

			case GetSnapshot:
				msg.Reply <- r.snapshot()

			case GetAvailable:
				msg.Reply <- r.draft.Pool.Available(r.draft.Drafted, msg.Position)

			case GetResults:
				if r.draft.Phase != engine.PhaseComplete {
					msg.Reply <- nil
					break
				}
				res := export.Build(r.draft, r.completedAt)
				msg.Reply <- &res

			case GetView:
				msg.Reply <- View{
					Version:    r.version,
					NumClients: len(r.clients),
					Phase:      r.draft.Phase,
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

// handleCommand applies one engine command. Rejections go only to the
// acting connection; accepted mutations broadcast their discrete event
// and then a fresh snapshot.
func (r *Room) handleCommand(msg FromClient) {
	cmd := msg.Cmd
	cmd.ConnID = msg.ConnID // the transport, not the client, names the connection

	events, err := r.draft.Apply(cmd)
	if err != nil {
		r.log.Debug("action rejected",
			zap.String("cmd", string(cmd.Type)),
			zap.String("conn", msg.ConnID),
			zap.Error(err))
		r.sendTo(msg.ConnID, types.ServerMessage{Type: types.MsgActionRejected, Reason: err.Error()})
		return
	}

	r.version++
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtParticipantJoined:
			r.log.Info("team joined", zap.String("name", ev.Name), zap.Bool("reconnect", ev.Reconnected))
			r.sendTo(msg.ConnID, types.ServerMessage{
				Type:          types.MsgJoined,
				ParticipantID: ev.ParticipantID,
				Name:          ev.Name,
				Reconnected:   ev.Reconnected,
			})

		case engine.EvtSpectatorJoined:
			r.sendTo(msg.ConnID, types.ServerMessage{
				Type:          types.MsgSpectatorJoined,
				ParticipantID: ev.ParticipantID,
				Name:          ev.Name,
				Reconnected:   ev.Reconnected,
			})

		case engine.EvtDraftStarted:
			r.log.Info("draft started", zap.Int("teams", r.draft.Registry.NumParticipants()))
			r.broadcast(types.ServerMessage{Type: types.MsgDraftStarted, PickOrder: ev.PickOrder})

		case engine.EvtPlayerDrafted:
			r.log.Info("player drafted",
				zap.Int("sequence", ev.Sequence),
				zap.String("player", ev.Player.Name),
				zap.String("team", ev.Name))
			r.broadcast(types.ServerMessage{Type: types.MsgPlayerDrafted, Drafted: &types.DraftedPlayer{
				PlayerID:        ev.Player.ID,
				PlayerName:      ev.Player.Name,
				Position:        string(ev.Player.Position),
				Team:            ev.Player.Team,
				ParticipantID:   ev.ParticipantID,
				ParticipantName: ev.Name,
				Sequence:        ev.Sequence,
			}})

		case engine.EvtDraftCompleted:
			r.completedAt = r.now()
			r.exportResults()

		case engine.EvtPickUndone:
			r.log.Info("pick undone",
				zap.Int("sequence", ev.Sequence),
				zap.String("player", ev.Player.Name))
		}
	}
	r.broadcastSnapshot()
}

// exportResults builds the payload inside the transaction, then writes
// the file off-loop so a slow disk never blocks the next action.
func (r *Room) exportResults() {
	res := export.Build(r.draft, r.completedAt)
	dir := r.exportDir
	log := r.log
	go func() {
		path, err := export.Write(dir, res)
		if err != nil {
			log.Error("writing draft results", zap.Error(err))
			return
		}
		log.Info("draft complete, results written", zap.String("path", path))
	}()
}

func (r *Room) handleChatPost(msg ChatPost) {
	var (
		authorID  string
		author    string
		spectator bool
	)
	if p := r.draft.Registry.ParticipantByConn(msg.ConnID); p != nil {
		authorID, author = p.ID, p.Name
	} else if s := r.draft.Registry.SpectatorByConn(msg.ConnID); s != nil {
		authorID, author, spectator = s.ID, s.Name, true
	} else {
		return // unknown connections post nothing, silently
	}

	m, ok := r.chat.Post(authorID, author, spectator, msg.Text)
	if !ok {
		return
	}
	r.broadcast(types.ServerMessage{Type: types.MsgChatMessage, Chat: &m})
}

func (r *Room) sendTo(connID string, msg types.ServerMessage) {
	ch, ok := r.clients[connID]
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		close(ch)
		delete(r.clients, connID)
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, ch := range r.clients {
		select {
		case ch <- msg:
		default:
			// Slow or full: drop the client, it can reconnect by name.
			close(ch)
			delete(r.clients, id)
		}
	}
}

func (r *Room) broadcastSnapshot() {
	r.broadcast(types.ServerMessage{Type: types.MsgSnapshot, Snapshot: r.snapshotPtr()})
}

func (r *Room) shutdown() {
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}

// Snapshot returns the current state; safe to call from any goroutine.
func (r *Room) Snapshot() types.Snapshot {
	reply := make(chan types.Snapshot, 1)
	r.inbox <- GetSnapshot{Reply: reply}
	return <-reply
}

// AvailablePlayers lists unclaimed players, optionally one position.
func (r *Room) AvailablePlayers(position roster.Position) []pool.Player {
	reply := make(chan []pool.Player, 1)
	r.inbox <- GetAvailable{Position: position, Reply: reply}
	return <-reply
}

// Results returns the export payload once the draft is complete.
func (r *Room) Results() (*export.Results, bool) {
	reply := make(chan *export.Results, 1)
	r.inbox <- GetResults{Reply: reply}
	res := <-reply
	return res, res != nil
}
