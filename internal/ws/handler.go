package ws

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/room"
	"github.com/draftnight/draftnight/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	// Idle reads time out eventually so dead connections get reaped;
	// a stalled draft is allowed, a stalled TCP session is not.
	readTimeout = 5 * time.Minute
)

func Handler(rm *room.Room, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		connID := randID(8)
		out := make(chan types.ServerMessage, 32)

		rm.Inbox() <- room.Join{ConnID: connID, Outbox: out}
		defer func() { rm.Inbox() <- room.Leave{ConnID: connID} }()

		log.Debug("connection opened", zap.String("conn", connID))

		// Writer goroutine: drains the room's outbox onto the socket.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for msg := range out {
				payload, err := json.Marshal(msg)
				if err != nil {
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		// Reader loop.
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("connection closed", zap.String("conn", connID), zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = conn.Write(r.Context(), websocket.MessageText,
					[]byte(`{"type":"action_rejected","reason":"bad json"}`))
				continue
			}

			dispatch(r.Context(), rm, conn, connID, cm)
		}
	}
}

func dispatch(ctx context.Context, rm *room.Room, conn *websocket.Conn, connID string, cm types.ClientMessage) {
	switch cm.Type {
	case types.MsgChatPost:
		rm.Inbox() <- room.ChatPost{ConnID: connID, Text: cm.Text}
	case types.MsgChatHistory:
		rm.Inbox() <- room.ChatHistory{ConnID: connID}
	default:
		cmd, ok := toCommand(cm)
		if !ok {
			_ = conn.Write(ctx, websocket.MessageText,
				[]byte(`{"type":"action_rejected","reason":"unknown message type"}`))
			return
		}
		rm.Inbox() <- room.FromClient{ConnID: connID, Cmd: cmd}
	}
}

func toCommand(m types.ClientMessage) (engine.Command, bool) {
	switch m.Type {
	case types.MsgJoin:
		return engine.Command{Type: engine.CmdJoin, Name: m.Name}, true
	case types.MsgJoinSpectator:
		return engine.Command{Type: engine.CmdJoinSpectator, Name: m.Name}, true
	case types.MsgStartDraft:
		return engine.Command{Type: engine.CmdStartDraft}, true
	case types.MsgLockPick:
		return engine.Command{Type: engine.CmdLockPick, PlayerID: m.PlayerID}, true
	case types.MsgPause:
		return engine.Command{Type: engine.CmdPause}, true
	case types.MsgResume:
		return engine.Command{Type: engine.CmdResume}, true
	case types.MsgUndoPick:
		return engine.Command{Type: engine.CmdUndoPick, Sequence: m.Sequence}, true
	default:
		return engine.Command{}, false
	}
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
