package ws

import (
	"testing"

	"github.com/draftnight/draftnight/internal/engine"
	"github.com/draftnight/draftnight/internal/types"
)

func TestToCommand(t *testing.T) {
	cases := []struct {
		name   string
		in     types.ClientMessage
		want   engine.Command
		wantOK bool
	}{
		{
			name:   "join",
			in:     types.ClientMessage{Type: types.MsgJoin, Name: "Alpha"},
			want:   engine.Command{Type: engine.CmdJoin, Name: "Alpha"},
			wantOK: true,
		},
		{
			name:   "lock pick",
			in:     types.ClientMessage{Type: types.MsgLockPick, PlayerID: "p1"},
			want:   engine.Command{Type: engine.CmdLockPick, PlayerID: "p1"},
			wantOK: true,
		},
		{
			name:   "undo with sequence",
			in:     types.ClientMessage{Type: types.MsgUndoPick, Sequence: 5},
			want:   engine.Command{Type: engine.CmdUndoPick, Sequence: 5},
			wantOK: true,
		},
		{
			name:   "unknown type",
			in:     types.ClientMessage{Type: "dance"},
			wantOK: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toCommand(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestRandID(t *testing.T) {
	a, b := randID(8), randID(8)
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("length = %d/%d, want 8", len(a), len(b))
	}
	if a == b {
		t.Fatalf("two ids should almost never collide: %s", a)
	}
}
