package server

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/duelforge/duelsim/internal/game/actionlog"
	"github.com/duelforge/duelsim/internal/replay"
)

func testHub(t *testing.T) (*Hub, *Client) {
	t.Helper()
	rec := replay.NewRecorder(zaptest.NewLogger(t), t.TempDir())

	log := actionlog.New()
	log.Append("p1", actionlog.TypePhaseChange, map[string]any{"phase": "draw", "turn": 1})
	log.Append("p1", actionlog.TypeCardPlayed, map[string]any{"template_id": "x"})
	log.Append("p1", actionlog.TypeGameOver, map[string]any{"draw": false})
	rec.Add(replay.FromLog("game-1", "seed-1", "p1", log))

	h := NewHub(zaptest.NewLogger(t), rec)
	c := &Client{send: make(chan []byte, 16)}
	return h, c
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.send:
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		return msg
	default:
		t.Fatal("no reply queued")
		return Message{}
	}
}

func TestListReplays(t *testing.T) {
	h, c := testHub(t)
	h.handleMessage(c, Message{Type: "list_replays"})

	msg := recv(t, c)
	if msg.Type != "replay_list" {
		t.Fatalf("reply type %q", msg.Type)
	}
	var ids []string
	if err := json.Unmarshal(msg.Data, &ids); err != nil {
		t.Fatalf("bad list payload: %v", err)
	}
	if len(ids) != 1 || ids[0] != "game-1" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestLoadReplayAndStep(t *testing.T) {
	h, c := testHub(t)

	h.handleMessage(c, Message{Type: "load_replay", GameID: "game-1"})
	msg := recv(t, c)
	if msg.Type != "replay_loaded" {
		t.Fatalf("reply type %q", msg.Type)
	}
	var loaded struct {
		GameID string `json:"game_id"`
		Frames int    `json:"frames"`
	}
	if err := json.Unmarshal(msg.Data, &loaded); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if loaded.GameID != "game-1" || loaded.Frames != 3 {
		t.Fatalf("loaded = %+v", loaded)
	}

	var frame struct {
		Index  int              `json:"index"`
		Action actionlog.Action `json:"action"`
	}
	step := func(wantIndex int) {
		t.Helper()
		h.handleMessage(c, Message{Type: "next"})
		msg := recv(t, c)
		if msg.Type != "frame" {
			t.Fatalf("reply type %q", msg.Type)
		}
		if err := json.Unmarshal(msg.Data, &frame); err != nil {
			t.Fatalf("bad frame payload: %v", err)
		}
		if frame.Index != wantIndex || frame.Action.Sequence != wantIndex {
			t.Fatalf("frame = %+v, want index %d", frame, wantIndex)
		}
	}
	step(0)
	step(1)
	step(2)

	// Past the end.
	h.handleMessage(c, Message{Type: "next"})
	if msg := recv(t, c); msg.Type != "end" {
		t.Fatalf("reply type %q, want end", msg.Type)
	}

	// previous steps back to the frame before the cursor.
	h.handleMessage(c, Message{Type: "previous"})
	msg = recv(t, c)
	if msg.Type != "frame" {
		t.Fatalf("reply type %q", msg.Type)
	}
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		t.Fatalf("bad frame payload: %v", err)
	}
	if frame.Index != 1 {
		t.Fatalf("previous landed on %d, want 1", frame.Index)
	}

	h.handleMessage(c, Message{Type: "rewind"})
	if msg := recv(t, c); msg.Type != "rewound" {
		t.Fatalf("reply type %q", msg.Type)
	}
	step(0)
}

func TestSkipMoves(t *testing.T) {
	h, c := testHub(t)
	h.handleMessage(c, Message{Type: "load_replay", GameID: "game-1"})
	recv(t, c)

	h.handleMessage(c, Message{Type: "skip", Data: json.RawMessage(`{"count": 3}`)})
	msg := recv(t, c)
	if msg.Type != "frame" {
		t.Fatalf("reply type %q", msg.Type)
	}
	var frame struct {
		Index int `json:"index"`
	}
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if frame.Index != 2 {
		t.Fatalf("skip landed on %d, want 2", frame.Index)
	}
}

func TestErrorsForBadRequests(t *testing.T) {
	h, c := testHub(t)

	h.handleMessage(c, Message{Type: "next"})
	if msg := recv(t, c); msg.Type != "error" {
		t.Fatalf("stepping with no replay loaded: reply %q", msg.Type)
	}

	h.handleMessage(c, Message{Type: "load_replay", GameID: "missing"})
	if msg := recv(t, c); msg.Type != "error" {
		t.Fatalf("loading a missing replay: reply %q", msg.Type)
	}

	h.handleMessage(c, Message{Type: "frobnicate"})
	if msg := recv(t, c); msg.Type != "error" {
		t.Fatalf("unknown message type: reply %q", msg.Type)
	}
}

func TestEachClientHasIndependentCursor(t *testing.T) {
	h, a := testHub(t)
	b := &Client{send: make(chan []byte, 16)}

	h.handleMessage(a, Message{Type: "load_replay", GameID: "game-1"})
	recv(t, a)
	h.handleMessage(b, Message{Type: "load_replay", GameID: "game-1"})
	recv(t, b)

	h.handleMessage(a, Message{Type: "next"})
	recv(t, a)
	h.handleMessage(a, Message{Type: "next"})
	recv(t, a)

	// b is still at the start.
	h.handleMessage(b, Message{Type: "next"})
	msg := recv(t, b)
	var frame struct {
		Index int `json:"index"`
	}
	if err := json.Unmarshal(msg.Data, &frame); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if frame.Index != 0 {
		t.Fatalf("client b cursor moved with client a: index %d", frame.Index)
	}
}
