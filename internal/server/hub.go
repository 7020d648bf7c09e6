package server

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/replay"
)

// Hub tracks connected playback clients. Each client owns its own cursor
// into a shared replay, so two viewers can scrub the same game
// independently; the hub only manages connection lifecycle.
type Hub struct {
	logger   *zap.Logger
	replays  *replay.Recorder
	clients  map[*Client]bool
	register chan *Client
	drop     chan *Client
}

// NewHub creates a hub serving replays from the given recorder.
func NewHub(logger *zap.Logger, replays *replay.Recorder) *Hub {
	return &Hub{
		logger:   logger,
		replays:  replays,
		clients:  make(map[*Client]bool),
		register: make(chan *Client),
		drop:     make(chan *Client),
	}
}

// Run processes client lifecycle events until the registration channel is
// closed. It is the hub's single goroutine; client maps are touched nowhere
// else.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Info("playback client connected",
				zap.String("remote", c.conn.RemoteAddr().String()),
			)
		case c := <-h.drop:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("playback client disconnected",
					zap.String("remote", c.conn.RemoteAddr().String()),
				)
			}
		}
	}
}

// Message is the wire envelope in both directions.
type Message struct {
	Type   string          `json:"type"`
	GameID string          `json:"game_id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// reply marshals an outbound message; marshal failures are a programming
// error and only logged.
func (h *Hub) reply(c *Client, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("marshal reply payload",
			zap.String("type", msgType),
			zap.Error(err),
		)
		return
	}
	out, err := json.Marshal(Message{Type: msgType, Data: raw})
	if err != nil {
		h.logger.Error("marshal reply envelope", zap.Error(err))
		return
	}
	select {
	case c.send <- out:
	default:
		// Slow consumer; drop the frame rather than stall the hub.
	}
}

func (h *Hub) replyError(c *Client, detail string) {
	h.reply(c, "error", map[string]string{"detail": detail})
}

// handleMessage dispatches one inbound client message.
func (h *Hub) handleMessage(c *Client, msg Message) {
	switch msg.Type {
	case "list_replays":
		h.reply(c, "replay_list", h.replays.List())

	case "load_replay":
		r, err := h.replays.Get(msg.GameID)
		if err != nil {
			h.replyError(c, "replay not found: "+msg.GameID)
			return
		}
		c.replay = r
		c.cursor = 0
		h.reply(c, "replay_loaded", map[string]any{
			"game_id": r.GameID,
			"seed":    r.Seed,
			"winner":  r.Winner,
			"frames":  r.Size(),
		})

	case "next":
		h.sendFrame(c, c.cursor, 1)

	case "previous":
		h.sendFrame(c, c.cursor-2, -1)

	case "skip":
		var body struct {
			Count int `json:"count"`
		}
		if msg.Data != nil {
			if err := json.Unmarshal(msg.Data, &body); err != nil {
				h.replyError(c, "bad skip payload")
				return
			}
		}
		h.sendFrame(c, c.cursor+body.Count-1, 1)

	case "rewind":
		c.cursor = 0
		h.reply(c, "rewound", map[string]int{"cursor": 0})

	default:
		h.replyError(c, "unknown message type: "+msg.Type)
	}
}

// sendFrame emits the frame at index and leaves the cursor one past it.
// Direction only matters for clamping at the ends of the replay.
func (h *Hub) sendFrame(c *Client, index, direction int) {
	if c.replay == nil {
		h.replyError(c, "no replay loaded")
		return
	}
	if index < 0 {
		index = 0
	}
	frame, ok := c.replay.FrameAt(index)
	if !ok {
		if direction > 0 {
			h.reply(c, "end", map[string]int{"frames": c.replay.Size()})
		} else {
			h.reply(c, "start", map[string]int{"cursor": 0})
		}
		return
	}
	c.cursor = index + 1
	h.reply(c, "frame", map[string]any{
		"index":  index,
		"action": frame,
	})
}
