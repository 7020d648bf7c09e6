package server

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duelforge/duelsim/internal/replay"
)

// Client is one websocket playback connection with its own replay cursor.
type Client struct {
	conn *websocket.Conn
	send chan []byte

	replay *replay.Replay
	cursor int
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// readPump decodes inbound messages and hands them to the hub. It owns the
// connection's read side and unregisters the client on any read error.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.drop <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Warn("bad client message", zap.Error(err))
			continue
		}
		h.handleMessage(c, msg)
	}
}

// writePump drains the send channel to the connection. Closing the channel
// ends the pump.
func (c *Client) writePump() {
	defer c.conn.Close()
	for raw := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}
