package hub

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only send control frames
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 64
)

// Client is one websocket subscriber of a single view
type Client struct {
	ID   string
	View string
	Send chan Message

	conn        *websocket.Conn
	hub         *Hub
	connectedAt time.Time
}

// NewClient creates a subscriber for view
func NewClient(id, view string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		View:        view,
		Send:        make(chan Message, sendBufferSize),
		conn:        conn,
		hub:         hub,
		connectedAt: time.Now(),
	}
}

// ReadPump drains the connection so pongs and close frames are processed.
// It unregisters the client when the peer goes away.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[hub] client %s unexpected close: %v", c.ID, err)
			}
			return
		}
	}
}

// WritePump writes queued messages and pings until the hub closes Send or ctx ends
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				log.Printf("[hub] client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend queues a message without blocking; false means the client is too slow
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}
