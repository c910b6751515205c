package hub

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// Fragments are public; origins are restricted by the CORS layer for plain HTTP
		return true
	},
}

// ServeWS upgrades the request and subscribes the connection to view. The pumps
// run on ctx, not the request context, so they outlive the handler.
func (h *Hub) ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request, view string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("websocket upgrade: %w", err)
	}

	c := NewClient(uuid.New().String(), view, conn, h)
	h.Register(c)

	go c.WritePump(ctx)
	go c.ReadPump()

	return nil
}
