// Package hub pushes rendered regions to websocket subscribers. It is a render
// target: every Mount is broadcast to the clients subscribed to that view, and
// a client that subscribes late first receives the view's current regions.
package hub

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
)

// ErrClosed is returned by Mount once the hub has shut down
var ErrClosed = errors.New("hub closed")

type update struct {
	view    string
	regions contracts.Regions
}

// Hub maintains the subscribers of every view and the latest regions sent to them
type Hub struct {
	// Subscribers per view
	clients   map[string]map[*Client]bool
	clientsMu sync.RWMutex

	// Current regions per view, owned by the Run loop
	views map[string]contracts.Regions

	broadcast  chan update
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Metrics
	totalConnections int64
	totalMessages    int64
	slowClients      int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		views:      make(map[string]contracts.Regions),
		broadcast:  make(chan update, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is cancelled, after
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	log.Println("[hub] Started")
	defer close(h.done)

	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case u := <-h.broadcast:
			h.broadcastUpdate(u)
		}
	}
}

// Register subscribes a client to its view
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Mount queues the regions for every subscriber of view. Updates are applied in
// the order they are mounted.
func (h *Hub) Mount(ctx context.Context, view string, regions contracts.Regions) error {
	select {
	case <-h.done:
		return ErrClosed
	default:
	}

	u := update{view: view, regions: copyRegions(regions)}
	select {
	case h.broadcast <- u:
		return nil
	case <-h.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// registerClient adds a client and sends it the view's current regions
func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	subs, ok := h.clients[c.View]
	if !ok {
		subs = make(map[*Client]bool)
		h.clients[c.View] = subs
	}
	subs[c] = true
	total := len(subs)
	h.clientsMu.Unlock()

	h.incrementTotalConnections()
	log.Printf("[hub] client %s subscribed to %s (subscribers: %d)", c.ID, c.View, total)

	if current, ok := h.views[c.View]; ok {
		if !c.TrySend(regionsMessage(c.View, copyRegions(current))) {
			h.dropSlowClient(c)
		}
	}
}

// unregisterClient removes a client and closes its send channel
func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	subs := h.clients[c.View]
	if _, ok := subs[c]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.clients, c.View)
		}
		close(c.Send)
		log.Printf("[hub] client %s disconnected from %s", c.ID, c.View)
	}
}

// broadcastUpdate records the regions and sends them to the view's subscribers
func (h *Hub) broadcastUpdate(u update) {
	current, ok := h.views[u.view]
	if !ok {
		current = make(contracts.Regions)
		h.views[u.view] = current
	}
	for region, fragment := range u.regions {
		current[region] = fragment
	}

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients[u.view]))
	for c := range h.clients[u.view] {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	if len(clients) == 0 {
		return
	}

	message := regionsMessage(u.view, u.regions)
	sent := 0
	for _, c := range clients {
		if c.TrySend(message) {
			sent++
			continue
		}
		h.dropSlowClient(c)
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
}

// dropSlowClient disconnects a client whose buffer is full
func (h *Hub) dropSlowClient(c *Client) {
	log.Printf("[hub] client %s buffer full, disconnecting", c.ID)
	h.metricsMu.Lock()
	h.slowClients++
	h.metricsMu.Unlock()
	h.unregisterClient(c)
}

// Metrics describes hub activity
type Metrics struct {
	ActiveClients    int   `json:"active_clients"`
	Views            int   `json:"views"`
	TotalConnections int64 `json:"total_connections"`
	TotalMessages    int64 `json:"total_messages"`
	SlowClients      int64 `json:"slow_clients"`
	BroadcastUsage   int   `json:"broadcast_usage"`
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() Metrics {
	h.clientsMu.RLock()
	active := 0
	for _, subs := range h.clients {
		active += len(subs)
	}
	views := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()

	return Metrics{
		ActiveClients:    active,
		Views:            views,
		TotalConnections: h.totalConnections,
		TotalMessages:    h.totalMessages,
		SlowClients:      h.slowClients,
		BroadcastUsage:   len(h.broadcast),
	}
}

// GetClientCount returns the number of subscribers of a view
func (h *Hub) GetClientCount(view string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[view])
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	total := 0
	for view, subs := range h.clients {
		for c := range subs {
			close(c.Send)
			total++
		}
		delete(h.clients, view)
	}
	log.Printf("[hub] Shut down (%d clients closed)", total)
}

// reportMetrics periodically logs hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := h.GetMetrics()
			log.Printf("[hub] clients=%d views=%d messages=%d slow=%d",
				m.ActiveClients, m.Views, m.TotalMessages, m.SlowClients)
		}
	}
}

func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}

func copyRegions(regions contracts.Regions) contracts.Regions {
	out := make(contracts.Regions, len(regions))
	for region, fragment := range regions {
		out[region] = fragment
	}
	return out
}
