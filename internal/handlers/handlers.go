package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/fortuna/services/scoreboard-view/internal/hub"
	"github.com/fortuna/services/scoreboard-view/internal/poller"
	"github.com/fortuna/services/scoreboard-view/internal/target"
	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/go-chi/chi/v5"
)

// ErrorResponse is the JSON body of every error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PollerStats reports the state of the running pollers
type PollerStats interface {
	Stats() []poller.Stats
}

// RegionReader serves views another process rendered, e.g. from Redis
type RegionReader interface {
	ReadRegion(ctx context.Context, view, region string) (contracts.Fragment, bool, error)
	ReadView(ctx context.Context, view string) (contracts.Regions, error)
}

// Handler serves the stored views and the websocket subscription endpoint
type Handler struct {
	store   *target.Store
	hub     *hub.Hub
	pollers PollerStats
	shared  RegionReader
	ctx     context.Context
	started time.Time
}

// NewHandler creates a new handler. ctx bounds the lifetime of websocket pumps.
func NewHandler(ctx context.Context, store *target.Store, h *hub.Hub, pollers PollerStats) *Handler {
	return &Handler{
		store:   store,
		hub:     h,
		pollers: pollers,
		ctx:     ctx,
		started: time.Now(),
	}
}

// SetShared makes views missing from the local store fall back to r
func (h *Handler) SetShared(r RegionReader) {
	h.shared = r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	active := 0
	for _, s := range h.pollers.Stats() {
		if s.Active {
			active++
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"service":        "scoreboard-view",
		"timestamp":      time.Now().UTC(),
		"active_pollers": active,
		"views":          len(h.store.List()),
	})
}

// Metrics returns poller and hub counters
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"pollers":        h.pollers.Stats(),
		"hub":            h.hub.GetMetrics(),
	})
}

// ListViews returns the names of all views with content
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	views := h.store.List()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"views": views,
		"count": len(views),
	})
}

// GetView returns every region of a view as JSON
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")

	if snap, ok := h.store.Get(name); ok {
		respondJSON(w, http.StatusOK, snap)
		return
	}

	if h.shared != nil {
		regions, err := h.shared.ReadView(r.Context(), name)
		if err != nil {
			respondError(w, http.StatusBadGateway, "shared view unavailable", err)
			return
		}
		if len(regions) > 0 {
			respondJSON(w, http.StatusOK, target.Snapshot{View: name, Regions: regions})
			return
		}
	}
	respondError(w, http.StatusNotFound, "view not found", nil)
}

// GetRegion returns one region's HTML fragment
func (h *Handler) GetRegion(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "view")
	region := chi.URLParam(r, "region")

	fragment, ok := h.store.Region(name, region)
	if !ok && h.shared != nil {
		var err error
		if fragment, ok, err = h.shared.ReadRegion(r.Context(), name, region); err != nil {
			respondError(w, http.StatusBadGateway, "shared region unavailable", err)
			return
		}
	}
	if !ok {
		respondError(w, http.StatusNotFound, "region not found", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(fragment))
}

// HandleWebSocket subscribes the connection to the view named in the query
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("view")
	if name == "" {
		respondError(w, http.StatusBadRequest, "view query parameter is required", nil)
		return
	}

	if err := h.hub.ServeWS(h.ctx, w, r, name); err != nil {
		log.Printf("[handlers] %v", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[handlers] error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.Printf("[handlers] %s: %v", message, err)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
