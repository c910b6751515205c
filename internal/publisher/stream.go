package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/redis/go-redis/v9"
)

// Event types written to the stream
const (
	EventRegions = "regions"
	EventFinal   = "final"
)

// DefaultMaxLen caps each view stream; trimming is approximate
const DefaultMaxLen = 1000

// StreamPublisher publishes view updates to Redis streams
type StreamPublisher struct {
	client redis.UniversalClient
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(client redis.UniversalClient) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: DefaultMaxLen,
	}
}

// StreamKey returns the stream a view's updates are published to
func StreamKey(view string) string {
	return fmt.Sprintf("views.updates.%s", view)
}

// Mount publishes the regions of a view update
func (p *StreamPublisher) Mount(ctx context.Context, view string, regions contracts.Regions) error {
	data, err := json.Marshal(regions)
	if err != nil {
		return fmt.Errorf("marshaling view update: %w", err)
	}

	return p.publish(ctx, view, map[string]interface{}{
		"type":    EventRegions,
		"view":    view,
		"data":    string(data),
		"regions": len(regions),
	})
}

// Finalize publishes that a view will not change again
func (p *StreamPublisher) Finalize(ctx context.Context, view string) error {
	return p.publish(ctx, view, map[string]interface{}{
		"type": EventFinal,
		"view": view,
	})
}

func (p *StreamPublisher) publish(ctx context.Context, view string, values map[string]interface{}) error {
	values["published_at"] = time.Now().UTC().Format(time.RFC3339Nano)

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey(view),
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}).Err()
}
