package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fortuna/services/scoreboard-view/pkg/contracts"
	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	LiveViewTTL  = 2 * time.Hour
	FinalViewTTL = 6 * time.Hour
)

// RegionWriter stores the rendered regions of every view in Redis so other
// processes can serve them
type RegionWriter struct {
	client redis.UniversalClient
}

// NewRegionWriter creates a new Redis region writer
func NewRegionWriter(client redis.UniversalClient) *RegionWriter {
	return &RegionWriter{
		client: client,
	}
}

func regionKey(view, region string) string {
	return fmt.Sprintf("view:%s:%s", view, region)
}

func regionSetKey(view string) string {
	return fmt.Sprintf("view:%s:regions", view)
}

// Mount writes every region with the live TTL and records the region names
func (w *RegionWriter) Mount(ctx context.Context, view string, regions contracts.Regions) error {
	if len(regions) == 0 {
		return nil
	}

	names := make([]interface{}, 0, len(regions))

	pipe := w.client.Pipeline()
	for region, fragment := range regions {
		pipe.Set(ctx, regionKey(view, region), string(fragment), LiveViewTTL)
		names = append(names, region)
	}
	pipe.SAdd(ctx, regionSetKey(view), names...)
	pipe.Expire(ctx, regionSetKey(view), LiveViewTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing regions of %s: %w", view, err)
	}
	return nil
}

// Finalize keeps a terminal view's regions for FinalViewTTL
func (w *RegionWriter) Finalize(ctx context.Context, view string) error {
	regions, err := w.client.SMembers(ctx, regionSetKey(view)).Result()
	if err != nil {
		return fmt.Errorf("listing regions of %s: %w", view, err)
	}

	pipe := w.client.Pipeline()
	for _, region := range regions {
		pipe.Expire(ctx, regionKey(view, region), FinalViewTTL)
	}
	pipe.Expire(ctx, regionSetKey(view), FinalViewTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("extending TTL of %s: %w", view, err)
	}
	return nil
}

// ReadRegion retrieves one region's fragment; ok is false when it is not stored
func (w *RegionWriter) ReadRegion(ctx context.Context, view, region string) (contracts.Fragment, bool, error) {
	data, err := w.client.Get(ctx, regionKey(view, region)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading region %s of %s: %w", region, view, err)
	}
	return contracts.Fragment(data), true, nil
}

// ReadView retrieves every stored region of a view. A view with no stored
// regions returns an empty map.
func (w *RegionWriter) ReadView(ctx context.Context, view string) (contracts.Regions, error) {
	names, err := w.client.SMembers(ctx, regionSetKey(view)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing regions of %s: %w", view, err)
	}

	regions := make(contracts.Regions, len(names))
	for _, name := range names {
		fragment, ok, err := w.ReadRegion(ctx, view, name)
		if err != nil {
			return nil, err
		}
		if ok {
			regions[name] = fragment
		}
	}
	return regions, nil
}
