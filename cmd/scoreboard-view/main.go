package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/fortuna/services/scoreboard-view/internal/cache"
	"github.com/fortuna/services/scoreboard-view/internal/config"
	"github.com/fortuna/services/scoreboard-view/internal/handlers"
	"github.com/fortuna/services/scoreboard-view/internal/hub"
	"github.com/fortuna/services/scoreboard-view/internal/poller"
	"github.com/fortuna/services/scoreboard-view/internal/providers/feed"
	"github.com/fortuna/services/scoreboard-view/internal/publisher"
	"github.com/fortuna/services/scoreboard-view/internal/registry"
	"github.com/fortuna/services/scoreboard-view/internal/render"
	"github.com/fortuna/services/scoreboard-view/internal/target"
	"github.com/fortuna/services/scoreboard-view/internal/view"
	"github.com/fortuna/services/scoreboard-view/pkg/models"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.Println("Starting Scoreboard View Service...")

	// Load configuration from flags, environment and .env
	opts, err := config.ParseOptions()
	if err != nil {
		log.Fatalf("Failed to parse options: %v", err)
	}

	sportRegistry := registry.New()
	for _, sport := range sportRegistry.EnabledSports() {
		log.Printf("Sport enabled: %s (%s)", sport.GetDisplayName(), sport.GetSportKey())
	}
	defaultSport, err := sportRegistry.GetModule(registry.DefaultSport)
	if err != nil {
		log.Fatalf("Default sport unavailable: %v", err)
	}
	opts.ApplyPollingDefaults(defaultSport.GetPollingConfig())

	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	var viewsFile *config.ViewsFile
	if opts.ViewsFile != "" {
		if viewsFile, err = config.LoadViews(opts.ViewsFile, opts.ViewDefaults()); err != nil {
			log.Fatalf("Failed to load views: %v", err)
		}
	}
	defs, err := config.Views(opts, viewsFile)
	if err != nil {
		log.Fatalf("Invalid views: %v", err)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	// Render targets
	store := target.NewStore()
	wsHub := hub.NewHub()
	go wsHub.Run(ctx)

	fanout := target.NewFanout(
		target.Named{Name: "store", Target: store},
		target.Named{Name: "hub", Target: wsHub},
	)

	var regionWriter *cache.RegionWriter
	if opts.RedisURL != "" {
		redisClient, err := connectRedis(ctx, opts.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Println("Connected to Redis")

		regionWriter = cache.NewRegionWriter(redisClient)
		fanout.Add("redis", regionWriter)
		fanout.Add("stream", publisher.NewStreamPublisher(redisClient))
	}

	log.Printf("Rendering to %d targets", fanout.Len())

	// Initialize components
	feedClient := feed.New()

	runners := make([]poller.Runner, 0, len(defs))
	for _, def := range defs {
		sport, err := sportRegistry.GetModule(def.Sport)
		if err != nil {
			log.Fatalf("View %s: %v", def.Name, err)
		}

		renderOpts := opts.RenderOptions()
		renderOpts.PeriodLabel = sport.PeriodLabel

		cfg := view.Config{
			Name:           def.Name,
			Endpoint:       def.Endpoint,
			Interval:       def.Interval,
			RequestTimeout: opts.RequestTimeout,
			Sport:          sport,
			Renderer:       render.New(renderOpts),
			Target:         fanout,
		}

		switch def.Kind {
		case view.KindBoard:
			runners = append(runners, view.NewBoardController(cfg, feedClient, models.GameStatus(def.StatusFilter), opts.HidePolicy()))
		case view.KindGame:
			runners = append(runners, view.NewGameController(cfg, feedClient))
		}
	}

	orch := poller.NewOrchestrator(runners...)

	// HTTP server
	handler := handlers.NewHandler(ctx, store, wsHub, orch)
	if regionWriter != nil {
		handler.SetShared(regionWriter)
	}
	server := &http.Server{
		Addr:              opts.Addr,
		Handler:           handlers.NewRouter(handler, handlers.RouterOptions{CORSOrigins: opts.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", opts.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			cancel()
		}
	}()

	// Start polling; fragments stay served after every view has stopped
	log.Printf("Starting %d view pollers...", len(runners))
	pollersDone := make(chan struct{})
	go func() {
		defer close(pollersDone)
		orch.Start(ctx)
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Targets stay open until the last in-flight mount has returned
	select {
	case <-pollersDone:
	case <-shutdownCtx.Done():
		log.Println("Timed out waiting for pollers to stop")
	}

	log.Println("Scoreboard View Service stopped")
}

// connectRedis pings Redis with exponential backoff until it answers
func connectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(redisOpts)

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, client.Ping(ctx).Err()
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(30*time.Second),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Printf("Redis not ready, retrying in %s: %v", next, err)
		}),
	)
	if err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
