package main

import (
	"context"
	"log"
	"time"

	"origincheck/internal/activities"
	"origincheck/internal/cache"
	"origincheck/internal/config"
	"origincheck/internal/storage"
	"origincheck/internal/workflows"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	c, err := client.Dial(client.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	w := worker.New(c, cfg.TemporalTaskQueue, worker.Options{})
	workflows.Register(w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.EnsureSchema(ctx, db, cfg.EmbedDim); err != nil {
		log.Fatal(err)
	}

	results, err := cache.New(cfg.RedisURL, cfg.CacheExpiryHours)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = results.Close() }()

	a, err := activities.New(cfg, db, results)
	if err != nil {
		log.Fatal(err)
	}
	activities.Register(w, a)

	log.Printf("origincheck worker listening on %s queue=%s search_providers=%q ai_providers=%q embed_providers=%q",
		cfg.TemporalAddress, cfg.TemporalTaskQueue, cfg.SearchProviders, cfg.AIProviders, cfg.EmbedProviders)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal(err)
	}
}
