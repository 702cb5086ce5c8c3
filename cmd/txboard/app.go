package main

import (
	"context"
	"fmt"
	"os"

	"txboard/internal/amqp"
	"txboard/internal/backend"
	"txboard/internal/cache"
	"txboard/internal/cli"
	"txboard/internal/config"
	"txboard/internal/core"
	"txboard/internal/dataset"
	applog "txboard/internal/log"
	"txboard/internal/metrics"
	"txboard/internal/services"
)

// app holds the collaborators shared by the subcommands.
type app struct {
	cfg       *config.Config
	logger    *applog.Logger
	store     *backend.BackendResult
	publisher *amqp.Client
	metrics   *metrics.Metrics
}

func newApp(ctx context.Context) (*app, error) {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}

	logger, err := cli.SetupLogger(os.Stdout, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := cli.OpenStore(ctx, logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		publisher: cli.ConnectPublisher(logger.WithComponent(applog.ComponentAMQP), cfg),
		metrics:   metrics.New(),
	}, nil
}

func (a *app) seedService(inv services.Invalidator) *services.SeedService {
	fetcher := dataset.NewFetcher(a.cfg.DatasetURL, a.cfg.FetchTimeout)
	svc := services.NewSeedService(fetcher, a.store.Store).WithObserver(a.metrics)
	if inv != nil {
		svc = svc.WithInvalidator(inv)
	}
	if a.publisher != nil {
		svc = svc.WithPublisher(a.publisher)
	}
	return svc
}

// viewCaches returns nil caches, so the services always hit the store, when
// CACHE_SIZE is 0 or when a seed run by another process could go unnoticed.
// That is the case for shared stores without a seed event subscription.
func (a *app) viewCaches(m *cache.Manager, subscribed bool) (cache.Cache[core.Statistics], cache.Cache[[]core.PriceBucket], cache.Cache[[]core.CategoryCount]) {
	if a.cfg.CacheSize <= 0 {
		a.logger.Info("View cache disabled")
		return nil, nil, nil
	}
	if !subscribed && a.cfg.DataBackend != config.BackendMemory {
		a.logger.Warn("View cache disabled: seed events unavailable for a shared store", "backend", a.cfg.DataBackend)
		return nil, nil, nil
	}
	v := cache.NewViews(m, a.cfg.CacheSize, a.cfg.CacheTTL)
	a.logger.Info("View cache enabled", "size", a.cfg.CacheSize, "ttl", a.cfg.CacheTTL)
	return v.Statistics, v.Histogram, v.Categories
}

func (a *app) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close AMQP client", "error", err)
		}
	}
	if a.store.Cleanup != nil {
		if err := a.store.Cleanup(); err != nil {
			a.logger.Warn("Failed to close store", "error", err)
		}
	}
}
