// Package worker runs background consumers for the API process.
package worker

import (
	"context"
	"time"

	"txboard/internal/amqp"
	applog "txboard/internal/log"
)

const (
	minRetryDelay = time.Second
	maxRetryDelay = 30 * time.Second
)

// SeedEventSource streams seed events to handler until ctx ends or the
// subscription is lost.
type SeedEventSource interface {
	ConsumeSeedEvents(ctx context.Context, handler func(context.Context, *amqp.SeedEvent) error) error
}

// Invalidator drops every cached view.
type Invalidator interface {
	InvalidateAll()
}

// CacheWorker purges the view caches whenever a seed is announced, including
// seeds run by other processes against the same store.
type CacheWorker struct {
	source SeedEventSource
	caches Invalidator
	logger *applog.Logger

	minDelay time.Duration
	maxDelay time.Duration
}

func NewCacheWorker(source SeedEventSource, caches Invalidator, logger *applog.Logger) *CacheWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &CacheWorker{
		source:   source,
		caches:   caches,
		logger:   logger.WithComponent(applog.ComponentWorker),
		minDelay: minRetryDelay,
		maxDelay: maxRetryDelay,
	}
}

// HandleSeedEvent processes a single seed event from AMQP.
func (w *CacheWorker) HandleSeedEvent(ctx context.Context, ev *amqp.SeedEvent) error {
	w.caches.InvalidateAll()
	w.logger.InfoContext(ctx, "View caches invalidated by seed event",
		applog.FieldRecords, ev.Records,
		applog.FieldSource, ev.Source,
		"seeded_at", ev.Timestamp)
	return nil
}

// Run consumes seed events until ctx ends, resubscribing with backoff when
// the subscription drops. Events published while it is down are lost, so the
// caches are purged on every drop.
func (w *CacheWorker) Run(ctx context.Context) {
	delay := w.minDelay
	for {
		started := time.Now()
		err := w.source.ConsumeSeedEvents(ctx, w.HandleSeedEvent)
		if ctx.Err() != nil {
			return
		}

		w.caches.InvalidateAll()
		if time.Since(started) > w.maxDelay {
			delay = w.minDelay
		}
		w.logger.WarnContext(ctx, "Seed event subscription lost, retrying",
			applog.FieldError, errString(err),
			"retry_in", delay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, w.maxDelay)
	}
}

func errString(err error) string {
	if err == nil {
		return "subscription ended"
	}
	return err.Error()
}
