package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"txboard/internal/core"
	applog "txboard/internal/log"
	"txboard/internal/ports"
)

// DatasetFetcher downloads the seed records.
type DatasetFetcher interface {
	Fetch(ctx context.Context) ([]core.Transaction, error)
	URL() string
}

// SeedPublisher announces completed seeds.
type SeedPublisher interface {
	PublishSeeded(ctx context.Context, records int, source string) error
}

// Invalidator drops cached views after the data changes.
type Invalidator interface {
	InvalidateAll()
}

// SeedObserver records seed outcomes.
type SeedObserver interface {
	ObserveSeed(records int, err error)
}

// SeedService loads the remote dataset into the store. Seeds are not
// idempotent: each call appends the full dataset again.
type SeedService struct {
	fetcher     DatasetFetcher
	writer      ports.TransactionWriter
	invalidator Invalidator
	publisher   SeedPublisher
	observer    SeedObserver

	// mu serialises seeds within this process only.
	mu sync.Mutex
}

// NewSeedService wires the required fetcher and writer. Optional
// collaborators are attached with the With* methods.
func NewSeedService(fetcher DatasetFetcher, writer ports.TransactionWriter) *SeedService {
	return &SeedService{fetcher: fetcher, writer: writer}
}

func (s *SeedService) WithInvalidator(inv Invalidator) *SeedService {
	s.invalidator = inv
	return s
}

func (s *SeedService) WithPublisher(p SeedPublisher) *SeedService {
	s.publisher = p
	return s
}

func (s *SeedService) WithObserver(o SeedObserver) *SeedService {
	s.observer = o
	return s
}

// Seed fetches the dataset and inserts every record in one bulk write. It
// returns the number of inserted records.
func (s *SeedService) Seed(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	n, err := s.seed(ctx)
	if s.observer != nil {
		s.observer.ObserveSeed(n, err)
	}
	if err != nil {
		return 0, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateAll()
	}

	logger := applog.FromContext(ctx)
	applog.NewStructuredLogger(logger).LogSeedCompleted(ctx, s.fetcher.URL(), n, time.Since(start).Milliseconds())

	if s.publisher == nil {
		logger.DebugContext(ctx, "AMQP publisher not configured, skipping seed event")
		return n, nil
	}
	if err := s.publisher.PublishSeeded(ctx, n, s.fetcher.URL()); err != nil {
		// A lost notification does not fail the seed.
		logger.WithComponent(applog.ComponentAMQP).ErrorContext(ctx, "Failed to publish seed event",
			applog.FieldOperation, applog.OpPublish,
			applog.FieldRecords, n,
			applog.FieldError, err)
	}
	return n, nil
}

func (s *SeedService) seed(ctx context.Context) (int, error) {
	txs, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch dataset: %w", err)
	}
	n, err := s.writer.InsertMany(ctx, txs)
	if err != nil {
		return 0, fmt.Errorf("insert %d transactions: %w", len(txs), err)
	}
	return n, nil
}
