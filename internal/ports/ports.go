// Package ports declares the store interfaces the services depend on.
package ports

import (
	"context"

	"txboard/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionWriter bulk-loads seed records.
	TransactionWriter interface {
		InsertMany(ctx context.Context, txs []core.Transaction) (inserted int, err error)
	}

	// TransactionFinder returns one page of matching records in store order.
	TransactionFinder interface {
		FindTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error)
	}

	// StatisticsReader computes the month aggregates, one call per figure.
	StatisticsReader interface {
		// SumPrice returns 0 when no record is in range.
		SumPrice(ctx context.Context, r core.DateRange) (float64, error)
		CountBySold(ctx context.Context, r core.DateRange, sold bool) (int64, error)
	}

	// HistogramReader buckets in-range prices on core.PriceBoundaries.
	HistogramReader interface {
		PriceHistogram(ctx context.Context, r core.DateRange) ([]core.PriceBucket, error)
	}

	// CategoryReader groups in-range records by category.
	CategoryReader interface {
		CategoryCounts(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error)
	}

	// Pinger reports store reachability for readiness checks.
	Pinger interface {
		Ping(ctx context.Context) error
	}

	// Store is everything a backend provides.
	Store interface {
		TransactionWriter
		TransactionFinder
		StatisticsReader
		HistogramReader
		CategoryReader
		Pinger
		Close() error
	}
)
