package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"txboard/internal/cache"
	"txboard/internal/core"
	"txboard/internal/ports"
)

// StatisticsService computes total sale amount and sold/unsold counts.
type StatisticsService struct {
	reader ports.StatisticsReader
	view   monthView[core.Statistics]
}

// NewStatisticsService wires the reader. c and obs may be nil.
func NewStatisticsService(reader ports.StatisticsReader, c cache.Cache[core.Statistics], obs CacheObserver) *StatisticsService {
	return &StatisticsService{
		reader: reader,
		view:   monthView[core.Statistics]{name: ViewStatistics, cache: c, observer: obs},
	}
}

// Summarize returns the month statistics; zero for an invalid month.
func (s *StatisticsService) Summarize(ctx context.Context, month string) (core.Statistics, error) {
	m, ok := core.ParseMonth(month)
	if !ok {
		return core.Statistics{}, nil
	}
	return s.view.load(ctx, m, s.compute)
}

// compute runs the three aggregates concurrently; the first failure cancels
// the others.
func (s *StatisticsService) compute(ctx context.Context, r core.DateRange) (core.Statistics, error) {
	var st core.Statistics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sum, err := s.reader.SumPrice(gctx, r)
		if err != nil {
			return fmt.Errorf("sum price: %w", err)
		}
		st.TotalSaleAmount = sum
		return nil
	})
	g.Go(func() error {
		n, err := s.reader.CountBySold(gctx, r, true)
		if err != nil {
			return fmt.Errorf("count sold: %w", err)
		}
		st.TotalSoldItems = n
		return nil
	})
	g.Go(func() error {
		n, err := s.reader.CountBySold(gctx, r, false)
		if err != nil {
			return fmt.Errorf("count unsold: %w", err)
		}
		st.TotalUnsoldItems = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Statistics{}, err
	}
	return st, nil
}
