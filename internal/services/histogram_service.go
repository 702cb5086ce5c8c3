package services

import (
	"context"
	"fmt"

	"txboard/internal/cache"
	"txboard/internal/core"
	"txboard/internal/ports"
)

// HistogramService buckets in-month prices for the bar chart.
type HistogramService struct {
	reader ports.HistogramReader
	view   monthView[[]core.PriceBucket]
}

func NewHistogramService(reader ports.HistogramReader, c cache.Cache[[]core.PriceBucket], obs CacheObserver) *HistogramService {
	return &HistogramService{
		reader: reader,
		view:   monthView[[]core.PriceBucket]{name: ViewHistogram, cache: c, observer: obs},
	}
}

// Histogram returns non-empty buckets in ascending order, overflow last.
func (s *HistogramService) Histogram(ctx context.Context, month string) ([]core.PriceBucket, error) {
	m, ok := core.ParseMonth(month)
	if !ok {
		return []core.PriceBucket{}, nil
	}
	return s.view.load(ctx, m, func(ctx context.Context, r core.DateRange) ([]core.PriceBucket, error) {
		buckets, err := s.reader.PriceHistogram(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("price histogram (month=%s): %w", m, err)
		}
		if buckets == nil {
			buckets = []core.PriceBucket{}
		}
		return buckets, nil
	})
}
