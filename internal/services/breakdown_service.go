package services

import (
	"context"
	"fmt"

	"txboard/internal/cache"
	"txboard/internal/core"
	"txboard/internal/ports"
)

// CategoryBreakdownService counts in-month records per category.
type CategoryBreakdownService struct {
	reader ports.CategoryReader
	view   monthView[[]core.CategoryCount]
}

func NewCategoryBreakdownService(reader ports.CategoryReader, c cache.Cache[[]core.CategoryCount], obs CacheObserver) *CategoryBreakdownService {
	return &CategoryBreakdownService{
		reader: reader,
		view:   monthView[[]core.CategoryCount]{name: ViewCategories, cache: c, observer: obs},
	}
}

// Breakdown returns one entry per category present in the month.
func (s *CategoryBreakdownService) Breakdown(ctx context.Context, month string) ([]core.CategoryCount, error) {
	m, ok := core.ParseMonth(month)
	if !ok {
		return []core.CategoryCount{}, nil
	}
	return s.view.load(ctx, m, func(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error) {
		counts, err := s.reader.CategoryCounts(ctx, r)
		if err != nil {
			return nil, fmt.Errorf("category counts (month=%s): %w", m, err)
		}
		if counts == nil {
			counts = []core.CategoryCount{}
		}
		return counts, nil
	})
}
