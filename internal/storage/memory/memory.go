// Package memory is an in-process transaction store. Records keep insertion
// order, which is the store's default order.
package memory

import (
	"context"
	"sync"

	"txboard/internal/core"
)

type Store struct {
	mu    sync.RWMutex
	items []core.Transaction
}

func New(seed ...core.Transaction) *Store {
	return &Store{items: append([]core.Transaction(nil), seed...)}
}

// InsertMany appends every record; duplicates are kept.
func (s *Store) InsertMany(_ context.Context, txs []core.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, txs...)
	return len(txs), nil
}

func (s *Store) FindTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	skip, limit := q.Page.Skip(), q.Page.Limit()
	out := []core.Transaction{}
	err := s.each(ctx, q.Range, func(t core.Transaction) bool {
		if !q.Search.Matches(t) {
			return true
		}
		if skip > 0 {
			skip--
			return true
		}
		out = append(out, t)
		return int64(len(out)) < limit
	})
	return out, err
}

func (s *Store) SumPrice(ctx context.Context, r core.DateRange) (float64, error) {
	var sum float64
	err := s.each(ctx, r, func(t core.Transaction) bool {
		sum += t.Price
		return true
	})
	return sum, err
}

func (s *Store) CountBySold(ctx context.Context, r core.DateRange, sold bool) (int64, error) {
	var n int64
	err := s.each(ctx, r, func(t core.Transaction) bool {
		if t.Sold == sold {
			n++
		}
		return true
	})
	return n, err
}

func (s *Store) PriceHistogram(ctx context.Context, r core.DateRange) ([]core.PriceBucket, error) {
	counts := make([]int64, len(core.PriceBoundaries))
	err := s.each(ctx, r, func(t core.Transaction) bool {
		counts[core.BucketIndex(t.Price)]++
		return true
	})
	if err != nil {
		return nil, err
	}
	return core.CompactBuckets(counts), nil
}

// CategoryCounts returns categories in first-seen order.
func (s *Store) CategoryCounts(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error) {
	index := map[string]int{}
	out := []core.CategoryCount{}
	err := s.each(ctx, r, func(t core.Transaction) bool {
		i, ok := index[t.Category]
		if !ok {
			i = len(out)
			index[t.Category] = i
			out = append(out, core.CategoryCount{Category: t.Category})
		}
		out[i].Count++
		return true
	})
	return out, err
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error { return nil }

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// each calls fn for every in-range record until fn returns false.
func (s *Store) each(ctx context.Context, r core.DateRange, fn func(core.Transaction) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.items {
		if !r.Contains(t.DateOfSale) {
			continue
		}
		if !fn(t) {
			break
		}
	}
	return nil
}
