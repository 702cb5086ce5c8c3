package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"txboard/internal/core"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertMany(ctx context.Context, txs []core.Transaction) (int, error) {
	args := m.Called(ctx, txs)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) FindTransactions(ctx context.Context, q core.TransactionQuery) ([]core.Transaction, error) {
	args := m.Called(ctx, q)
	txs, _ := args.Get(0).([]core.Transaction)
	return txs, args.Error(1)
}

func (m *mockStore) SumPrice(ctx context.Context, r core.DateRange) (float64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockStore) CountBySold(ctx context.Context, r core.DateRange, sold bool) (int64, error) {
	args := m.Called(ctx, r, sold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) PriceHistogram(ctx context.Context, r core.DateRange) ([]core.PriceBucket, error) {
	args := m.Called(ctx, r)
	b, _ := args.Get(0).([]core.PriceBucket)
	return b, args.Error(1)
}

func (m *mockStore) CategoryCounts(ctx context.Context, r core.DateRange) ([]core.CategoryCount, error) {
	args := m.Called(ctx, r)
	c, _ := args.Get(0).([]core.CategoryCount)
	return c, args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context) ([]core.Transaction, error) {
	args := m.Called(ctx)
	txs, _ := args.Get(0).([]core.Transaction)
	return txs, args.Error(1)
}

func (m *mockFetcher) URL() string {
	return "https://example.com/product_transaction.json"
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSeeded(ctx context.Context, records int, source string) error {
	return m.Called(ctx, records, source).Error(0)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

type recordingObserver struct {
	seeds  []int
	errs   []error
	lookup map[string][]bool
}

func (r *recordingObserver) ObserveSeed(records int, err error) {
	r.seeds = append(r.seeds, records)
	r.errs = append(r.errs, err)
}

func (r *recordingObserver) ObserveCache(view string, hit bool) {
	if r.lookup == nil {
		r.lookup = map[string][]bool{}
	}
	r.lookup[view] = append(r.lookup[view], hit)
}
