// Package storagetest holds fixtures and a behavioural suite shared by every
// ports.Store implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txboard/internal/core"
	"txboard/internal/ports"
)

// Factory returns an empty store; cleanup is registered on t.
type Factory func(t *testing.T) ports.Store

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

// Fixture returns the records used by the suite. March 2022 holds six
// records, one of them late on the 31st and therefore outside the range.
func Fixture() []core.Transaction {
	return []core.Transaction{
		{Title: "Mens Casual Shirt", Description: "Slim fit cotton", Price: 50, DateOfSale: day(2022, time.March, 5, 0), Sold: true, Category: "men's clothing"},
		{Title: "Gold Ring", Description: "Solid gold petite micropave", Price: 950, DateOfSale: day(2022, time.March, 20, 0), Sold: false, Category: "jewelery"},
		{Title: "SSD 1TB", Description: "Fast storage (a.k.a. solid state)", Price: 109.95, DateOfSale: day(2022, time.March, 1, 0), Sold: true, Category: "electronics"},
		{Title: "Monitor 4K", Description: "Ultra HD display", Price: 1500, DateOfSale: day(2022, time.March, 31, 0), Sold: false, Category: "electronics"},
		{Title: "Rain Jacket", Description: "Lightweight WOMEN windbreaker", Price: 39.99, DateOfSale: day(2022, time.March, 15, 9), Sold: true, Category: "women's clothing"},
		{Title: "Late Shirt", Description: "Sold after midnight on the 31st", Price: 20, DateOfSale: day(2022, time.March, 31, 10), Sold: true, Category: "men's clothing"},
		{Title: "Backpack", Description: "Fits 15 laptops", Price: 109.95, DateOfSale: day(2021, time.November, 27, 14), Sold: false, Category: "men's clothing"},
		{Title: "Wrist Watch", Description: "Analog steel", Price: 300, DateOfSale: day(2022, time.March, 2, 8), Sold: true, Category: "jewelery"},
	}
}

// MarchTitles are the fixture titles inside MustParseMonth("2022-03").Range(),
// in insertion order.
var MarchTitles = []string{"Mens Casual Shirt", "Gold Ring", "SSD 1TB", "Monitor 4K", "Rain Jacket", "Wrist Watch"}

// Seed inserts the fixture and fails the test on error.
func Seed(t *testing.T, s ports.Store) {
	t.Helper()
	n, err := s.InsertMany(context.Background(), Fixture())
	require.NoError(t, err)
	require.Equal(t, len(Fixture()), n)
}

func titles(txs []core.Transaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Title
	}
	return out
}

// Run exercises the full store contract.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()
	march := core.MustParseMonth("2022-03").Range()

	t.Run("FindTransactions month only", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Page: core.Page{Number: 1, PerPage: 100}})
		require.NoError(t, err)
		assert.Equal(t, MarchTitles, titles(got))
	})

	t.Run("FindTransactions search", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		tests := []struct {
			term string
			want []string
		}{
			{"shirt", []string{"Mens Casual Shirt"}},
			{"women", []string{"Rain Jacket"}},
			{"GOLD", []string{"Gold Ring"}},
			{"a.k.a.", []string{"SSD 1TB"}},
			{"%", []string{}},
			{"_", []string{}},
			{"109.95", []string{}},
			{"950", []string{}},
		}
		for _, tt := range tests {
			got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Search: core.SearchTerm(tt.term), Page: core.Page{Number: 1, PerPage: 100}})
			require.NoError(t, err, tt.term)
			assert.Equal(t, tt.want, titles(got), tt.term)
		}
	})

	t.Run("FindTransactions pages reconstruct the month", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		var all []string
		for page := 1; page <= 4; page++ {
			got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Page: core.Page{Number: page, PerPage: 4}})
			require.NoError(t, err)
			all = append(all, titles(got)...)
		}
		assert.Equal(t, MarchTitles, all)
	})

	t.Run("FindTransactions past the end is empty", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Page: core.Page{Number: 50, PerPage: 10}})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("FindTransactions folds non-ASCII case", func(t *testing.T) {
		s := newStore(t)
		_, err := s.InsertMany(ctx, []core.Transaction{
			{Title: "Éclair Crème Brûlée", Description: "Pâtisserie", Price: 12, DateOfSale: day(2022, time.March, 3, 0), Category: "food"},
			{Title: "Plain Bread", Description: "ΣΟΦΙΑ bakery", Price: 3, DateOfSale: day(2022, time.March, 4, 0), Category: "food"},
		})
		require.NoError(t, err)

		tests := []struct {
			term string
			want []string
		}{
			{"éCLAIR", []string{"Éclair Crème Brûlée"}},
			{"CRÈME", []string{"Éclair Crème Brûlée"}},
			{"pâtisserie", []string{"Éclair Crème Brûlée"}},
			{"σοφια", []string{"Plain Bread"}},
		}
		for _, tt := range tests {
			got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Search: core.SearchTerm(tt.term), Page: core.Page{Number: 1, PerPage: 10}})
			require.NoError(t, err, tt.term)
			assert.Equal(t, tt.want, titles(got), tt.term)
		}
	})

	t.Run("FindTransactions with a saturated skip is empty", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		page := core.ParsePage("92233720368547760", "100")
		got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Page: page})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("FindTransactions with an unbounded perPage returns the month", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		page := core.ParsePage("1", "99999999999999999999")
		got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: march, Page: page})
		require.NoError(t, err)
		assert.Equal(t, MarchTitles, titles(got))
	})

	t.Run("FindTransactions round-trips fields", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		nov := core.MustParseMonth("2021-11").Range()
		got, err := s.FindTransactions(ctx, core.TransactionQuery{Range: nov, Page: core.Page{Number: 1, PerPage: 10}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		want := Fixture()[6]
		assert.Equal(t, want.Title, got[0].Title)
		assert.Equal(t, want.Description, got[0].Description)
		assert.InDelta(t, want.Price, got[0].Price, 1e-9)
		assert.True(t, want.DateOfSale.Equal(got[0].DateOfSale))
		assert.Equal(t, want.Sold, got[0].Sold)
		assert.Equal(t, want.Category, got[0].Category)
	})

	t.Run("statistics", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		sum, err := s.SumPrice(ctx, march)
		require.NoError(t, err)
		assert.InDelta(t, 50+950+109.95+1500+39.99+300, sum, 1e-6)

		sold, err := s.CountBySold(ctx, march, true)
		require.NoError(t, err)
		unsold, err := s.CountBySold(ctx, march, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), sold)
		assert.Equal(t, int64(2), unsold)
		assert.Equal(t, int64(len(MarchTitles)), sold+unsold)
	})

	t.Run("statistics empty month", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		empty := core.MustParseMonth("2019-01").Range()
		sum, err := s.SumPrice(ctx, empty)
		require.NoError(t, err)
		assert.Zero(t, sum)
		n, err := s.CountBySold(ctx, empty, true)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("PriceHistogram", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		got, err := s.PriceHistogram(ctx, march)
		require.NoError(t, err)
		assert.Equal(t, []core.PriceBucket{
			{BucketLabel: "0", Count: 2},
			{BucketLabel: "100", Count: 1},
			{BucketLabel: "300", Count: 1},
			{BucketLabel: "900", Count: 1},
			{BucketLabel: core.OverflowBucketLabel, Count: 1},
		}, got)

		var total int64
		for _, b := range got {
			total += b.Count
		}
		assert.Equal(t, int64(len(MarchTitles)), total)

		none, err := s.PriceHistogram(ctx, core.MustParseMonth("2019-01").Range())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("CategoryCounts", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)

		got, err := s.CategoryCounts(ctx, march)
		require.NoError(t, err)
		assert.ElementsMatch(t, []core.CategoryCount{
			{Category: "men's clothing", Count: 1},
			{Category: "jewelery", Count: 2},
			{Category: "electronics", Count: 2},
			{Category: "women's clothing", Count: 1},
		}, got)

		none, err := s.CategoryCounts(ctx, core.MustParseMonth("2019-01").Range())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("InsertMany duplicates", func(t *testing.T) {
		s := newStore(t)
		Seed(t, s)
		Seed(t, s)

		n, err := s.CountBySold(ctx, march, false)
		require.NoError(t, err)
		assert.Equal(t, int64(4), n)
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}
