package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txboard/internal/core"
	"txboard/internal/ports"
	"txboard/internal/storage/storagetest"
)

func TestMemoryStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) ports.Store {
		return New()
	})
}

func TestNewSeedsAndCopies(t *testing.T) {
	seed := storagetest.Fixture()
	s := New(seed...)
	assert.Equal(t, len(seed), s.Len())

	seed[0].Title = "mutated"
	got, err := s.FindTransactions(context.Background(), core.TransactionQuery{
		Range: core.MustParseMonth("2022-03").Range(),
		Page:  core.Page{Number: 1, PerPage: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mens Casual Shirt", got[0].Title)
}

func TestCanceledContext(t *testing.T) {
	s := New(storagetest.Fixture()...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.SumPrice(ctx, core.MustParseMonth("2022-03").Range())
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
