package services

import (
	"context"
	"fmt"

	"txboard/internal/core"
	"txboard/internal/ports"
)

// ListParams are the raw transaction list query values.
type ListParams struct {
	Page    string
	PerPage string
	Search  string
	Month   string
}

// TransactionQueryService serves the paginated, searchable month listing.
type TransactionQueryService struct {
	finder     ports.TransactionFinder
	maxPerPage int
}

func NewTransactionQueryService(finder ports.TransactionFinder) *TransactionQueryService {
	return &TransactionQueryService{finder: finder}
}

// WithMaxPerPage limits perPage to n. Zero, the default, leaves it unbounded.
func (s *TransactionQueryService) WithMaxPerPage(n int) *TransactionQueryService {
	s.maxPerPage = n
	return s
}

// List returns one page of in-month records matching the search term, in
// store order. An absent or malformed month yields an empty page.
func (s *TransactionQueryService) List(ctx context.Context, p ListParams) ([]core.Transaction, error) {
	month, ok := core.ParseMonth(p.Month)
	if !ok {
		return []core.Transaction{}, nil
	}

	q := core.TransactionQuery{
		Range:  month.Range(),
		Search: core.SearchTerm(p.Search),
		Page:   core.ParsePage(p.Page, p.PerPage).Capped(s.maxPerPage),
	}
	txs, err := s.finder.FindTransactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("find transactions (month=%s, page=%d): %w", month, q.Page.Number, err)
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs, nil
}
