package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

// Page is a normalised pagination window.
type Page struct {
	Number  int
	PerPage int
}

// ParsePage reads page and perPage query values. Absent, non-numeric and
// non-positive values fall back to the defaults. perPage has no upper bound;
// callers that want one apply it with Capped.
func ParsePage(page, perPage string) Page {
	p := Page{Number: DefaultPage, PerPage: DefaultPerPage}
	if n, ok := positiveInt(page); ok {
		p.Number = n
	}
	if n, ok := positiveInt(perPage); ok {
		p.PerPage = n
	}
	return p
}

// Capped returns p with PerPage limited to max. A non-positive max leaves p
// unchanged.
func (p Page) Capped(max int) Page {
	if max > 0 && p.PerPage > max {
		p.PerPage = max
	}
	return p
}

// Skip is the number of records preceding the page. It saturates at
// math.MaxInt64 instead of wrapping.
func (p Page) Skip() int64 {
	before, size := int64(p.Number-1), int64(p.PerPage)
	if before <= 0 || size <= 0 {
		return 0
	}
	if before > math.MaxInt64/size {
		return math.MaxInt64
	}
	return before * size
}

// Limit is the maximum number of records on the page.
func (p Page) Limit() int64 {
	return int64(p.PerPage)
}

// positiveInt parses s as a positive integer. Values too large for int
// saturate at math.MaxInt.
func positiveInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
		return math.MaxInt, true
	}
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// TransactionQuery is the store-level form of a list request.
type TransactionQuery struct {
	Range  DateRange
	Search SearchTerm
	Page   Page
}
