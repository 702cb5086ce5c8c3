package http

import (
	"net/url"
	"strings"

	"txboard/internal/services"
)

// Query parameter names.
const (
	paramMonth   = "month"
	paramSearch  = "search"
	paramPage    = "page"
	paramPerPage = "perPage"
)

// ParseListParams extracts the transaction list parameters. Values are passed
// through verbatim; normalisation happens in the query service.
func ParseListParams(query url.Values) services.ListParams {
	return services.ListParams{
		Page:    query.Get(paramPage),
		PerPage: query.Get(paramPerPage),
		Search:  sanitizeInput(query.Get(paramSearch)),
		Month:   query.Get(paramMonth),
	}
}

// ParseMonthParam extracts the month specifier.
func ParseMonthParam(query url.Values) string {
	return query.Get(paramMonth)
}

// sanitizeInput drops control characters other than tab, LF and CR. It does
// not trim: surrounding spaces are part of the search term.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
