package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePage(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		perPage string
		want    Page
	}{
		{"defaults", "", "", Page{Number: 1, PerPage: 10}},
		{"explicit", "3", "25", Page{Number: 3, PerPage: 25}},
		{"whitespace", " 2 ", " 5 ", Page{Number: 2, PerPage: 5}},
		{"non numeric", "abc", "xyz", Page{Number: 1, PerPage: 10}},
		{"zero", "0", "0", Page{Number: 1, PerPage: 10}},
		{"negative", "-1", "-5", Page{Number: 1, PerPage: 10}},
		{"large perPage kept", "1", "1000", Page{Number: 1, PerPage: 1000}},
		{"out of range", "99999999999999999999", "1", Page{Number: math.MaxInt, PerPage: 1}},
		{"negative out of range", "-99999999999999999999", "", Page{Number: 1, PerPage: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.page, tt.perPage))
		})
	}
}

func TestPageCapped(t *testing.T) {
	p := Page{Number: 2, PerPage: 500}
	assert.Equal(t, Page{Number: 2, PerPage: 100}, p.Capped(100))
	assert.Equal(t, p, p.Capped(0))
	assert.Equal(t, Page{Number: 1, PerPage: 5}, Page{Number: 1, PerPage: 5}.Capped(100))
}

func TestPageSkipLimit(t *testing.T) {
	p := Page{Number: 3, PerPage: 10}
	assert.Equal(t, int64(20), p.Skip())
	assert.Equal(t, int64(10), p.Limit())

	first := Page{Number: 1, PerPage: 7}
	assert.Equal(t, int64(0), first.Skip())
}

func TestPageSkipSaturates(t *testing.T) {
	huge := ParsePage("92233720368547760", "100")
	assert.Equal(t, int64(math.MaxInt64), huge.Skip())

	maxed := Page{Number: math.MaxInt, PerPage: math.MaxInt}
	assert.Equal(t, int64(math.MaxInt64), maxed.Skip())

	edge := Page{Number: 2, PerPage: math.MaxInt}
	assert.Equal(t, int64(math.MaxInt), edge.Skip())
}
