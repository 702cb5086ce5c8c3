// Package core holds the transaction model and the pure rules that turn
// request parameters into store predicates.
//
// This file implements the month filter. A month specifier "YYYY-MM" maps to
// the inclusive range [YYYY-MM-01, YYYY-MM-31], where the upper bound is the
// specifier with "-31" appended. Day 31 is normalised with calendar roll-over,
// so "2022-02" ends at 2022-03-03T00:00:00Z and "2022-04" at 2022-05-01.
package core

import (
	"fmt"
	"strconv"
	"time"
)

// nominalLastDay is appended to every month specifier to form the upper bound.
const nominalLastDay = 31

// Month is a validated calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" specifier. It returns ok=false for the empty
// string and for anything that is not four digits, a dash and a month 01-12.
func ParseMonth(s string) (Month, bool) {
	if len(s) != 7 || s[4] != '-' {
		return Month{}, false
	}
	for i, r := range s {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return Month{}, false
		}
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return Month{}, false
	}
	m, err := strconv.Atoi(s[5:])
	if err != nil || m < 1 || m > 12 {
		return Month{}, false
	}
	return Month{Year: year, Month: time.Month(m)}, true
}

// MustParseMonth is ParseMonth for literals; it panics on a bad specifier.
func MustParseMonth(s string) Month {
	m, ok := ParseMonth(s)
	if !ok {
		panic(fmt.Sprintf("core: bad month %q", s))
	}
	return m
}

// String renders the month back as "YYYY-MM".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Range returns the inclusive dateOfSale range selected by the month.
func (m Month) Range() DateRange {
	return DateRange{
		From: time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(m.Year, m.Month, nominalLastDay, 0, 0, 0, 0, time.UTC),
	}
}
