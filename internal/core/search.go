package core

import "strings"

// SearchTerm is the free-text filter applied to title and description.
// Price is never matched by a text term.
type SearchTerm string

// IsEmpty reports whether the term matches every record.
func (s SearchTerm) IsEmpty() bool {
	return s == ""
}

// Matches reports whether the record's title or description contains the
// term, ignoring case. The term is a literal, not a pattern.
func (s SearchTerm) Matches(t Transaction) bool {
	if s.IsEmpty() {
		return true
	}
	needle := strings.ToLower(string(s))
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}
