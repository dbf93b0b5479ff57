package tui

import (
	"sort"
	"strings"
)

// SortState tracks which column a list is ordered by and in which
// direction. Selecting the active column again flips the direction;
// selecting another column starts ascending.
type SortState struct {
	Column    string
	Ascending bool
}

// Toggle applies a column selection to the state.
func (s *SortState) Toggle(column string) {
	if s.Column == column {
		s.Ascending = !s.Ascending
		return
	}
	s.Column = column
	s.Ascending = true
}

// Indicator returns the arrow shown next to the active column header.
func (s *SortState) Indicator(column string) string {
	if s.Column != column {
		return ""
	}
	if s.Ascending {
		return " ▲"
	}
	return " ▼"
}

// sortRows orders rows with the given less function, reversed for a
// descending sort. The sort is stable so equal keys keep their order.
func sortRows[T any](rows []T, ascending bool, less func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}

// filterRows keeps the rows whose search text contains the query,
// case-insensitive. An empty query keeps everything.
func filterRows[T any](rows []T, query string, text func(T) string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	var out []T
	for _, row := range rows {
		if strings.Contains(strings.ToLower(text(row)), q) {
			out = append(out, row)
		}
	}
	return out
}
