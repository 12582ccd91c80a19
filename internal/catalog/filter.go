package catalog

import "strings"

// Filter returns the entries matching query, in source order. An empty query
// returns entries as-is. Every call is a full scan.
func Filter(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}
	lower := strings.ToLower(query)
	matches := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matchEntry(e, query, lower) {
			matches = append(matches, e)
		}
	}
	return matches
}

// Matches reports whether a single entry passes Filter for query.
func Matches(e Entry, query string) bool {
	if query == "" {
		return true
	}
	return matchEntry(e, query, strings.ToLower(query))
}

// Name comparison is case-insensitive; the number is compared against the
// query as typed.
func matchEntry(e Entry, query, lower string) bool {
	return strings.Contains(strings.ToLower(e.Name), lower) ||
		strings.Contains(Number(e.ID), query)
}
