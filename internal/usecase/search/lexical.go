package search

import "strings"

// LexicalMatch reports whether content contains the query as a
// case-insensitive substring. Whitespace is not normalized and empty queries
// never match.
func LexicalMatch(content, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(content), strings.ToLower(query))
}
