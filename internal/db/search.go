package db

import "github.com/casevault/semsearch/internal/domain/search"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filter       search.Filter
	Vector       []float32
	K            int
	ReturnFields []string
}

// SortedQuery is the input for a filtered, field-sorted listing.
type SortedQuery struct {
	IndexName    string
	Filter       search.Filter
	SortBy       string
	SortAsc      bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single hit from a search. For KNN queries, Score is the
// cosine similarity (1 - distance).
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
