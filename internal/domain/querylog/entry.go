package querylog

import (
	"fmt"
	"time"
)

// Type is the kind of search that produced a log entry.
type Type string

const (
	// TypeSemantic is a pure vector similarity search.
	TypeSemantic Type = "semantic"
	// TypeHybrid is a vector search blended with lexical matching.
	TypeHybrid Type = "hybrid"
)

// Validate checks that the type is a known search type.
func (t Type) Validate() error {
	switch t {
	case TypeSemantic, TypeHybrid:
		return nil
	default:
		return fmt.Errorf("unknown search type %q", string(t))
	}
}

// Entry is an append-only record of one executed search query.
// Created once per query; never mutated or deleted by this subsystem.
type Entry struct {
	id                string
	queryText         string
	searchType        Type
	queryEmbedding    []float32
	resultCount       int
	resultDocumentIDs []string
	userID            string
	ownerScope        string
	executionTimeMs   int64
	createdAt         time.Time
}

// New validates and creates an Entry. The id and createdAt are assigned on
// write.
func New(
	queryText string, searchType Type, queryEmbedding []float32,
	resultCount int, resultDocumentIDs []string,
	userID, ownerScope string, executionTimeMs int64,
) (Entry, error) {
	if err := searchType.Validate(); err != nil {
		return Entry{}, err
	}
	if ownerScope == "" {
		return Entry{}, fmt.Errorf("owner scope is required")
	}
	if resultCount < 0 {
		return Entry{}, fmt.Errorf("result count must be non-negative")
	}
	if executionTimeMs < 0 {
		return Entry{}, fmt.Errorf("execution time must be non-negative")
	}

	return Entry{
		queryText:         queryText,
		searchType:        searchType,
		queryEmbedding:    queryEmbedding,
		resultCount:       resultCount,
		resultDocumentIDs: resultDocumentIDs,
		userID:            userID,
		ownerScope:        ownerScope,
		executionTimeMs:   executionTimeMs,
	}, nil
}

// Reconstruct creates an Entry without validation (storage hydration).
func Reconstruct(
	id, queryText string, searchType Type, queryEmbedding []float32,
	resultCount int, resultDocumentIDs []string,
	userID, ownerScope string, executionTimeMs int64, createdAt time.Time,
) Entry {
	return Entry{
		id: id, queryText: queryText, searchType: searchType,
		queryEmbedding: queryEmbedding, resultCount: resultCount,
		resultDocumentIDs: resultDocumentIDs, userID: userID,
		ownerScope: ownerScope, executionTimeMs: executionTimeMs,
		createdAt: createdAt,
	}
}

// ID returns the entry identifier (empty until written).
func (e *Entry) ID() string { return e.id }

// QueryText returns the raw query text (empty for vector-only queries).
func (e *Entry) QueryText() string { return e.queryText }

// SearchType returns the kind of search executed.
func (e *Entry) SearchType() Type { return e.searchType }

// QueryEmbedding returns the query vector; may be nil depending on the
// retention policy.
func (e *Entry) QueryEmbedding() []float32 { return e.queryEmbedding }

// ResultCount returns the number of results returned to the caller.
func (e *Entry) ResultCount() int { return e.resultCount }

// ResultDocumentIDs returns the distinct documents among the results.
func (e *Entry) ResultDocumentIDs() []string { return e.resultDocumentIDs }

// UserID returns the calling user, when known.
func (e *Entry) UserID() string { return e.userID }

// OwnerScope returns the tenant the query ran under.
func (e *Entry) OwnerScope() string { return e.ownerScope }

// ExecutionTimeMs returns the wall-clock duration of the search.
func (e *Entry) ExecutionTimeMs() int64 { return e.executionTimeMs }

// CreatedAt returns the write timestamp (zero until written).
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

// WithIdentity returns a copy with the store-assigned id and timestamp set.
func (e *Entry) WithIdentity(id string, createdAt time.Time) Entry {
	out := *e
	out.id = id
	out.createdAt = createdAt
	return out
}

// WithoutEmbedding returns a copy with the query vector dropped, for
// retention policies that do not keep embeddings.
func (e *Entry) WithoutEmbedding() Entry {
	out := *e
	out.queryEmbedding = nil
	return out
}
