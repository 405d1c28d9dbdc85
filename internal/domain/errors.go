package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed or empty query (caller error).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrDimensionMismatch signals a vector length that disagrees with the declared dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrDuplicateChunk signals an insert for an already-stored (document, chunkIndex) pair.
	ErrDuplicateChunk = errors.New("chunk already exists")
	// ErrNoEmbeddingForDocument signals a similar-documents query for a document with no stored chunks.
	ErrNoEmbeddingForDocument = errors.New("no embedding for document")
	// ErrStoreUnavailable signals a transient storage failure; the caller may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEmbeddingProvider signals an embedding provider failure (serving layer only).
	ErrEmbeddingProvider = errors.New("embedding provider error")
)
