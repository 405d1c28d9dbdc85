package semsearch

import "github.com/casevault/semsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrDimensionMismatch      = domain.ErrDimensionMismatch
	ErrDuplicateChunk         = domain.ErrDuplicateChunk
	ErrNoEmbeddingForDocument = domain.ErrNoEmbeddingForDocument
	ErrStoreUnavailable       = domain.ErrStoreUnavailable
	ErrEmbeddingProvider      = domain.ErrEmbeddingProvider
)
