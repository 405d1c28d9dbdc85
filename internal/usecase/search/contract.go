package search

import (
	"context"

	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	QueryBySimilarity(
		ctx context.Context, vector []float32, f domsearch.Filter,
		limit int, minSimilarity float64,
	) ([]domsearch.Result, error)

	FindByDocument(ctx context.Context, documentID string, limit int) ([]domchunk.Chunk, error)
}
