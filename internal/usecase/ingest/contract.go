package ingest

import (
	"context"

	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
)

// Repository defines the storage contract for chunk ingestion.
type Repository interface {
	Insert(ctx context.Context, c domchunk.Chunk) (domchunk.Chunk, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
