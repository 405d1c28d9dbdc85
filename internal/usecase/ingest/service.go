package ingest

import (
	"context"
	"fmt"

	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
)

// Service handles chunk ingestion with automatic vectorization.
type Service struct {
	repo      Repository
	embed     Embedder
	model     string
	dimension int
}

// New creates an ingestion service bound to one embedding model.
func New(repo Repository, embed Embedder, model string, dimension int) *Service {
	return &Service{repo: repo, embed: embed, model: model, dimension: dimension}
}

// Input carries one chunk to ingest. Embedding is optional; when absent the
// content is vectorized with the configured model.
type Input struct {
	DocumentID string
	CaseID     string
	OwnerScope string
	Content    string
	ChunkIndex int
	Metadata   map[string]string
	Embedding  []float32
}

// Ingest validates, vectorizes if needed, and stores one chunk. Re-ingesting
// an existing (documentID, chunkIndex) pair fails with ErrDuplicateChunk.
func (s *Service) Ingest(ctx context.Context, in Input) (domchunk.Chunk, error) {
	vector := in.Embedding
	if len(vector) == 0 {
		var err error
		vector, err = s.embed.Embed(ctx, in.Content)
		if err != nil {
			return domchunk.Chunk{}, fmt.Errorf("vectorize chunk: %w", err)
		}
	}

	c, err := domchunk.New(
		in.DocumentID, in.CaseID, in.OwnerScope, in.Content,
		vector, s.model, s.dimension, in.ChunkIndex, in.Metadata,
	)
	if err != nil {
		return domchunk.Chunk{}, err
	}

	stored, err := s.repo.Insert(ctx, c)
	if err != nil {
		return domchunk.Chunk{}, fmt.Errorf("insert chunk: %w", err)
	}
	return stored, nil
}
