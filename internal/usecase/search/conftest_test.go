package search

import (
	"context"
	"testing"

	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

type mockRepo struct {
	queryFunc func(
		ctx context.Context, vector []float32, f domsearch.Filter,
		limit int, minSimilarity float64,
	) ([]domsearch.Result, error)
	findByDocumentFunc func(ctx context.Context, documentID string, limit int) ([]domchunk.Chunk, error)
}

func (m *mockRepo) QueryBySimilarity(
	ctx context.Context, vector []float32, f domsearch.Filter,
	limit int, minSimilarity float64,
) ([]domsearch.Result, error) {
	if m.queryFunc != nil {
		return m.queryFunc(ctx, vector, f, limit, minSimilarity)
	}
	return nil, nil
}

func (m *mockRepo) FindByDocument(ctx context.Context, documentID string, limit int) ([]domchunk.Chunk, error) {
	if m.findByDocumentFunc != nil {
		return m.findByDocumentFunc(ctx, documentID, limit)
	}
	return nil, nil
}

func testChunk(t *testing.T, documentID, ownerScope string, embedding []float32) domchunk.Chunk {
	t.Helper()
	c, err := domchunk.New(documentID, "", ownerScope, "seed content",
		embedding, "test-model", len(embedding), 0, nil)
	if err != nil {
		t.Fatalf("chunk.New: %v", err)
	}
	return c
}

func result(chunkID, documentID string, similarity float64) domsearch.Result {
	return domsearch.NewResult(chunkID, documentID, "content for "+chunkID, nil, similarity)
}

func resultWithContent(chunkID, documentID, content string, similarity float64) domsearch.Result {
	return domsearch.NewResult(chunkID, documentID, content, nil, similarity)
}
