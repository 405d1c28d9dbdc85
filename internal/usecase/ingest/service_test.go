package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/casevault/semsearch/internal/domain"
	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
)

type mockRepo struct {
	insertFunc func(ctx context.Context, c domchunk.Chunk) (domchunk.Chunk, error)
}

func (m *mockRepo) Insert(ctx context.Context, c domchunk.Chunk) (domchunk.Chunk, error) {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, c)
	}
	return c.WithIdentity("chunk-1", time.Now().UTC()), nil
}

type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func validInput() Input {
	return Input{
		DocumentID: "d1",
		CaseID:     "case-7",
		OwnerScope: "org-1",
		Content:    "the first chunk",
		ChunkIndex: 0,
	}
}

func TestIngest_VectorizesWhenEmbeddingAbsent(t *testing.T) {
	var embedded string
	emb := &mockEmbedder{
		embedFunc: func(_ context.Context, text string) ([]float32, error) {
			embedded = text
			return []float32{0.1, 0.2}, nil
		},
	}
	svc := New(&mockRepo{}, emb, "test-model", 2)

	stored, err := svc.Ingest(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if embedded != "the first chunk" {
		t.Fatalf("expected content to be vectorized, got %q", embedded)
	}
	if stored.ID() != "chunk-1" {
		t.Fatalf("expected stored identity, got %q", stored.ID())
	}
	if stored.Model() != "test-model" || stored.Dimension() != 2 {
		t.Fatalf("unexpected model binding %s/%d", stored.Model(), stored.Dimension())
	}
}

func TestIngest_UsesProvidedEmbedding(t *testing.T) {
	emb := &mockEmbedder{
		embedFunc: func(context.Context, string) ([]float32, error) {
			t.Fatal("embedder must not be called when embedding is provided")
			return nil, nil
		},
	}
	svc := New(&mockRepo{}, emb, "test-model", 2)

	in := validInput()
	in.Embedding = []float32{1, 0}
	if _, err := svc.Ingest(context.Background(), in); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
}

func TestIngest_DimensionMismatch(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{}, "test-model", 3)

	in := validInput()
	in.Embedding = []float32{1, 0}
	_, err := svc.Ingest(context.Background(), in)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestIngest_EmbedderFailure(t *testing.T) {
	emb := &mockEmbedder{
		embedFunc: func(context.Context, string) ([]float32, error) {
			return nil, domain.ErrEmbeddingProvider
		},
	}
	svc := New(&mockRepo{}, emb, "test-model", 2)

	_, err := svc.Ingest(context.Background(), validInput())
	if !errors.Is(err, domain.ErrEmbeddingProvider) {
		t.Fatalf("expected ErrEmbeddingProvider, got %v", err)
	}
}

func TestIngest_DuplicatePropagates(t *testing.T) {
	repo := &mockRepo{
		insertFunc: func(context.Context, domchunk.Chunk) (domchunk.Chunk, error) {
			return domchunk.Chunk{}, domain.ErrDuplicateChunk
		},
	}
	svc := New(repo, &mockEmbedder{}, "test-model", 2)

	_, err := svc.Ingest(context.Background(), validInput())
	if !errors.Is(err, domain.ErrDuplicateChunk) {
		t.Fatalf("expected ErrDuplicateChunk, got %v", err)
	}
}
