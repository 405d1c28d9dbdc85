package search

import (
	"context"
	"errors"
	"testing"

	"github.com/casevault/semsearch/internal/domain"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

func TestSearch_DelegatesWithDefaults(t *testing.T) {
	var gotLimit int
	var gotMin float64
	var gotScope string
	repo := &mockRepo{
		queryFunc: func(_ context.Context, vector []float32, f domsearch.Filter,
			limit int, minSimilarity float64) ([]domsearch.Result, error) {
			gotLimit, gotMin, gotScope = limit, minSimilarity, f.OwnerScope()
			return []domsearch.Result{result("c1", "d1", 0.95)}, nil
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	results, err := svc.Search(context.Background(), []float32{1, 0}, opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ChunkID() != "c1" {
		t.Fatalf("unexpected results %v", results)
	}
	if gotLimit != domsearch.DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", domsearch.DefaultLimit, gotLimit)
	}
	if gotMin != domsearch.DefaultMinSimilarity {
		t.Fatalf("expected default min similarity %v, got %v", domsearch.DefaultMinSimilarity, gotMin)
	}
	if gotScope != "org-1" {
		t.Fatalf("expected owner scope forwarded, got %q", gotScope)
	}
}

func TestSearch_EmptyVector(t *testing.T) {
	svc := New(&mockRepo{})

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	_, err := svc.Search(context.Background(), nil, opts)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_MissingOwnerScope(t *testing.T) {
	svc := New(&mockRepo{})

	opts := domsearch.NewOptions(domsearch.NewFilter("", "", nil))
	_, err := svc.Search(context.Background(), []float32{1, 0}, opts)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSearch_PropagatesStoreFailure(t *testing.T) {
	repo := &mockRepo{
		queryFunc: func(context.Context, []float32, domsearch.Filter, int, float64) ([]domsearch.Result, error) {
			return nil, domain.ErrStoreUnavailable
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	_, err := svc.Search(context.Background(), []float32{1, 0}, opts)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSearch_NoMatchesIsNotAnError(t *testing.T) {
	svc := New(&mockRepo{})

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	results, err := svc.Search(context.Background(), []float32{1, 0}, opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}
