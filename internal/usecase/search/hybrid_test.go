package search

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/casevault/semsearch/internal/domain"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHybridSearch_BlendsScores(t *testing.T) {
	repo := &mockRepo{
		queryFunc: func(_ context.Context, _ []float32, _ domsearch.Filter,
			limit int, minSimilarity float64) ([]domsearch.Result, error) {
			if minSimilarity != 0 {
				t.Fatalf("expected disabled cutoff for candidate retrieval, got %v", minSimilarity)
			}
			if limit != domsearch.DefaultLimit*domsearch.HybridCandidateMultiplier {
				t.Fatalf("expected oversampled limit, got %d", limit)
			}
			return []domsearch.Result{
				// Lexical match with modest similarity.
				resultWithContent("c1", "d1", "the Patent Dispute settlement", 0.5),
				// Strong similarity, no lexical match.
				resultWithContent("c2", "d2", "unrelated wording", 0.9),
				// Below threshold and no lexical match: dropped.
				resultWithContent("c3", "d3", "also unrelated", 0.55),
			}, nil
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	results, err := svc.HybridSearch(context.Background(), []float32{1, 0}, "patent dispute", opts)
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %v", len(results), results)
	}

	// c1: 0.5*0.7 + 0.3 = 0.65; c2: 0.9*0.7 = 0.63.
	if results[0].ChunkID() != "c1" || !almostEqual(results[0].Similarity(), 0.65) {
		t.Fatalf("unexpected first result %s score %v", results[0].ChunkID(), results[0].Similarity())
	}
	if results[1].ChunkID() != "c2" || !almostEqual(results[1].Similarity(), 0.63) {
		t.Fatalf("unexpected second result %s score %v", results[1].ChunkID(), results[1].Similarity())
	}
}

func TestHybridSearch_ExactThresholdExcluded(t *testing.T) {
	repo := &mockRepo{
		queryFunc: func(context.Context, []float32, domsearch.Filter, int, float64) ([]domsearch.Result, error) {
			return []domsearch.Result{
				resultWithContent("c1", "d1", "no overlap here", domsearch.HybridMinSimilarity),
			}, nil
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	results, err := svc.HybridSearch(context.Background(), []float32{1, 0}, "query", opts)
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("similarity exactly at the threshold must be excluded, got %v", results)
	}
}

func TestHybridSearch_LexicalRescuesBelowThreshold(t *testing.T) {
	repo := &mockRepo{
		queryFunc: func(context.Context, []float32, domsearch.Filter, int, float64) ([]domsearch.Result, error) {
			return []domsearch.Result{
				resultWithContent("c1", "d1", "mentions the QUERY verbatim", 0.1),
			}, nil
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	results, err := svc.HybridSearch(context.Background(), []float32{1, 0}, "query", opts)
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected lexical match to survive, got %v", results)
	}
	if !almostEqual(results[0].Similarity(), 0.1*domsearch.HybridVectorWeight+domsearch.HybridLexicalWeight) {
		t.Fatalf("unexpected blended score %v", results[0].Similarity())
	}
}

func TestHybridSearch_CapsAtLimit(t *testing.T) {
	repo := &mockRepo{
		queryFunc: func(context.Context, []float32, domsearch.Filter, int, float64) ([]domsearch.Result, error) {
			return []domsearch.Result{
				resultWithContent("c1", "d1", "x", 0.95),
				resultWithContent("c2", "d2", "x", 0.9),
				resultWithContent("c3", "d3", "x", 0.85),
			}, nil
		},
	}
	svc := New(repo)

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil)).WithLimit(2)
	results, err := svc.HybridSearch(context.Background(), []float32{1, 0}, "query", opts)
	if err != nil {
		t.Fatalf("HybridSearch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ChunkID() != "c1" || results[1].ChunkID() != "c2" {
		t.Fatalf("unexpected order %v", results)
	}
}

func TestHybridSearch_EmptyQueryText(t *testing.T) {
	svc := New(&mockRepo{})

	opts := domsearch.NewOptions(domsearch.NewFilter("org-1", "", nil))
	_, err := svc.HybridSearch(context.Background(), []float32{1, 0}, "", opts)
	if !errors.Is(err, domain.ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery, got %v", err)
	}
}
