package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/casevault/semsearch/internal/domain"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// HybridSearch blends vector similarity with lexical matching. Candidates are
// oversampled from the store with the cutoff disabled, then kept when they
// either match the query text lexically or clear the relaxed similarity
// threshold. The final score is VectorWeight * similarity plus LexicalWeight
// for lexical matches, ordered descending.
func (s *Service) HybridSearch(
	ctx context.Context, vector []float32, queryText string, opts domsearch.Options,
) ([]domsearch.Result, error) {
	if err := validateQuery(vector, opts); err != nil {
		return nil, err
	}
	if queryText == "" {
		return nil, fmt.Errorf("%w: query text is required for hybrid search", domain.ErrInvalidQuery)
	}

	candidateK := opts.Limit() * domsearch.HybridCandidateMultiplier

	candidates, err := s.repo.QueryBySimilarity(ctx, vector, opts.Filter(), candidateK, 0)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	results := make([]domsearch.Result, 0, len(candidates))
	for _, c := range candidates {
		lexical := LexicalMatch(c.Content(), queryText)
		if !lexical && c.Similarity() <= domsearch.HybridMinSimilarity {
			continue
		}
		score := c.Similarity() * domsearch.HybridVectorWeight
		if lexical {
			score += domsearch.HybridLexicalWeight
		}
		results = append(results, c.WithSimilarity(score))
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity() != results[j].Similarity() {
			return results[i].Similarity() > results[j].Similarity()
		}
		return results[i].ChunkID() < results[j].ChunkID()
	})

	if len(results) > opts.Limit() {
		results = results[:opts.Limit()]
	}
	return results, nil
}
