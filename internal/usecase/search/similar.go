package search

import (
	"context"
	"fmt"

	"github.com/casevault/semsearch/internal/domain"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// FindSimilar finds documents related to an existing one by querying with the
// embedding of its first chunk. The source document is always excluded from
// the results. A document outside the caller's scope is reported as missing
// rather than revealing its existence.
func (s *Service) FindSimilar(
	ctx context.Context, documentID, ownerScope string, limit int,
) ([]domsearch.Result, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidQuery)
	}
	if ownerScope == "" {
		return nil, fmt.Errorf("%w: owner scope is required", domain.ErrInvalidQuery)
	}
	if limit <= 0 {
		limit = domsearch.DefaultSimilarDocumentLimit
	}

	chunks, err := s.repo.FindByDocument(ctx, documentID, 1)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	if len(chunks) == 0 || chunks[0].OwnerScope() != ownerScope {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNoEmbeddingForDocument)
	}
	seed := chunks[0]

	f := domsearch.NewFilter(ownerScope, "", nil).WithExcludedDocuments(documentID)
	opts := domsearch.NewOptions(f).
		WithLimit(limit).
		WithMinSimilarity(domsearch.SimilarDocumentMinSimilarity)

	results, err := s.repo.QueryBySimilarity(
		ctx, seed.Embedding(), opts.Filter(), opts.Limit(), opts.MinSimilarity(),
	)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}

	// Self matches are dropped even if the store filter missed them.
	filtered := results[:0]
	for _, r := range results {
		if r.DocumentID() == documentID {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered, nil
}
