package search

import (
	"context"
	"fmt"

	"github.com/casevault/semsearch/internal/domain"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// Service runs vector similarity search over stored chunks.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search executes a similarity search with the caller's owner scope enforced
// on every query. Results come back similarity descending; a cutoff <= 0
// returns every neighbor the store produced.
func (s *Service) Search(
	ctx context.Context, vector []float32, opts domsearch.Options,
) ([]domsearch.Result, error) {
	if err := validateQuery(vector, opts); err != nil {
		return nil, err
	}

	results, err := s.repo.QueryBySimilarity(
		ctx, vector, opts.Filter(), opts.Limit(), opts.MinSimilarity(),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}

func validateQuery(vector []float32, opts domsearch.Options) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: query vector is empty", domain.ErrInvalidQuery)
	}
	if opts.Filter().OwnerScope() == "" {
		return fmt.Errorf("%w: owner scope is required", domain.ErrInvalidQuery)
	}
	return nil
}
