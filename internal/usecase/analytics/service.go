package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/casevault/semsearch/internal/domain"
	domlog "github.com/casevault/semsearch/internal/domain/querylog"
)

const (
	// DefaultRecentLimit bounds how many raw entries a report carries.
	DefaultRecentLimit = 10

	saveTimeout = 5 * time.Second
)

// Service records query log entries off the request path and serves usage
// reports over them.
type Service struct {
	repo   Repository
	pool   *ants.Pool
	logger *zap.Logger
	rec    Recorder
}

// New creates an analytics service with a bounded worker pool for log writes.
func New(repo Repository, logger *zap.Logger, rec Recorder, poolSize int) (*Service, error) {
	pool, err := ants.NewPool(poolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create analytics pool: %w", err)
	}
	return &Service{repo: repo, pool: pool, logger: logger, rec: rec}, nil
}

// Log records one query asynchronously. It never blocks and never returns an
// error: a full pool drops the entry, a failed write is logged and counted,
// and the originating search is unaffected either way.
func (s *Service) Log(e domlog.Entry) {
	err := s.pool.Submit(func() {
		// Detached from the request context: the search has already returned.
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()

		if _, err := s.repo.Save(ctx, e); err != nil {
			s.rec.QueryLogFailed()
			s.logger.Warn("query log write failed",
				zap.String("owner_scope", e.OwnerScope()),
				zap.Error(err))
			return
		}
		s.rec.QueryLogged()
	})
	if err != nil {
		s.rec.QueryLogDropped()
		s.logger.Warn("query log entry dropped",
			zap.String("owner_scope", e.OwnerScope()),
			zap.Error(err))
	}
}

// GetAnalytics aggregates logged queries for one owner scope over a time
// range. A zero `to` means now; a scope with no entries yields an all-zero
// report.
func (s *Service) GetAnalytics(
	ctx context.Context, ownerScope string, from, to time.Time, recentLimit int,
) (domlog.Report, error) {
	if ownerScope == "" {
		return domlog.Report{}, fmt.Errorf("%w: owner scope is required", domain.ErrInvalidQuery)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if !from.IsZero() && from.After(to) {
		return domlog.Report{}, fmt.Errorf("%w: time range is inverted", domain.ErrInvalidQuery)
	}
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	entries, err := s.repo.ListByScope(ctx, ownerScope, from, to)
	if err != nil {
		return domlog.Report{}, fmt.Errorf("get analytics: %w", err)
	}
	return domlog.NewReport(entries, recentLimit), nil
}

// Close releases the worker pool. Queued writes that have not started are
// discarded.
func (s *Service) Close() {
	s.pool.Release()
}
