package semsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/casevault/semsearch/internal/db/redis"
	"github.com/casevault/semsearch/internal/domain"
	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	domlog "github.com/casevault/semsearch/internal/domain/querylog"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
	chunkrepo "github.com/casevault/semsearch/internal/repository/chunk"
	querylogrepo "github.com/casevault/semsearch/internal/repository/querylog"
	analyticsuc "github.com/casevault/semsearch/internal/usecase/analytics"
	healthuc "github.com/casevault/semsearch/internal/usecase/health"
	ingestuc "github.com/casevault/semsearch/internal/usecase/ingest"
	searchuc "github.com/casevault/semsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second

	defaultModel             = "text-embedding-3-small"
	defaultDimension         = 1536
	defaultKeyPrefix         = "semsearch:"
	defaultAnalyticsPoolSize = 8
)

// Internal interfaces so tests can substitute the wired services.
type searchUseCase interface {
	Search(ctx context.Context, vector []float32, opts domsearch.Options) ([]domsearch.Result, error)
	HybridSearch(ctx context.Context, vector []float32, queryText string, opts domsearch.Options) ([]domsearch.Result, error)
	FindSimilar(ctx context.Context, documentID, ownerScope string, limit int) ([]domsearch.Result, error)
}

type ingestUseCase interface {
	Ingest(ctx context.Context, in ingestuc.Input) (domchunk.Chunk, error)
}

type analyticsUseCase interface {
	Log(e domlog.Entry)
	GetAnalytics(ctx context.Context, ownerScope string, from, to time.Time, recentLimit int) (domlog.Report, error)
	Close()
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the semsearch SDK entry point.
type Client struct {
	store        *dbRedis.Store
	searchSvc    searchUseCase
	ingestSvc    ingestUseCase
	analyticsSvc analyticsUseCase
	healthSvc    healthUseCase
	embedder     Embedder
	logger       *zap.Logger
}

// New creates a semsearch Client and connects to the database. The provided
// context covers the initial readiness check and index creation.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:         defaultKeyPrefix,
		model:             defaultModel,
		dimension:         defaultDimension,
		analyticsPoolSize: defaultAnalyticsPoolSize,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("semsearch: database address required (use WithRedis)")
	}
	if cfg.dimension <= 0 {
		return nil, errors.New("semsearch: embedding dimension must be positive")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("semsearch: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("semsearch: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store *dbRedis.Store, cfg *clientConfig) (*Client, error) {
	chunkRepo := chunkrepo.New(store, cfg.keyPrefix, cfg.model, cfg.dimension)
	if cfg.hnswM > 0 || cfg.hnswEFConstruct > 0 {
		chunkRepo = chunkRepo.WithHNSW(chunkrepo.HNSWConfig{
			M:           cfg.hnswM,
			EFConstruct: cfg.hnswEFConstruct,
		})
	}
	if err := chunkRepo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("semsearch: ensure index: %w", err)
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logRepo := querylogrepo.New(store, cfg.keyPrefix, cfg.storeQueryEmbeddings)
	analyticsSvc, err := analyticsuc.New(logRepo, logger, nopRecorder{}, cfg.analyticsPoolSize)
	if err != nil {
		return nil, fmt.Errorf("semsearch: create analytics service: %w", err)
	}

	var embChecker healthuc.EmbeddingChecker
	if hc, ok := cfg.embedder.(healthuc.EmbeddingChecker); ok {
		embChecker = hc
	}

	var ingestEmb ingestuc.Embedder
	if cfg.embedder != nil {
		ingestEmb = cfg.embedder
	} else {
		ingestEmb = noEmbedder{}
	}

	return &Client{
		store:        store,
		searchSvc:    searchuc.New(chunkRepo),
		ingestSvc:    ingestuc.New(chunkRepo, ingestEmb, cfg.model, cfg.dimension),
		analyticsSvc: analyticsSvc,
		healthSvc:    healthuc.New(store, embChecker),
		embedder:     cfg.embedder,
		logger:       logger,
	}, nil
}

// Close releases the analytics worker pool and the database connection.
func (c *Client) Close() {
	if c.analyticsSvc != nil {
		c.analyticsSvc.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest stores one document chunk, vectorizing its content when no
// embedding is supplied.
func (c *Client) Ingest(ctx context.Context, in ChunkInput) (Chunk, error) {
	stored, err := c.ingestSvc.Ingest(ctx, ingestuc.Input{
		DocumentID: in.DocumentID,
		CaseID:     in.CaseID,
		OwnerScope: in.OwnerScope,
		Content:    in.Content,
		ChunkIndex: in.ChunkIndex,
		Metadata:   in.Metadata,
		Embedding:  in.Embedding,
	})
	if err != nil {
		return Chunk{}, err
	}
	return toChunk(stored), nil
}

// Search runs a pure vector similarity search. The query is logged
// asynchronously on success.
func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	vector, err := c.resolveVector(ctx, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := c.searchSvc.Search(ctx, vector, buildOptions(q))
	if err != nil {
		return nil, err
	}
	c.logQuery(q, domlog.TypeSemantic, vector, results, time.Since(start))
	return toResults(results), nil
}

// HybridSearch blends vector similarity with lexical matching over the query
// text. Text is required. The query is logged asynchronously on success.
func (c *Client) HybridSearch(ctx context.Context, q Query) ([]Result, error) {
	if q.Text == "" {
		return nil, fmt.Errorf("%w: query text is required for hybrid search", domain.ErrInvalidQuery)
	}
	vector, err := c.resolveVector(ctx, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := c.searchSvc.HybridSearch(ctx, vector, q.Text, buildOptions(q))
	if err != nil {
		return nil, err
	}
	c.logQuery(q, domlog.TypeHybrid, vector, results, time.Since(start))
	return toResults(results), nil
}

// FindSimilar finds documents related to an existing one, seeded by the
// embedding of its first chunk. The source document is excluded. A limit of
// zero uses the default of 5.
func (c *Client) FindSimilar(ctx context.Context, documentID, ownerScope string, limit int) ([]Result, error) {
	results, err := c.searchSvc.FindSimilar(ctx, documentID, ownerScope, limit)
	if err != nil {
		return nil, err
	}
	return toResults(results), nil
}

// Analytics aggregates logged queries for one owner scope. A zero `to` means
// now; recentLimit of zero uses the default of 10.
func (c *Client) Analytics(ctx context.Context, ownerScope string, from, to time.Time, recentLimit int) (AnalyticsReport, error) {
	report, err := c.analyticsSvc.GetAnalytics(ctx, ownerScope, from, to, recentLimit)
	if err != nil {
		return AnalyticsReport{}, err
	}
	return toReport(report), nil
}

// Health checks the health of the store and, when the configured embedder
// supports it, the embedding provider.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

func (c *Client) resolveVector(ctx context.Context, q Query) ([]float32, error) {
	if len(q.Vector) > 0 {
		return q.Vector, nil
	}
	if q.Text == "" {
		return nil, fmt.Errorf("%w: either query text or a query vector is required", domain.ErrInvalidQuery)
	}
	if c.embedder == nil {
		return nil, fmt.Errorf("%w: embedder not configured (use WithEmbedder)", domain.ErrInvalidQuery)
	}
	vector, err := c.embedder.Embed(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return vector, nil
}

func (c *Client) logQuery(q Query, typ domlog.Type, vector []float32, results []domsearch.Result, elapsed time.Duration) {
	entry, err := domlog.New(
		q.Text, typ, vector,
		len(results), resultDocumentIDs(results),
		q.UserID, q.OwnerScope, elapsed.Milliseconds(),
	)
	if err != nil {
		c.logger.Warn("query log entry rejected", zap.Error(err))
		return
	}
	c.analyticsSvc.Log(entry)
}

func buildOptions(q Query) domsearch.Options {
	f := domsearch.NewFilter(q.OwnerScope, q.CaseID, q.DocumentIDs)
	opts := domsearch.NewOptions(f)
	if q.Limit > 0 {
		opts = opts.WithLimit(q.Limit)
	}
	if q.MinSimilarity != nil {
		opts = opts.WithMinSimilarity(*q.MinSimilarity)
	}
	return opts
}

func resultDocumentIDs(results []domsearch.Result) []string {
	seen := make(map[string]struct{}, len(results))
	ids := make([]string, 0, len(results))
	for i := range results {
		id := results[i].DocumentID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// nopRecorder discards query log outcome counts. The SDK does not register
// Prometheus metrics on the default registry.
type nopRecorder struct{}

func (nopRecorder) QueryLogged()     {}
func (nopRecorder) QueryLogFailed()  {}
func (nopRecorder) QueryLogDropped() {}

// noEmbedder rejects vectorization when no embedder is configured. Chunks
// with precomputed embeddings still ingest.
type noEmbedder struct{}

func (noEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("semsearch: embedder not configured (use WithEmbedder)")
}
