package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/casevault/semsearch/internal/domain"
	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	domlog "github.com/casevault/semsearch/internal/domain/querylog"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
	"github.com/casevault/semsearch/internal/metrics"
	healthuc "github.com/casevault/semsearch/internal/usecase/health"
	ingestuc "github.com/casevault/semsearch/internal/usecase/ingest"
)

// SearchService runs similarity queries.
type SearchService interface {
	Search(ctx context.Context, vector []float32, opts domsearch.Options) ([]domsearch.Result, error)
	HybridSearch(ctx context.Context, vector []float32, queryText string, opts domsearch.Options) ([]domsearch.Result, error)
	FindSimilar(ctx context.Context, documentID, ownerScope string, limit int) ([]domsearch.Result, error)
}

// IngestService stores chunks.
type IngestService interface {
	Ingest(ctx context.Context, in ingestuc.Input) (domchunk.Chunk, error)
}

// AnalyticsService records and reports query history.
type AnalyticsService interface {
	Log(e domlog.Entry)
	GetAnalytics(ctx context.Context, ownerScope string, from, to time.Time, recentLimit int) (domlog.Report, error)
}

// HealthService probes component availability.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	search        SearchService
	ingest        IngestService
	analytics     AnalyticsService
	health        HealthService
	embed         Embedder
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	ingest IngestService,
	analytics AnalyticsService,
	health HealthService,
	embed Embedder,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		ingest:    ingest,
		analytics: analytics,
		health:    health,
		embed:     embed,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrDuplicateChunk, http.StatusConflict, codeDuplicateChunk),
		sentinelHandler(domain.ErrNoEmbeddingForDocument, http.StatusNotFound, codeNoEmbedding),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(context.DeadlineExceeded, http.StatusGatewayTimeout, codeDeadlineExceeded),
		sentinelHandler(context.Canceled, statusClientClosedRequest, codeRequestCancelled),
	}
	return s
}

// statusClientClosedRequest mirrors nginx's non-standard 499.
const statusClientClosedRequest = 499

// Routes mounts all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", s.handleMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Post("/search/hybrid", s.handleHybridSearch)
		r.Get("/documents/{documentID}/similar", s.handleSimilar)
		r.Post("/chunks", s.handleIngest)
		r.Get("/analytics", s.handleAnalytics)
	})
}

// handleSearch handles POST /api/v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	vector, ok := s.resolveVector(w, r, &req)
	if !ok {
		return
	}

	opts := searchOptions(&req)

	start := time.Now()
	results, err := s.search.Search(r.Context(), vector, opts)
	elapsed := time.Since(start)

	metrics.RecordSearch(string(domlog.TypeSemantic), elapsed, err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logQuery(&req, domlog.TypeSemantic, vector, results, elapsed)
	writeJSON(w, http.StatusOK, searchResponse{Items: resultsToItems(results), Total: len(results)})
}

// handleHybridSearch handles POST /api/v1/search/hybrid.
func (s *Server) handleHybridSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.QueryText == "" {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "query_text is required for hybrid search")
		return
	}

	vector, ok := s.resolveVector(w, r, &req)
	if !ok {
		return
	}

	opts := searchOptions(&req)

	start := time.Now()
	results, err := s.search.HybridSearch(r.Context(), vector, req.QueryText, opts)
	elapsed := time.Since(start)

	metrics.RecordSearch(string(domlog.TypeHybrid), elapsed, err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.logQuery(&req, domlog.TypeHybrid, vector, results, elapsed)
	writeJSON(w, http.StatusOK, searchResponse{Items: resultsToItems(results), Total: len(results)})
}

// handleSimilar handles GET /api/v1/documents/{documentID}/similar.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentID")
	ownerScope := r.URL.Query().Get("owner_scope")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "limit must be an integer")
			return
		}
		limit = v
	}

	start := time.Now()
	results, err := s.search.FindSimilar(r.Context(), documentID, ownerScope, limit)
	elapsed := time.Since(start)

	metrics.RecordSearch("similar", elapsed, err)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{Items: resultsToItems(results), Total: len(results)})
}

// handleIngest handles POST /api/v1/chunks.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	stored, err := s.ingest.Ingest(r.Context(), ingestuc.Input{
		DocumentID: req.DocumentID,
		CaseID:     req.CaseID,
		OwnerScope: req.OwnerScope,
		Content:    req.Content,
		ChunkIndex: req.ChunkIndex,
		Metadata:   req.Metadata,
		Embedding:  req.Embedding,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, chunkResponse{
		ID:         stored.ID(),
		DocumentID: stored.DocumentID(),
		CaseID:     stored.CaseID(),
		ChunkIndex: stored.ChunkIndex(),
		CreatedAt:  stored.CreatedAt(),
	})
}

// handleAnalytics handles GET /api/v1/analytics.
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, ok := parseTimeParam(w, q.Get("from"), "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, q.Get("to"), "to")
	if !ok {
		return
	}

	recentLimit := 0
	if raw := q.Get("recent_limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "recent_limit must be an integer")
			return
		}
		recentLimit = v
	}

	report, err := s.analytics.GetAnalytics(r.Context(), q.Get("owner_scope"), from, to, recentLimit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reportToResponse(&report))
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleMetrics handles GET /metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// resolveVector takes the request's raw vector or embeds its query text.
func (s *Server) resolveVector(w http.ResponseWriter, r *http.Request, req *searchRequest) ([]float32, bool) {
	if len(req.QueryVector) > 0 {
		return req.QueryVector, true
	}
	if req.QueryText == "" {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "query_vector or query_text is required")
		return nil, false
	}

	vector, err := s.embed.Embed(r.Context(), req.QueryText)
	if err != nil {
		s.handleDomainError(w, err)
		return nil, false
	}
	return vector, true
}

// logQuery records the executed search off the response path.
func (s *Server) logQuery(
	req *searchRequest, typ domlog.Type, vector []float32,
	results []domsearch.Result, elapsed time.Duration,
) {
	entry, err := domlog.New(
		req.QueryText, typ, vector, len(results), resultDocumentIDs(results),
		req.UserID, req.OwnerScope, elapsed.Milliseconds(),
	)
	if err != nil {
		s.logger.Warn("skipping malformed query log entry", zap.Error(err))
		return
	}
	s.analytics.Log(entry)
}

func searchOptions(req *searchRequest) domsearch.Options {
	opts := domsearch.NewOptions(domsearch.NewFilter(req.OwnerScope, req.CaseID, req.DocumentIDs))
	if req.Limit != nil {
		opts = opts.WithLimit(*req.Limit)
	}
	if req.MinSimilarity != nil {
		opts = opts.WithMinSimilarity(*req.MinSimilarity)
	}
	return opts
}

func parseTimeParam(w http.ResponseWriter, raw, name string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, name+" must be RFC 3339")
		return time.Time{}, false
	}
	return t, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrDimensionMismatch,
		domain.ErrDuplicateChunk,
		domain.ErrNoEmbeddingForDocument,
		domain.ErrStoreUnavailable,
		domain.ErrEmbeddingProvider,
		context.DeadlineExceeded,
		context.Canceled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
