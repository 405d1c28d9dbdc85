package semsearch

import (
	"time"

	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	domlog "github.com/casevault/semsearch/internal/domain/querylog"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// ChunkInput carries one document chunk for ingestion. Embedding is
// optional; when absent the content is vectorized with the configured
// embedder.
type ChunkInput struct {
	DocumentID string
	CaseID     string
	OwnerScope string
	Content    string
	ChunkIndex int
	Metadata   map[string]string
	Embedding  []float32
}

// Chunk is a stored document chunk.
type Chunk struct {
	ID         string
	DocumentID string
	CaseID     string
	OwnerScope string
	ChunkIndex int
	CreatedAt  time.Time
}

// Query describes one search. OwnerScope is required. Either Text (embedded
// with the configured embedder) or Vector must be set; Vector wins when both
// are present.
type Query struct {
	OwnerScope  string
	CaseID      string
	DocumentIDs []string
	Text        string
	Vector      []float32

	// Limit caps results; zero means the default of 10.
	Limit int
	// MinSimilarity overrides the similarity cutoff. Nil keeps the default;
	// pointing at zero or a negative value disables the cutoff.
	MinSimilarity *float64

	// UserID is attached to the query log entry. Optional.
	UserID string
}

// Result is a single search hit.
type Result struct {
	ChunkID    string
	DocumentID string
	Content    string
	Metadata   map[string]string
	Similarity float64
}

// QueryLogEntry is one recorded search.
type QueryLogEntry struct {
	QueryText       string
	SearchType      string
	ResultCount     int
	ExecutionTimeMs int64
	CreatedAt       time.Time
}

// AnalyticsReport aggregates logged queries for one owner scope.
type AnalyticsReport struct {
	TotalQueries       int
	AvgExecutionTimeMs float64
	AvgResultCount     float64
	RecentQueries      []QueryLogEntry
}

// HealthStatus is the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component name, "ok" or "error"
}

func toResults(in []domsearch.Result) []Result {
	out := make([]Result, len(in))
	for i := range in {
		out[i] = Result{
			ChunkID:    in[i].ChunkID(),
			DocumentID: in[i].DocumentID(),
			Content:    in[i].Content(),
			Metadata:   in[i].Metadata(),
			Similarity: in[i].Similarity(),
		}
	}
	return out
}

func toChunk(c domchunk.Chunk) Chunk {
	return Chunk{
		ID:         c.ID(),
		DocumentID: c.DocumentID(),
		CaseID:     c.CaseID(),
		OwnerScope: c.OwnerScope(),
		ChunkIndex: c.ChunkIndex(),
		CreatedAt:  c.CreatedAt(),
	}
}

func toReport(r domlog.Report) AnalyticsReport {
	recent := make([]QueryLogEntry, 0, len(r.RecentQueries()))
	for _, e := range r.RecentQueries() {
		recent = append(recent, QueryLogEntry{
			QueryText:       e.QueryText(),
			SearchType:      string(e.SearchType()),
			ResultCount:     e.ResultCount(),
			ExecutionTimeMs: e.ExecutionTimeMs(),
			CreatedAt:       e.CreatedAt(),
		})
	}
	return AnalyticsReport{
		TotalQueries:       r.TotalQueries(),
		AvgExecutionTimeMs: r.AvgExecutionTimeMs(),
		AvgResultCount:     r.AvgResultCount(),
		RecentQueries:      recent,
	}
}
