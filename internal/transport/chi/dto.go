package chi

import (
	"time"

	domlog "github.com/casevault/semsearch/internal/domain/querylog"
	domsearch "github.com/casevault/semsearch/internal/domain/search"
)

// Error codes returned to API clients.
const (
	codeBadRequest        = "bad_request"
	codeUnauthorized      = "unauthorized"
	codeInvalidQuery      = "invalid_query"
	codeDimensionMismatch = "dimension_mismatch"
	codeDuplicateChunk    = "duplicate_chunk"
	codeNoEmbedding       = "no_embedding_for_document"
	codeStoreUnavailable  = "store_unavailable"
	codeEmbeddingProvider = "embedding_provider_error"
	codeRequestCancelled  = "cancelled"
	codeDeadlineExceeded  = "deadline_exceeded"
	codeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	OwnerScope    string    `json:"owner_scope"`
	QueryText     string    `json:"query_text,omitempty"`
	QueryVector   []float32 `json:"query_vector,omitempty"`
	CaseID        string    `json:"case_id,omitempty"`
	DocumentIDs   []string  `json:"document_ids,omitempty"`
	Limit         *int      `json:"limit,omitempty"`
	MinSimilarity *float64  `json:"min_similarity,omitempty"`
	UserID        string    `json:"user_id,omitempty"`
}

type searchResultItem struct {
	ChunkID    string            `json:"chunk_id"`
	DocumentID string            `json:"document_id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Similarity float64           `json:"similarity"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type ingestRequest struct {
	DocumentID string            `json:"document_id"`
	CaseID     string            `json:"case_id,omitempty"`
	OwnerScope string            `json:"owner_scope"`
	Content    string            `json:"content"`
	ChunkIndex int               `json:"chunk_index"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Embedding  []float32         `json:"embedding,omitempty"`
}

type chunkResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	CaseID     string    `json:"case_id,omitempty"`
	ChunkIndex int       `json:"chunk_index"`
	CreatedAt  time.Time `json:"created_at"`
}

type queryLogItem struct {
	ID              string    `json:"id"`
	QueryText       string    `json:"query_text,omitempty"`
	SearchType      string    `json:"search_type"`
	ResultCount     int       `json:"result_count"`
	UserID          string    `json:"user_id,omitempty"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
	CreatedAt       time.Time `json:"created_at"`
}

type analyticsResponse struct {
	TotalQueries       int            `json:"total_queries"`
	AvgExecutionTimeMs float64        `json:"avg_execution_time_ms"`
	AvgResultCount     float64        `json:"avg_result_count"`
	RecentQueries      []queryLogItem `json:"recent_queries"`
}

func resultsToItems(results []domsearch.Result) []searchResultItem {
	items := make([]searchResultItem, len(results))
	for i := range results {
		r := &results[i]
		items[i] = searchResultItem{
			ChunkID:    r.ChunkID(),
			DocumentID: r.DocumentID(),
			Content:    r.Content(),
			Metadata:   r.Metadata(),
			Similarity: r.Similarity(),
		}
	}
	return items
}

func reportToResponse(report *domlog.Report) analyticsResponse {
	recent := report.RecentQueries()
	items := make([]queryLogItem, len(recent))
	for i := range recent {
		e := &recent[i]
		items[i] = queryLogItem{
			ID:              e.ID(),
			QueryText:       e.QueryText(),
			SearchType:      string(e.SearchType()),
			ResultCount:     e.ResultCount(),
			UserID:          e.UserID(),
			ExecutionTimeMs: e.ExecutionTimeMs(),
			CreatedAt:       e.CreatedAt(),
		}
	}
	return analyticsResponse{
		TotalQueries:       report.TotalQueries(),
		AvgExecutionTimeMs: report.AvgExecutionTimeMs(),
		AvgResultCount:     report.AvgResultCount(),
		RecentQueries:      items,
	}
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
