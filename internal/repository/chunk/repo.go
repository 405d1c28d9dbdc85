package chunk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/semsearch/internal/db"
	dbredis "github.com/casevault/semsearch/internal/db/redis"
	"github.com/casevault/semsearch/internal/domain"
	domchunk "github.com/casevault/semsearch/internal/domain/chunk"
	"github.com/casevault/semsearch/internal/domain/search"
)

// store is the consumer interface for chunk persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchSorted(ctx context.Context, q *db.SortedQuery) (*db.SearchResult, error)
}

// HNSWConfig tunes the vector index build parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo is the embedding store: it owns chunk inserts and scoped retrieval.
type Repo struct {
	store     store
	keyPrefix string
	vectorDim int
	model     string
	hnsw      HNSWConfig
}

// New creates a chunk repository. vectorDim and model declare the single
// embedding model this index accepts.
func New(s store, keyPrefix, model string, vectorDim int) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, model: model, vectorDim: vectorDim}
}

// WithHNSW sets HNSW index build parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the chunk FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	name := r.indexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return storeErr("index exists", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     name,
		Prefixes: []string{r.keyPrefix + "chunk:"},
		Fields: []db.IndexField{
			{Name: dbredis.FieldDocumentID, Type: db.IndexFieldTag},
			{Name: dbredis.FieldOwnerScope, Type: db.IndexFieldTag},
			{Name: dbredis.FieldCaseID, Type: db.IndexFieldTag},
			{Name: dbredis.FieldChunkIndex, Type: db.IndexFieldNumeric},
			{
				Name:              dbredis.FieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return storeErr("create index", err)
	}
	return nil
}

// Insert durably writes a chunk. The (documentID, chunkIndex) pair is the
// uniqueness domain: the key encodes it and an atomic HSETNX on the id field
// is the duplicate gate, so concurrent inserts never silently overwrite.
// A key holding the gate but no vector field is a torn write from an earlier
// failed insert; it is reclaimed, not reported as a duplicate.
func (r *Repo) Insert(ctx context.Context, c domchunk.Chunk) (domchunk.Chunk, error) {
	if c.Model() != r.model {
		return domchunk.Chunk{}, fmt.Errorf(
			"model %q is not indexed here (expected %q): %w",
			c.Model(), r.model, domain.ErrDimensionMismatch,
		)
	}
	if c.Dimension() != r.vectorDim {
		return domchunk.Chunk{}, fmt.Errorf(
			"dimension %d does not match index dimension %d for model %q: %w",
			c.Dimension(), r.vectorDim, r.model, domain.ErrDimensionMismatch,
		)
	}

	key := r.chunkKey(c.DocumentID(), c.ChunkIndex())
	id := uuid.NewString()
	now := time.Now().UTC()

	created, err := r.store.HSetNX(ctx, key, "id", id)
	if err != nil {
		return domchunk.Chunk{}, storeErr("insert chunk", err)
	}
	if !created {
		existing, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return domchunk.Chunk{}, storeErr("insert chunk", err)
		}
		if existing[dbredis.FieldVector] != "" {
			return domchunk.Chunk{}, fmt.Errorf(
				"chunk (%s, %d): %w", c.DocumentID(), c.ChunkIndex(), domain.ErrDuplicateChunk,
			)
		}
		// Gate claimed but no vector field: torn write. Reclaim the slot
		// under its original id.
		if prior := existing["id"]; prior != "" {
			id = prior
		}
	}

	fields, err := chunkFields(&c, now)
	if err != nil {
		return domchunk.Chunk{}, fmt.Errorf("encode chunk: %w", err)
	}

	if err := r.store.HSet(ctx, key, fields); err != nil {
		// Release the gate so a retry can claim the slot again.
		_ = r.store.Del(ctx, key)
		return domchunk.Chunk{}, storeErr("insert chunk", err)
	}

	return c.WithIdentity(id, now), nil
}

// FindByDocument returns a document's chunks ordered by chunkIndex ascending.
// A document with no chunks yields an empty slice, not an error.
func (r *Repo) FindByDocument(ctx context.Context, documentID string, limit int) ([]domchunk.Chunk, error) {
	if limit <= 0 {
		limit = search.MaxLimit
	}

	q := &db.SortedQuery{
		IndexName: r.indexName(),
		Filter:    search.NewFilter("", "", []string{documentID}),
		SortBy:    dbredis.FieldChunkIndex,
		SortAsc:   true,
		Limit:     limit,
	}

	sr, err := r.store.SearchSorted(ctx, q)
	if err != nil {
		return nil, storeErr("find by document", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	chunks := make([]domchunk.Chunk, 0, len(sr.Entries))
	for i := range sr.Entries {
		chunks = append(chunks, parseChunk(&sr.Entries[i]))
	}
	return chunks, nil
}

// QueryBySimilarity runs the core distance query: similarity is
// 1 - cosineDistance, results above the cutoff are ordered by similarity
// descending with ties broken by chunkID ascending, capped at limit. A
// cutoff <= 0 disables the threshold.
func (r *Repo) QueryBySimilarity(
	ctx context.Context, vector []float32, f search.Filter, limit int, minSimilarity float64,
) ([]search.Result, error) {
	if limit <= 0 {
		limit = search.DefaultLimit
	}

	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Filter:       f,
		Vector:       vector,
		K:            limit,
		ReturnFields: []string{"id", dbredis.FieldDocumentID, "content", "metadata"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, storeErr("query by similarity", err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	results := make([]search.Result, 0, len(sr.Entries))
	for i := range sr.Entries {
		entry := &sr.Entries[i]
		if minSimilarity > 0 && entry.Score <= minSimilarity {
			continue
		}
		results = append(results, parseResult(entry))
	}

	// Deterministic total order regardless of backend tie order.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity() != results[j].Similarity() {
			return results[i].Similarity() > results[j].Similarity()
		}
		return results[i].ChunkID() < results[j].ChunkID()
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "chunks:idx"
}

func (r *Repo) chunkKey(documentID string, chunkIndex int) string {
	return fmt.Sprintf("%schunk:%s:%d", r.keyPrefix, documentID, chunkIndex)
}

func chunkFields(c *domchunk.Chunk, createdAt time.Time) (map[string]string, error) {
	fields := map[string]string{
		dbredis.FieldDocumentID: c.DocumentID(),
		dbredis.FieldOwnerScope: c.OwnerScope(),
		dbredis.FieldChunkIndex: strconv.Itoa(c.ChunkIndex()),
		dbredis.FieldVector:     dbredis.VectorToBytes(c.Embedding()),
		"content":               c.Content(),
		"model":                 c.Model(),
		"dimension":             strconv.Itoa(c.Dimension()),
		"created_at":            strconv.FormatInt(createdAt.UnixMilli(), 10),
	}
	if c.CaseID() != "" {
		fields[dbredis.FieldCaseID] = c.CaseID()
	}
	if len(c.Metadata()) > 0 {
		meta, err := json.Marshal(c.Metadata())
		if err != nil {
			return nil, fmt.Errorf("marshal metadata: %w", err)
		}
		fields["metadata"] = string(meta)
	}
	return fields, nil
}

func parseChunk(entry *db.SearchEntry) domchunk.Chunk {
	f := entry.Fields

	dimension, _ := strconv.Atoi(f["dimension"])
	chunkIndex, _ := strconv.Atoi(f[dbredis.FieldChunkIndex])

	var createdAt time.Time
	if ms, err := strconv.ParseInt(f["created_at"], 10, 64); err == nil {
		createdAt = time.UnixMilli(ms).UTC()
	}

	return domchunk.Reconstruct(
		f["id"], f[dbredis.FieldDocumentID], f[dbredis.FieldCaseID],
		f[dbredis.FieldOwnerScope], f["content"],
		dbredis.BytesToVector(f[dbredis.FieldVector]), f["model"],
		dimension, chunkIndex, parseMetadata(f["metadata"]), createdAt,
	)
}

func parseResult(entry *db.SearchEntry) search.Result {
	f := entry.Fields
	return search.NewResult(
		f["id"], f[dbredis.FieldDocumentID], f["content"],
		parseMetadata(f["metadata"]), entry.Score,
	)
}

func parseMetadata(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil
	}
	return m
}

// storeErr wraps infrastructure failures with ErrStoreUnavailable so callers
// can distinguish retriable errors. Cancellation propagates untouched.
func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
