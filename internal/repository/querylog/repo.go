package querylog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/semsearch/internal/domain"
	domlog "github.com/casevault/semsearch/internal/domain/querylog"
)

// store is the consumer interface for query-log persistence (ISP).
type store interface {
	Set(ctx context.Context, key string, value []byte) error
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRangeByScore(ctx context.Context, key string, min, max float64) ([]string, error)
}

// Repo persists append-only query log entries: one KV record per entry plus a
// per-scope sorted-set index keyed by creation time for range reads.
type Repo struct {
	store           store
	keyPrefix       string
	storeEmbeddings bool
}

// New creates a query-log repository. storeEmbeddings controls whether the
// (large) query vectors are retained alongside entries.
func New(s store, keyPrefix string, storeEmbeddings bool) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, storeEmbeddings: storeEmbeddings}
}

// Save appends one entry. Entries are never mutated or deleted here.
func (r *Repo) Save(ctx context.Context, e domlog.Entry) (domlog.Entry, error) {
	if !r.storeEmbeddings {
		e = e.WithoutEmbedding()
	}

	stored := e.WithIdentity(uuid.NewString(), time.Now().UTC())

	data, err := json.Marshal(entryToDoc(&stored))
	if err != nil {
		return domlog.Entry{}, fmt.Errorf("marshal entry: %w", err)
	}

	key := r.entryKey(stored.OwnerScope(), stored.ID())
	if err := r.store.Set(ctx, key, data); err != nil {
		return domlog.Entry{}, storeErr("save entry", err)
	}
	if err := r.store.ZAdd(ctx, r.indexKey(stored.OwnerScope()),
		float64(stored.CreatedAt().UnixMilli()), key); err != nil {
		return domlog.Entry{}, storeErr("index entry", err)
	}

	return stored, nil
}

// ListByScope returns entries for one owner scope with from <= createdAt <= to,
// newest first. Corrupt or expired records are skipped.
func (r *Repo) ListByScope(ctx context.Context, ownerScope string, from, to time.Time) ([]domlog.Entry, error) {
	keys, err := r.store.ZRangeByScore(ctx, r.indexKey(ownerScope),
		float64(from.UnixMilli()), float64(to.UnixMilli()))
	if err != nil {
		return nil, storeErr("list entries", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	// ZRANGEBYSCORE is oldest first; reverse for newest first.
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}

	values, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, storeErr("fetch entries", err)
	}

	entries := make([]domlog.Entry, 0, len(values))
	for _, raw := range values {
		if raw == nil {
			continue
		}
		var doc entryDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		entries = append(entries, docToEntry(&doc))
	}
	return entries, nil
}

func (r *Repo) entryKey(ownerScope, id string) string {
	return fmt.Sprintf("%sqlog:%s:%s", r.keyPrefix, ownerScope, id)
}

func (r *Repo) indexKey(ownerScope string) string {
	return fmt.Sprintf("%sqlog:%s:index", r.keyPrefix, ownerScope)
}

// entryDoc is the persisted JSON shape of a log entry.
type entryDoc struct {
	ID                string    `json:"id"`
	QueryText         string    `json:"query_text,omitempty"`
	SearchType        string    `json:"search_type"`
	QueryEmbedding    []float32 `json:"query_embedding,omitempty"`
	ResultCount       int       `json:"result_count"`
	ResultDocumentIDs []string  `json:"result_document_ids,omitempty"`
	UserID            string    `json:"user_id,omitempty"`
	OwnerScope        string    `json:"owner_scope"`
	ExecutionTimeMs   int64     `json:"execution_time_ms"`
	CreatedAt         int64     `json:"created_at"`
}

func entryToDoc(e *domlog.Entry) entryDoc {
	return entryDoc{
		ID:                e.ID(),
		QueryText:         e.QueryText(),
		SearchType:        string(e.SearchType()),
		QueryEmbedding:    e.QueryEmbedding(),
		ResultCount:       e.ResultCount(),
		ResultDocumentIDs: e.ResultDocumentIDs(),
		UserID:            e.UserID(),
		OwnerScope:        e.OwnerScope(),
		ExecutionTimeMs:   e.ExecutionTimeMs(),
		CreatedAt:         e.CreatedAt().UnixMilli(),
	}
}

func docToEntry(d *entryDoc) domlog.Entry {
	return domlog.Reconstruct(
		d.ID, d.QueryText, domlog.Type(d.SearchType), d.QueryEmbedding,
		d.ResultCount, d.ResultDocumentIDs, d.UserID, d.OwnerScope,
		d.ExecutionTimeMs, time.UnixMilli(d.CreatedAt).UTC(),
	)
}

func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
