package chunk

import (
	"context"
	"strconv"
	"testing"

	"github.com/casevault/semsearch/internal/db"
	dbredis "github.com/casevault/semsearch/internal/db/redis"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hsetNXFn       func(ctx context.Context, key, field, value string) (bool, error)
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	delFn          func(ctx context.Context, key string) error
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
	searchKNNFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	searchSortedFn func(ctx context.Context, q *db.SortedQuery) (*db.SearchResult, error)

	hsetKeys   []string
	hsetFields []map[string]string
	delKeys    []string
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	m.hsetKeys = append(m.hsetKeys, key)
	m.hsetFields = append(m.hsetFields, fields)
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetNX(ctx context.Context, key, field, value string) (bool, error) {
	if m.hsetNXFn != nil {
		return m.hsetNXFn(ctx, key, field, value)
	}
	return true, nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	m.delKeys = append(m.delKeys, key)
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchSorted(ctx context.Context, q *db.SortedQuery) (*db.SearchResult, error) {
	if m.searchSortedFn != nil {
		return m.searchSortedFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "semsearch:", "test-model", 2), ms
}

// knnEntry builds a KNN hit the way the db layer hands them to the repo.
func knnEntry(chunkID, documentID string, similarity float64) db.SearchEntry {
	return db.SearchEntry{
		Key:   "semsearch:chunk:" + documentID + ":0",
		Score: similarity,
		Fields: map[string]string{
			"id":                  chunkID,
			dbredis.FieldDocumentID: documentID,
			"content":             "content of " + chunkID,
		},
	}
}

// chunkEntry builds a stored chunk hash entry for FindByDocument replies.
func chunkEntry(chunkID, documentID string, chunkIndex int, vector []float32) db.SearchEntry {
	return db.SearchEntry{
		Key: "semsearch:chunk:" + documentID + ":" + strconv.Itoa(chunkIndex),
		Fields: map[string]string{
			"id":                    chunkID,
			dbredis.FieldDocumentID: documentID,
			dbredis.FieldOwnerScope: "org-1",
			dbredis.FieldChunkIndex: strconv.Itoa(chunkIndex),
			dbredis.FieldVector:     dbredis.VectorToBytes(vector),
			"content":               "content of " + chunkID,
			"model":                 "test-model",
			"dimension":             strconv.Itoa(len(vector)),
		},
	}
}
