package chunk

import (
	"errors"
	"testing"
	"time"

	"github.com/casevault/semsearch/internal/domain"
)

func validArgs() (string, string, string, string, []float32, string, int, int, map[string]string) {
	return "doc-1", "case-9", "org-1", "the quick brown fox",
		[]float32{0.1, 0.2, 0.3}, "test-model", 3, 0, map[string]string{"page": "1"}
}

func TestNew_Valid(t *testing.T) {
	docID, caseID, scope, content, emb, model, dim, idx, meta := validArgs()

	c, err := New(docID, caseID, scope, content, emb, model, dim, idx, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DocumentID() != docID || c.OwnerScope() != scope || c.CaseID() != caseID {
		t.Errorf("identity fields not preserved")
	}
	if c.Dimension() != dim || len(c.Embedding()) != dim {
		t.Errorf("dimension = %d, embedding len = %d, want %d", c.Dimension(), len(c.Embedding()), dim)
	}
	if c.ID() != "" {
		t.Errorf("id must be empty before insert, got %q", c.ID())
	}
}

func TestNew_DimensionMismatch(t *testing.T) {
	docID, caseID, scope, content, emb, model, _, idx, meta := validArgs()

	_, err := New(docID, caseID, scope, content, emb, model, 5, idx, meta)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(docID, caseID, scope, content *string, emb *[]float32, model *string, idx *int)
	}{
		{"empty document ID", func(docID, _, _, _ *string, _ *[]float32, _ *string, _ *int) { *docID = "" }},
		{"empty owner scope", func(_, _, scope, _ *string, _ *[]float32, _ *string, _ *int) { *scope = "" }},
		{"empty model", func(_, _, _, _ *string, _ *[]float32, model *string, _ *int) { *model = "" }},
		{"negative chunk index", func(_, _, _, _ *string, _ *[]float32, _ *string, idx *int) { *idx = -1 }},
		{"empty embedding", func(_, _, _, _ *string, emb *[]float32, _ *string, _ *int) { *emb = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			docID, caseID, scope, content, emb, model, _, idx, meta := validArgs()
			tc.mutate(&docID, &caseID, &scope, &content, &emb, &model, &idx)
			dim := len(emb)
			if _, err := New(docID, caseID, scope, content, emb, model, dim, idx, meta); !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("expected ErrInvalidQuery, got %v", err)
			}
		})
	}
}

func TestNew_EmptyEmbeddingAgainstDeclaredDimension(t *testing.T) {
	docID, caseID, scope, content, _, model, dim, idx, meta := validArgs()

	_, err := New(docID, caseID, scope, content, nil, model, dim, idx, meta)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestNew_ClonesInputs(t *testing.T) {
	docID, caseID, scope, content, emb, model, dim, idx, meta := validArgs()

	c, err := New(docID, caseID, scope, content, emb, model, dim, idx, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb[0] = 99
	meta["page"] = "changed"

	if c.Embedding()[0] == 99 {
		t.Error("embedding not cloned")
	}
	if c.Metadata()["page"] == "changed" {
		t.Error("metadata not cloned")
	}
}

func TestWithIdentity(t *testing.T) {
	docID, caseID, scope, content, emb, model, dim, idx, meta := validArgs()

	c, err := New(docID, caseID, scope, content, emb, model, dim, idx, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	stored := c.WithIdentity("chunk-42", now)

	if stored.ID() != "chunk-42" || !stored.CreatedAt().Equal(now) {
		t.Errorf("identity not applied: id=%q createdAt=%v", stored.ID(), stored.CreatedAt())
	}
	if c.ID() != "" {
		t.Error("original mutated")
	}
}
