package chunk

import (
	"fmt"
	"time"

	"github.com/casevault/semsearch/internal/domain"
)

// MaxContentSize is the maximum chunk content size in bytes.
const MaxContentSize = 65536 // 64KB

// Chunk is a persisted, immutable-once-written unit of search content
// (immutable value object).
type Chunk struct {
	id         string
	documentID string
	caseID     string
	ownerScope string
	content    string
	embedding  []float32
	model      string
	dimension  int
	chunkIndex int
	metadata   map[string]string
	createdAt  time.Time
}

// New validates and creates a Chunk. The id is assigned by the store on
// insert; caseID and metadata are optional.
func New(
	documentID, caseID, ownerScope, content string,
	embedding []float32, model string, dimension, chunkIndex int,
	metadata map[string]string,
) (Chunk, error) {
	if documentID == "" {
		return Chunk{}, fmt.Errorf("document ID is required: %w", domain.ErrInvalidQuery)
	}
	if ownerScope == "" {
		return Chunk{}, fmt.Errorf("owner scope is required: %w", domain.ErrInvalidQuery)
	}
	if len(content) > MaxContentSize {
		return Chunk{}, fmt.Errorf("content too large (max %d bytes): %w", MaxContentSize, domain.ErrInvalidQuery)
	}
	if model == "" {
		return Chunk{}, fmt.Errorf("embedding model is required: %w", domain.ErrInvalidQuery)
	}
	if chunkIndex < 0 {
		return Chunk{}, fmt.Errorf("chunk index must be non-negative: %w", domain.ErrInvalidQuery)
	}
	if len(embedding) != dimension {
		return Chunk{}, fmt.Errorf(
			"embedding has %d values, declared dimension is %d: %w",
			len(embedding), dimension, domain.ErrDimensionMismatch,
		)
	}
	if len(embedding) == 0 {
		return Chunk{}, fmt.Errorf("embedding is required: %w", domain.ErrInvalidQuery)
	}

	return Chunk{
		documentID: documentID,
		caseID:     caseID,
		ownerScope: ownerScope,
		content:    content,
		embedding:  cloneVector(embedding),
		model:      model,
		dimension:  dimension,
		chunkIndex: chunkIndex,
		metadata:   cloneStringMap(metadata),
	}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(
	id, documentID, caseID, ownerScope, content string,
	embedding []float32, model string, dimension, chunkIndex int,
	metadata map[string]string, createdAt time.Time,
) Chunk {
	return Chunk{
		id: id, documentID: documentID, caseID: caseID, ownerScope: ownerScope,
		content: content, embedding: embedding, model: model,
		dimension: dimension, chunkIndex: chunkIndex,
		metadata: metadata, createdAt: createdAt,
	}
}

// ID returns the chunk identifier (empty until inserted).
func (c *Chunk) ID() string { return c.id }

// DocumentID returns the owning document reference.
func (c *Chunk) DocumentID() string { return c.documentID }

// CaseID returns the owning case reference (may be empty).
func (c *Chunk) CaseID() string { return c.caseID }

// OwnerScope returns the tenant/organization identifier.
func (c *Chunk) OwnerScope() string { return c.ownerScope }

// Content returns the source text of the chunk.
func (c *Chunk) Content() string { return c.content }

// Embedding returns the embedding vector.
func (c *Chunk) Embedding() []float32 { return c.embedding }

// Model returns the identifier of the embedding model that produced the vector.
func (c *Chunk) Model() string { return c.model }

// Dimension returns the declared vector dimensionality.
func (c *Chunk) Dimension() int { return c.dimension }

// ChunkIndex returns the ordinal position within the parent document.
func (c *Chunk) ChunkIndex() int { return c.chunkIndex }

// Metadata returns the opaque key/value bag.
func (c *Chunk) Metadata() map[string]string { return c.metadata }

// CreatedAt returns the insert timestamp (zero until inserted).
func (c *Chunk) CreatedAt() time.Time { return c.createdAt }

// WithIdentity returns a copy with the store-assigned id and timestamp set.
func (c *Chunk) WithIdentity(id string, createdAt time.Time) Chunk {
	out := *c
	out.id = id
	out.createdAt = createdAt
	return out
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
