package search

// Result is a single search hit. Never persisted.
type Result struct {
	chunkID    string
	documentID string
	content    string
	metadata   map[string]string
	similarity float64
}

// NewResult creates a search result.
func NewResult(chunkID, documentID, content string, metadata map[string]string, similarity float64) Result {
	return Result{
		chunkID: chunkID, documentID: documentID, content: content,
		metadata: metadata, similarity: similarity,
	}
}

// ChunkID returns the matched chunk identifier.
func (r *Result) ChunkID() string { return r.chunkID }

// DocumentID returns the owning document reference.
func (r *Result) DocumentID() string { return r.documentID }

// Content returns the chunk text.
func (r *Result) Content() string { return r.content }

// Metadata returns the chunk's opaque metadata, passed through on read.
func (r *Result) Metadata() map[string]string { return r.metadata }

// Similarity returns the similarity score (1 - cosine distance, higher is
// more similar).
func (r *Result) Similarity() float64 { return r.similarity }

// WithSimilarity returns a copy with the score replaced (hybrid re-ranking).
func (r *Result) WithSimilarity(s float64) Result {
	out := *r
	out.similarity = s
	return out
}
