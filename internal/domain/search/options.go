package search

// Ranking parameters. All thresholds and weights are named here so the
// ranking formula can be tuned and unit-tested without touching query code.
const (
	// DefaultLimit is the result cap applied when the caller supplies none.
	DefaultLimit = 10
	// MaxLimit bounds the result cap a caller may request.
	MaxLimit = 100

	// DefaultMinSimilarity is the cutoff for pure semantic search.
	DefaultMinSimilarity = 0.7
	// HybridMinSimilarity is the relaxed cutoff used by hybrid search, lower
	// than DefaultMinSimilarity so moderate-similarity lexical matches survive.
	HybridMinSimilarity = 0.6
	// SimilarDocumentMinSimilarity is the stricter cutoff for similar-document
	// lookup; near-duplicate detection requires higher confidence.
	SimilarDocumentMinSimilarity = 0.8
	// DefaultSimilarDocumentLimit caps similar-document results.
	DefaultSimilarDocumentLimit = 5

	// HybridVectorWeight is the contribution of vector similarity to the
	// hybrid score. Vector similarity is the primary signal.
	HybridVectorWeight = 0.7
	// HybridLexicalWeight is the fixed boost granted to a lexical match. A
	// lexical hit is a confidence boost, not a replacement signal.
	HybridLexicalWeight = 0.3

	// HybridCandidateMultiplier oversamples the KNN candidate pool for hybrid
	// ranking so lexical matches below the pure-semantic cutoff are retrievable.
	HybridCandidateMultiplier = 4
)

// Options carries per-query knobs for a similarity search.
// A minSimilarity <= 0 disables the cutoff entirely; positive thresholds are
// strict (similarity must exceed them).
type Options struct {
	limit         int
	minSimilarity float64
	filter        Filter
}

// NewOptions creates options with the default limit and cutoff.
func NewOptions(f Filter) Options {
	return Options{limit: DefaultLimit, minSimilarity: DefaultMinSimilarity, filter: f}
}

// WithLimit returns a copy with the result cap set. Out-of-range values are
// normalized to the defaults.
func (o Options) WithLimit(limit int) Options {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	o.limit = limit
	return o
}

// WithMinSimilarity returns a copy with an explicit similarity cutoff.
// Zero and negative values disable the cutoff.
func (o Options) WithMinSimilarity(min float64) Options {
	o.minSimilarity = min
	return o
}

// Limit returns the result cap.
func (o Options) Limit() int { return o.limit }

// MinSimilarity returns the similarity cutoff.
func (o Options) MinSimilarity() float64 { return o.minSimilarity }

// Filter returns the scope filter.
func (o Options) Filter() Filter { return o.filter }
