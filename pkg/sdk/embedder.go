package semsearch

import "context"

// Embedder converts text to a vector embedding. The returned vector must
// match the dimension declared with WithEmbeddingModel.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
