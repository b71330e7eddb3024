package embeddings

import "context"

// Model describes the embedding model in use.
type Model struct {
	Name       string
	Dimensions int
}

// Provider generates embedding vectors for query text. Implementations are
// stateless and safe to share across concurrent requests.
type Provider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GetModel() Model
}
