package embeddings

import (
	"context"

	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider embeds query text through the OpenAI embeddings endpoint.
type OpenAIProvider struct {
	client     *go_openai.Client
	model      go_openai.EmbeddingModel
	dimensions int
}

var _ Provider = (*OpenAIProvider)(nil)

func NewOpenAIProvider(client *go_openai.Client, model go_openai.EmbeddingModel, dimensions int) *OpenAIProvider {
	if model == "" {
		model = go_openai.SmallEmbedding3
	}
	if dimensions <= 0 {
		dimensions = 1536
	}
	return &OpenAIProvider{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}
}

func (p *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, go_openai.EmbeddingRequest{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create embedding")
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data received")
	}
	return resp.Data[0].Embedding, nil
}

func (p *OpenAIProvider) GetModel() Model {
	return Model{
		Name:       string(p.model),
		Dimensions: p.dimensions,
	}
}
