package adapter

import (
	"context"

	"github.com/sashabaranov/go-openai"
	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
	"go.uber.org/zap"
)

// EmbeddingClient generates fixed-length embedding vectors via OpenAI
type EmbeddingClient struct {
	client     *openai.Client
	model      string
	dimensions int
	logger     *zap.Logger
}

// NewEmbeddingClient creates a new embedding client
func NewEmbeddingClient(apiKey, model string, dimensions int) *EmbeddingClient {
	return &EmbeddingClient{
		client:     openai.NewClient(apiKey),
		model:      model,
		dimensions: dimensions,
		logger:     logger.Get(),
	}
}

// Dimensions returns the configured vector length
func (c *EmbeddingClient) Dimensions() int {
	return c.dimensions
}

// Embed returns the embedding vector for a single text. The dimensions
// parameter is always passed so the stored vectors match the index.
func (c *EmbeddingClient) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(c.model),
		Dimensions: c.dimensions,
	})
	if err != nil {
		c.logger.Error("Embedding request failed",
			zap.Error(err),
			zap.String("model", c.model),
		)
		return nil, apperrors.NewEmbeddingFailed(c.model, err)
	}

	if len(resp.Data) == 0 {
		return nil, apperrors.NewEmbeddingFailed(c.model, nil)
	}

	return resp.Data[0].Embedding, nil
}
