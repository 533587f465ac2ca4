package adapter

import (
	"context"
	"time"

	"github.com/sashabaranov/go-openai"
	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
	"go.uber.org/zap"
)

const maxRetries = 3

// LLMClient handles chat completions against the OpenAI API
type LLMClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewLLMClient creates a new LLM client
func NewLLMClient(apiKey, model string) *LLMClient {
	return &LLMClient{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger.Get(),
	}
}

// Model returns the configured model name
func (c *LLMClient) Model() string {
	return c.model
}

// Complete sends a system+user prompt pair and returns the raw response
// text. Decoding is deterministic: temperature 0 with JSON-object output,
// so repeated runs over the same chunk converge to the same observations.
func (c *LLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Warn("Retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		c.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", c.model),
		)
	}

	if err != nil {
		return "", apperrors.NewLLMRequestFailed(c.model, maxRetries, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.ErrLLMEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
