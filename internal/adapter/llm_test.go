package adapter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests call the real OpenAI API.
// Set OPENAI_API_KEY and run without -short to exercise them.
func TestLLMClient_Complete(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	client := NewLLMClient(apiKey, "gpt-4o-mini")

	content, err := client.Complete(context.Background(),
		"Respond with valid JSON only.",
		`Return {"ok": true}`)
	require.NoError(t, err)
	assert.NotEmpty(t, content)
}

func TestEmbeddingClient_Embed(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set")
	}

	client := NewEmbeddingClient(apiKey, "text-embedding-3-small", 1536)

	vector, err := client.Embed(context.Background(), "EGT limit at takeoff is 950 degrees C.")
	require.NoError(t, err)
	assert.Len(t, vector, 1536)
}
