package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType(t *testing.T) {
	inner := stderrors.New("connection refused")

	assert.True(t, IsErrorType(NewGraphQueryFailed("upsert FaultCode", inner), ErrorTypeGraph))
	assert.True(t, IsErrorType(NewGraphConnectionFailed("bolt://localhost:7687", inner), ErrorTypeGraph))
	assert.True(t, IsErrorType(NewLLMRequestFailed("gpt-4o-mini", 3, inner), ErrorTypeLLM))
	assert.True(t, IsErrorType(ErrLLMEmptyResponse, ErrorTypeLLM))
	assert.True(t, IsErrorType(NewEmbeddingFailed("text-embedding-3-small", inner), ErrorTypeEmbedding))
	assert.True(t, IsErrorType(NewExtractionParseFailed("{broken", inner), ErrorTypeExtraction))
	assert.True(t, IsErrorType(NewConfigMissingRequired("NEO4J_PASSWORD"), ErrorTypeConfig))

	assert.False(t, IsErrorType(NewGraphQueryFailed("upsert FaultCode", inner), ErrorTypeLLM))
	assert.False(t, IsErrorType(inner, ErrorTypeGraph))
	assert.False(t, IsErrorType(nil, ErrorTypeGraph))
}

func TestIsErrorType_WrappedChain(t *testing.T) {
	err := fmt.Errorf("pipeline stage failed: %w",
		NewEmbeddingFailed("text-embedding-3-small", stderrors.New("429")))
	assert.True(t, IsErrorType(err, ErrorTypeEmbedding))
	assert.False(t, IsErrorType(err, ErrorTypeGraph))
}

func TestIsRecoverable(t *testing.T) {
	inner := stderrors.New("boom")

	// Per-chunk provider failures are survivable
	assert.True(t, IsRecoverable(NewLLMRequestFailed("gpt-4o-mini", 3, inner)))
	assert.True(t, IsRecoverable(NewExtractionParseFailed("snippet", inner)))

	// Everything that corrupts or blocks the run is not
	assert.False(t, IsRecoverable(NewEmbeddingFailed("text-embedding-3-small", inner)))
	assert.False(t, IsRecoverable(NewGraphQueryFailed("create chunks", inner)))
	assert.False(t, IsRecoverable(NewConfigMissingRequired("NEO4J_URI")))
	assert.False(t, IsRecoverable(inner))
}

func TestBaseError_Unwrap(t *testing.T) {
	inner := stderrors.New("root cause")
	err := NewGraphQueryFailed("link rules", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "[graph]")
	assert.Contains(t, err.Error(), "link rules")
	assert.Contains(t, err.Error(), "root cause")
}
