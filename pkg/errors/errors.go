package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeLLM represents LLM completion errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeEmbedding represents embedding provider errors
	ErrorTypeEmbedding ErrorType = "embedding"
	// ErrorTypeExtraction represents entity extraction/parse errors
	ErrorTypeExtraction ErrorType = "extraction"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// LLM Errors

// ErrLLMRequestFailed is returned when an LLM completion request fails
type ErrLLMRequestFailed struct {
	*BaseError
	Model    string
	Attempts int
}

func NewLLMRequestFailed(model string, attempts int, err error) *ErrLLMRequestFailed {
	return &ErrLLMRequestFailed{
		BaseError: NewBaseError(ErrorTypeLLM, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// ErrLLMEmptyResponse is returned when the LLM returns no choices
var ErrLLMEmptyResponse = NewBaseError(ErrorTypeLLM, "no choices in LLM response", nil)

// Embedding Errors

// ErrEmbeddingFailed is returned when an embedding request fails
type ErrEmbeddingFailed struct {
	*BaseError
	Model string
}

func NewEmbeddingFailed(model string, err error) *ErrEmbeddingFailed {
	return &ErrEmbeddingFailed{
		BaseError: NewBaseError(ErrorTypeEmbedding, fmt.Sprintf("embedding request failed: %s", model), err),
		Model:     model,
	}
}

// Extraction Errors

// ErrExtractionParseFailed is returned when an LLM response cannot be
// parsed as JSON even after the repair pass
type ErrExtractionParseFailed struct {
	*BaseError
	Snippet string
}

func NewExtractionParseFailed(snippet string, err error) *ErrExtractionParseFailed {
	return &ErrExtractionParseFailed{
		BaseError: NewBaseError(ErrorTypeExtraction, "failed to parse extraction response", err),
		Snippet:   snippet,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// Category returns the error's type classification
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// IsErrorType checks if an error is of a specific type. The wrapper
// structs promote Category from their embedded BaseError, so this works
// on them directly as well as through wrapped chains.
func IsErrorType(err error, errType ErrorType) bool {
	var categorized interface{ Category() ErrorType }
	if errors.As(err, &categorized) {
		return categorized.Category() == errType
	}
	return false
}

// IsRecoverable reports whether the pipeline may continue past this
// error. LLM and extraction failures degrade a single chunk; embedding
// and graph failures abort the run.
func IsRecoverable(err error) bool {
	return IsErrorType(err, ErrorTypeLLM) || IsErrorType(err, ErrorTypeExtraction)
}
