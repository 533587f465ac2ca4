package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		DataDir:             "data",
		Neo4jURI:            "bolt://localhost:7687",
		Neo4jUser:           "neo4j",
		Neo4jPassword:       "password",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDimensions: 1536,
		ExtractionModel:     "gpt-4o-mini",
		ChunkSize:           800,
		ChunkOverlap:        100,
		SearchTopK:          5,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_MissingRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Neo4jPassword = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "NEO4J_PASSWORD")
}

func TestValidate_URISchemes(t *testing.T) {
	for _, uri := range []string{
		"bolt://localhost:7687",
		"bolt+s://db.example.com",
		"neo4j://localhost",
		"neo4j+s://abc123.databases.neo4j.io",
		"neo4j+ssc://internal",
	} {
		cfg := validConfig()
		cfg.Neo4jURI = uri
		assert.NoError(t, cfg.Validate(), uri)
	}

	cfg := validConfig()
	cfg.Neo4jURI = "http://localhost:7474"
	assert.Error(t, cfg.Validate())
}

func TestValidate_ChunkBounds(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.ChunkSize = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.ChunkOverlap = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.EmbeddingDimensions = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "password")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 800, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ExtractionModel)
	assert.Equal(t, 5, cfg.SearchTopK)
	assert.Zero(t, cfg.SampleSize)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NEO4J_PASSWORD", "password")
	t.Setenv("CHUNK_SIZE", "1000")
	t.Setenv("CHUNK_OVERLAP", "200")
	t.Setenv("ENRICH_SAMPLE_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.ChunkSize)
	assert.Equal(t, 200, cfg.ChunkOverlap)
	assert.Equal(t, 25, cfg.SampleSize)
}
