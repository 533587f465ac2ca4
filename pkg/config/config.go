package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
)

// Valid URI schemes for the Neo4j driver.
var neo4jSchemes = []string{
	"neo4j://", "neo4j+s://", "neo4j+ssc://",
	"bolt://", "bolt+s://", "bolt+ssc://",
}

// Config holds all application configuration
type Config struct {
	// App
	Env     string
	DataDir string

	// Neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// OpenAI
	OpenAIAPIKey        string
	EmbeddingModel      string
	EmbeddingDimensions int
	ExtractionModel     string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Limit chunks extracted per document (0 = no limit)
	SampleSize int

	// Top-k results for similarity search
	SearchTopK int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:                 getEnv("ENV", "development"),
		DataDir:             getEnv("DATA_DIR", "data"),
		Neo4jURI:            getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:           getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:       getEnv("NEO4J_PASSWORD", ""),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingDimensions: getEnvInt("OPENAI_EMBEDDING_DIMENSIONS", 1536),
		ExtractionModel:     getEnv("OPENAI_EXTRACTION_MODEL", "gpt-4o-mini"),
		ChunkSize:           getEnvInt("CHUNK_SIZE", 800),
		ChunkOverlap:        getEnvInt("CHUNK_OVERLAP", 100),
		SampleSize:          getEnvInt("ENRICH_SAMPLE_SIZE", 0),
		SearchTopK:          getEnvInt("SEARCH_TOP_K", 5),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Neo4jURI == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_URI")
	}
	if !hasValidScheme(c.Neo4jURI) {
		return fmt.Errorf("NEO4J_URI must start with a valid scheme (neo4j+s://, bolt://, etc.), got: %s", c.Neo4jURI)
	}
	if c.Neo4jUser == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_USER")
	}
	if c.Neo4jPassword == "" {
		return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got: %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be non-negative and smaller than CHUNK_SIZE, got: %d", c.ChunkOverlap)
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("OPENAI_EMBEDDING_DIMENSIONS must be positive, got: %d", c.EmbeddingDimensions)
	}
	// OpenAI key is only required by the enrich and search commands;
	// those check for it at invocation time.
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func hasValidScheme(uri string) bool {
	for _, scheme := range neo4jSchemes {
		if strings.HasPrefix(uri, scheme) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
