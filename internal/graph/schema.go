package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Names of the Chunk indexes consumed by the search layer.
const (
	VectorIndexName   = "maintenanceChunkEmbeddings"
	FulltextIndexName = "maintenanceChunkText"
)

// constraintDef is one (label, property) uniqueness constraint
type constraintDef struct {
	Label    string
	Property string
}

// Uniqueness constraints for enrichment node types. The writer merges by
// these keys, so the constraints are safe to create before any write.
var constraints = []constraintDef{
	{"Document", "documentId"},
	{"FaultCode", "code"},
	{"PartNumber", "number"},
	{"OperatingLimit", "limitId"},
	{"MaintenanceTask", "taskId"},
	{"ATAChapter", "chapter"},
}

var indexes = []constraintDef{
	{"Chunk", "documentId"},
}

// EnsureSchema creates constraints and indexes for the enrichment data
// (idempotent). The operational graph's own schema is owned elsewhere.
func (r *Repository) EnsureSchema(ctx context.Context, embeddingDimensions int) error {
	for _, c := range constraints {
		query := fmt.Sprintf(
			"CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.%s IS UNIQUE",
			c.Label, c.Property,
		)
		if err := r.write(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create constraint %s.%s: %w", c.Label, c.Property, err)
		}
		r.logger.Debug("Constraint ensured",
			zap.String("label", c.Label),
			zap.String("property", c.Property),
		)
	}

	for _, idx := range indexes {
		query := fmt.Sprintf(
			"CREATE INDEX idx_%s_%s IF NOT EXISTS FOR (n:%s) ON (n.%s)",
			idx.Label, idx.Property, idx.Label, idx.Property,
		)
		if err := r.write(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to create index %s.%s: %w", idx.Label, idx.Property, err)
		}
	}

	vectorQuery := fmt.Sprintf(`
		CREATE VECTOR INDEX %s IF NOT EXISTS
		FOR (c:Chunk) ON (c.embedding)
		OPTIONS {indexConfig: {
			`+"`vector.dimensions`"+`: %d,
			`+"`vector.similarity_function`"+`: 'cosine'
		}}
	`, VectorIndexName, embeddingDimensions)
	if err := r.write(ctx, vectorQuery, nil); err != nil {
		return fmt.Errorf("failed to create vector index: %w", err)
	}

	fulltextQuery := fmt.Sprintf(`
		CREATE FULLTEXT INDEX %s IF NOT EXISTS
		FOR (c:Chunk) ON EACH [c.text]
	`, FulltextIndexName)
	if err := r.write(ctx, fulltextQuery, nil); err != nil {
		return fmt.Errorf("failed to create fulltext index: %w", err)
	}

	r.logger.Info("Schema ensured",
		zap.Int("constraints", len(constraints)),
		zap.Int("embedding_dimensions", embeddingDimensions),
	)
	return nil
}
