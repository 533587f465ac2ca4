package graph

import (
	"context"
	"fmt"

	"github.com/neo4j-partners/aircraft-enrichment/internal/registry"
	"go.uber.org/zap"
)

// CreateDocument merges a Document node for the given registry entry
func (r *Repository) CreateDocument(ctx context.Context, meta registry.DocumentMeta) error {
	query := `
		MERGE (d:Document {documentId: $documentId})
		SET d.type = $type,
		    d.aircraftType = $aircraftType,
		    d.title = $title
	`
	err := r.write(ctx, query, map[string]interface{}{
		"documentId":   meta.DocumentID,
		"type":         registry.DocumentType,
		"aircraftType": meta.AircraftType,
		"title":        meta.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to create document %s: %w", meta.DocumentID, err)
	}

	r.logger.Info("Document created", zap.String("document_id", meta.DocumentID))
	return nil
}

// CreateChunks merges Chunk nodes with FROM_DOCUMENT relationships in
// index order, then links adjacent indexes into the NEXT_CHUNK chain.
// Writes go out in batches; re-running with the same texts is a no-op
// beyond property overwrites.
func (r *Repository) CreateChunks(ctx context.Context, documentID string, texts []string) error {
	rows := make([]map[string]interface{}, len(texts))
	for i, text := range texts {
		rows[i] = map[string]interface{}{
			"documentId": documentID,
			"index":      i,
			"text":       text,
		}
	}

	chunkQuery := `
		UNWIND $batch AS row
		MATCH (d:Document {documentId: row.documentId})
		MERGE (c:Chunk {documentId: row.documentId, index: row.index})
		SET c.text = row.text
		MERGE (c)-[:FROM_DOCUMENT]->(d)
	`
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.write(ctx, chunkQuery, map[string]interface{}{"batch": rows[start:end]}); err != nil {
			return fmt.Errorf("failed to create chunks for %s: %w", documentID, err)
		}
	}

	// NEXT_CHUNK chain: one edge per adjacent index pair
	chainRows := make([]map[string]interface{}, 0, max(len(texts)-1, 0))
	for i := 0; i < len(texts)-1; i++ {
		chainRows = append(chainRows, map[string]interface{}{
			"documentId": documentID,
			"index":      i,
			"nextIndex":  i + 1,
		})
	}

	chainQuery := `
		UNWIND $batch AS row
		MATCH (c1:Chunk {documentId: row.documentId, index: row.index})
		MATCH (c2:Chunk {documentId: row.documentId, index: row.nextIndex})
		MERGE (c1)-[:NEXT_CHUNK]->(c2)
	`
	for start := 0; start < len(chainRows); start += batchSize {
		end := start + batchSize
		if end > len(chainRows) {
			end = len(chainRows)
		}
		if err := r.write(ctx, chainQuery, map[string]interface{}{"batch": chainRows[start:end]}); err != nil {
			return fmt.Errorf("failed to chain chunks for %s: %w", documentID, err)
		}
	}

	r.logger.Info("Chunks created",
		zap.String("document_id", documentID),
		zap.Int("count", len(texts)),
	)
	return nil
}

// SetChunkEmbedding stores an embedding vector on one chunk using the
// Neo4j vector property API
func (r *Repository) SetChunkEmbedding(ctx context.Context, documentID string, index int, vector []float32) error {
	query := `
		MATCH (c:Chunk {documentId: $documentId, index: $index})
		CALL db.create.setNodeVectorProperty(c, 'embedding', $vector)
	`
	err := r.write(ctx, query, map[string]interface{}{
		"documentId": documentID,
		"index":      index,
		"vector":     vector,
	})
	if err != nil {
		return fmt.Errorf("failed to set embedding for %s[%d]: %w", documentID, index, err)
	}
	return nil
}
