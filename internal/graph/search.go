package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ChunkMatch is one similarity-search hit
type ChunkMatch struct {
	DocumentID   string  `json:"document_id"`
	ChunkIndex   int     `json:"chunk_index"`
	Text         string  `json:"text"`
	Score        float64 `json:"score"`
	DocumentName string  `json:"document_name"`
	AircraftType string  `json:"aircraft_type"`
}

// SimilarChunks returns the top-k chunks nearest to the query vector,
// with their parent document metadata. Read-only.
func (r *Repository) SimilarChunks(ctx context.Context, vector []float32, k int) ([]ChunkMatch, error) {
	if k < 1 {
		k = 5
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		CALL db.index.vector.queryNodes($indexName, $k, $vector)
		YIELD node, score
		MATCH (node)-[:FROM_DOCUMENT]->(d:Document)
		RETURN node.documentId AS documentId,
		       node.index AS chunkIndex,
		       node.text AS text,
		       score,
		       d.title AS documentName,
		       d.aircraftType AS aircraftType
		ORDER BY score DESC
	`
	result, err := session.Run(ctx, query, map[string]interface{}{
		"indexName": VectorIndexName,
		"k":         k,
		"vector":    vector,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}

	var matches []ChunkMatch
	for result.Next(ctx) {
		record := result.Record()
		matches = append(matches, ChunkMatch{
			DocumentID:   getStringFromRecord(record, "documentId"),
			ChunkIndex:   getIntFromRecord(record, "chunkIndex"),
			Text:         getStringFromRecord(record, "text"),
			Score:        getFloat64FromRecord(record, "score"),
			DocumentName: getStringFromRecord(record, "documentName"),
			AircraftType: getStringFromRecord(record, "aircraftType"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("similarity search failed: %w", err)
	}
	return matches, nil
}
