package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"
)

// ValidationCounts is the read-only report emitted after a run so an
// operator can see the degree of graceful degradation without the run
// having failed.
type ValidationCounts struct {
	Documents           int `json:"documents"`
	Chunks              int `json:"chunks"`
	ChunksWithEmbedding int `json:"chunks_with_embedding"`
	FaultCodes          int `json:"fault_codes"`
	PartNumbers         int `json:"part_numbers"`
	OperatingLimits     int `json:"operating_limits"`
	MaintenanceTasks    int `json:"maintenance_tasks"`
	ATAChapters         int `json:"ata_chapters"`
	ProvenanceEdges     int `json:"provenance_edges"`
	CrossLinkEdges      int `json:"cross_link_edges"`
}

type countQuery struct {
	query  string
	target func(*ValidationCounts) *int
}

var countQueries = []countQuery{
	{"MATCH (d:Document) RETURN count(d)",
		func(v *ValidationCounts) *int { return &v.Documents }},
	{"MATCH (c:Chunk) RETURN count(c)",
		func(v *ValidationCounts) *int { return &v.Chunks }},
	{"MATCH (c:Chunk) WHERE c.embedding IS NOT NULL RETURN count(c)",
		func(v *ValidationCounts) *int { return &v.ChunksWithEmbedding }},
	{"MATCH (n:FaultCode) RETURN count(n)",
		func(v *ValidationCounts) *int { return &v.FaultCodes }},
	{"MATCH (n:PartNumber) RETURN count(n)",
		func(v *ValidationCounts) *int { return &v.PartNumbers }},
	{"MATCH (n:OperatingLimit) RETURN count(n)",
		func(v *ValidationCounts) *int { return &v.OperatingLimits }},
	{"MATCH (n:MaintenanceTask) RETURN count(n)",
		func(v *ValidationCounts) *int { return &v.MaintenanceTasks }},
	{"MATCH (n:ATAChapter) RETURN count(n)",
		func(v *ValidationCounts) *int { return &v.ATAChapters }},
	{"MATCH ()-[r:DOCUMENTED_IN]->() RETURN count(r)",
		func(v *ValidationCounts) *int { return &v.ProvenanceEdges }},
	{"MATCH ()-[r]->() WHERE type(r) IN ['CLASSIFIED_UNDER', 'CLASSIFIED_AS', 'IDENTIFIED_BY', 'HAS_LIMIT'] RETURN count(r)",
		func(v *ValidationCounts) *int { return &v.CrossLinkEdges }},
}

// Validate gathers node and relationship counts for the enrichment data.
// The queries are read-only and independent, so they fan out concurrently;
// pipeline writes stay strictly sequential.
func (r *Repository) Validate(ctx context.Context) (ValidationCounts, error) {
	var counts ValidationCounts

	g, gctx := errgroup.WithContext(ctx)
	for _, cq := range countQueries {
		cq := cq
		g.Go(func() error {
			n, err := r.readCount(gctx, cq.query, nil)
			if err != nil {
				return fmt.Errorf("validation count failed: %w", err)
			}
			*cq.target(&counts) = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return counts, err
	}

	r.logger.Info("Validation counts",
		zap.Int("documents", counts.Documents),
		zap.Int("chunks", counts.Chunks),
		zap.Int("chunks_with_embedding", counts.ChunksWithEmbedding),
		zap.Int("fault_codes", counts.FaultCodes),
		zap.Int("part_numbers", counts.PartNumbers),
		zap.Int("operating_limits", counts.OperatingLimits),
		zap.Int("maintenance_tasks", counts.MaintenanceTasks),
		zap.Int("ata_chapters", counts.ATAChapters),
		zap.Int("provenance_edges", counts.ProvenanceEdges),
		zap.Int("cross_link_edges", counts.CrossLinkEdges),
	)
	return counts, nil
}
