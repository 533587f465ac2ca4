package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// deleteBatchSize caps how many nodes one DETACH DELETE round removes,
// keeping transactions small on large corpora.
const deleteBatchSize = 500

// Labels swept by ClearEnrichment. The operational graph (Aircraft,
// System, Component, Sensor, Flight, MaintenanceEvent, Removal) is never
// touched. __Entity__ and __KGBuilder__ are bookkeeping labels earlier
// pipeline tooling may have left behind.
var enrichmentLabels = []string{
	"Document",
	"Chunk",
	"FaultCode",
	"PartNumber",
	"OperatingLimit",
	"MaintenanceTask",
	"ATAChapter",
	"__Entity__",
	"__KGBuilder__",
}

// ClearEnrichment deletes all enrichment nodes and their relationships,
// label by label, in bounded rounds. Returns the total deleted count.
func (r *Repository) ClearEnrichment(ctx context.Context) (int, error) {
	total := 0
	for _, label := range enrichmentLabels {
		for {
			deleted, err := r.deleteRound(ctx, label)
			if err != nil {
				return total, fmt.Errorf("failed to clear %s nodes: %w", label, err)
			}
			total += deleted
			if deleted == 0 {
				break
			}
		}
	}

	r.logger.Info("Enrichment data cleared", zap.Int("deleted_nodes", total))
	return total, nil
}

func (r *Repository) deleteRound(ctx context.Context, label string) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := fmt.Sprintf(
		"MATCH (n:%s) WITH n LIMIT %d DETACH DELETE n RETURN count(*) AS deleted",
		label, deleteBatchSize,
	)
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	return getIntFromRecord(record, "deleted"), nil
}
