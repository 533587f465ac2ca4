package graph

import (
	"context"
	"fmt"

	"github.com/neo4j-partners/aircraft-enrichment/internal/merge"
	apperrors "github.com/neo4j-partners/aircraft-enrichment/pkg/errors"
	"go.uber.org/zap"
)

// Entity writes happen in two batched passes per type: (1) merge the
// node by its canonical key and set properties, (2) create DOCUMENTED_IN
// provenance edges to every source chunk. Pass 2 only runs after pass 1
// completes for the type, so an edge is never created to an entity whose
// upsert failed. Both passes are idempotent.

// UpsertFaultCodes writes canonical fault codes and their provenance edges
func (r *Repository) UpsertFaultCodes(ctx context.Context, codes []*merge.FaultCode) (int, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	rows := make([]map[string]interface{}, len(codes))
	links := make([]sourceLink, 0, len(codes))
	for i, fc := range codes {
		rows[i] = map[string]interface{}{
			"code":            fc.Code,
			"description":     fc.Description,
			"severityLevels":  fc.SeverityLevels,
			"ataChapter":      fc.ATAChapter,
			"immediateAction": fc.ImmediateAction,
		}
		links = appendSourceLinks(links, fc.Code, fc.Sources)
	}

	query := `
		UNWIND $batch AS row
		MERGE (fc:FaultCode {code: row.code})
		SET fc.description = row.description,
		    fc.severityLevels = row.severityLevels,
		    fc.ataChapter = row.ataChapter,
		    fc.immediateAction = row.immediateAction
	`
	if err := r.upsertBatched(ctx, "FaultCode", query, rows); err != nil {
		return 0, err
	}
	if err := r.writeSourceLinks(ctx, "MATCH (entity:FaultCode {code: row.key})", links); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UpsertPartNumbers writes canonical part numbers and their provenance edges
func (r *Repository) UpsertPartNumbers(ctx context.Context, parts []*merge.PartNumber) (int, error) {
	if len(parts) == 0 {
		return 0, nil
	}

	rows := make([]map[string]interface{}, len(parts))
	links := make([]sourceLink, 0, len(parts))
	for i, pn := range parts {
		rows[i] = map[string]interface{}{
			"number":        pn.Number,
			"componentName": pn.ComponentName,
			"ataReference":  pn.ATAReference,
		}
		links = appendSourceLinks(links, pn.Number, pn.Sources)
	}

	query := `
		UNWIND $batch AS row
		MERGE (pn:PartNumber {number: row.number})
		SET pn.componentName = row.componentName,
		    pn.ataReference = row.ataReference
	`
	if err := r.upsertBatched(ctx, "PartNumber", query, rows); err != nil {
		return 0, err
	}
	if err := r.writeSourceLinks(ctx, "MATCH (entity:PartNumber {number: row.key})", links); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UpsertOperatingLimits writes canonical operating limits and their provenance edges
func (r *Repository) UpsertOperatingLimits(ctx context.Context, limits []*merge.OperatingLimit) (int, error) {
	if len(limits) == 0 {
		return 0, nil
	}

	rows := make([]map[string]interface{}, len(limits))
	links := make([]sourceLink, 0, len(limits))
	for i, ol := range limits {
		rows[i] = map[string]interface{}{
			"limitId":      ol.LimitID,
			"parameter":    ol.Parameter,
			"unit":         ol.Unit,
			"regime":       ol.Regime,
			"minValue":     nullableFloat(ol.MinValue),
			"maxValue":     nullableFloat(ol.MaxValue),
			"aircraftType": ol.AircraftType,
		}
		links = appendSourceLinks(links, ol.LimitID, ol.Sources)
	}

	query := `
		UNWIND $batch AS row
		MERGE (ol:OperatingLimit {limitId: row.limitId})
		SET ol.parameter = row.parameter,
		    ol.unit = row.unit,
		    ol.regime = row.regime,
		    ol.minValue = row.minValue,
		    ol.maxValue = row.maxValue,
		    ol.aircraftType = row.aircraftType
	`
	if err := r.upsertBatched(ctx, "OperatingLimit", query, rows); err != nil {
		return 0, err
	}
	if err := r.writeSourceLinks(ctx, "MATCH (entity:OperatingLimit {limitId: row.key})", links); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UpsertMaintenanceTasks writes canonical maintenance tasks and their provenance edges
func (r *Repository) UpsertMaintenanceTasks(ctx context.Context, tasks []*merge.MaintenanceTask) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}

	rows := make([]map[string]interface{}, len(tasks))
	links := make([]sourceLink, 0, len(tasks))
	for i, mt := range tasks {
		rows[i] = map[string]interface{}{
			"taskId":         mt.TaskID,
			"description":    mt.Description,
			"interval":       nullableFloat(mt.Interval),
			"intervalUnit":   mt.IntervalUnit,
			"durationHours":  nullableFloat(mt.DurationHours),
			"personnelCount": nullableInt(mt.PersonnelCount),
			"personnelType":  mt.PersonnelType,
		}
		links = appendSourceLinks(links, mt.TaskID, mt.Sources)
	}

	query := `
		UNWIND $batch AS row
		MERGE (mt:MaintenanceTask {taskId: row.taskId})
		SET mt.description = row.description,
		    mt.interval = row.interval,
		    mt.intervalUnit = row.intervalUnit,
		    mt.durationHours = row.durationHours,
		    mt.personnelCount = row.personnelCount,
		    mt.personnelType = row.personnelType
	`
	if err := r.upsertBatched(ctx, "MaintenanceTask", query, rows); err != nil {
		return 0, err
	}
	if err := r.writeSourceLinks(ctx, "MATCH (entity:MaintenanceTask {taskId: row.key})", links); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// UpsertATAChapters writes canonical ATA chapters and their provenance edges
func (r *Repository) UpsertATAChapters(ctx context.Context, chapters []*merge.ATAChapter) (int, error) {
	if len(chapters) == 0 {
		return 0, nil
	}

	rows := make([]map[string]interface{}, len(chapters))
	links := make([]sourceLink, 0, len(chapters))
	for i, ata := range chapters {
		rows[i] = map[string]interface{}{
			"chapter": ata.Chapter,
			"title":   ata.Title,
		}
		links = appendSourceLinks(links, ata.Chapter, ata.Sources)
	}

	query := `
		UNWIND $batch AS row
		MERGE (ata:ATAChapter {chapter: row.chapter})
		SET ata.title = row.title
	`
	if err := r.upsertBatched(ctx, "ATAChapter", query, rows); err != nil {
		return 0, err
	}
	if err := r.writeSourceLinks(ctx, "MATCH (entity:ATAChapter {chapter: row.key})", links); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// sourceLink is one (entity key, source chunk) provenance pair
type sourceLink struct {
	Key        string
	DocumentID string
	ChunkIndex int
}

func appendSourceLinks(links []sourceLink, key string, sources []merge.Source) []sourceLink {
	for _, src := range sources {
		links = append(links, sourceLink{
			Key:        key,
			DocumentID: src.DocumentID,
			ChunkIndex: src.ChunkIndex,
		})
	}
	return links
}

// upsertBatched runs the node-merge pass in batches
func (r *Repository) upsertBatched(ctx context.Context, label, query string, rows []map[string]interface{}) error {
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.write(ctx, query, map[string]interface{}{"batch": rows[start:end]}); err != nil {
			return apperrors.NewGraphQueryFailed("upsert "+label, err)
		}
	}
	r.logger.Debug("Entity batch upserted",
		zap.String("label", label),
		zap.Int("count", len(rows)),
	)
	return nil
}

// writeSourceLinks creates DOCUMENTED_IN edges from entities to their
// source chunks, matched by (documentId, chunkIndex)
func (r *Repository) writeSourceLinks(ctx context.Context, matchClause string, links []sourceLink) error {
	if len(links) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, len(links))
	for i, link := range links {
		rows[i] = map[string]interface{}{
			"key":        link.Key,
			"documentId": link.DocumentID,
			"chunkIndex": link.ChunkIndex,
		}
	}

	query := fmt.Sprintf(`
		UNWIND $batch AS row
		%s
		MATCH (c:Chunk {documentId: row.documentId, index: row.chunkIndex})
		MERGE (entity)-[:DOCUMENTED_IN]->(c)
	`, matchClause)

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := r.write(ctx, query, map[string]interface{}{"batch": rows[start:end]}); err != nil {
			return fmt.Errorf("failed to write provenance edges: %w", err)
		}
	}
	return nil
}

// nullableFloat converts a *float64 to a driver-friendly value where nil
// stays null in the graph
func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
