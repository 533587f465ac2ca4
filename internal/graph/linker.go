package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// LinkCounts reports how many edges each cross-link rule produced
type LinkCounts struct {
	FaultCodeToChapter  int `json:"fault_code_to_chapter"`
	EventToFaultCode    int `json:"event_to_fault_code"`
	PartNumberToChapter int `json:"part_number_to_chapter"`
	ComponentToPart     int `json:"component_to_part"`
	SensorToLimit       int `json:"sensor_to_limit"`
}

// Total returns the total edge count across all rules
func (c LinkCounts) Total() int {
	return c.FaultCodeToChapter + c.EventToFaultCode + c.PartNumberToChapter +
		c.ComponentToPart + c.SensorToLimit
}

// linkRule is one fixed matching query connecting canonical entities to
// the pre-existing operational graph
type linkRule struct {
	Name  string
	Query string
}

// The matching heuristics here are best-effort: substring containment and
// leading-segment splits can produce false positives and negatives on
// real data. Every rule only MERGEs edges keyed on the same (source,
// target) pair, so re-running adds nothing and removes nothing.
var linkRules = []linkRule{
	{
		Name: "FaultCode -[:CLASSIFIED_UNDER]-> ATAChapter",
		Query: `
			MATCH (fc:FaultCode) WHERE fc.ataChapter IS NOT NULL AND fc.ataChapter <> ''
			MATCH (ata:ATAChapter {chapter: fc.ataChapter})
			MERGE (fc)-[:CLASSIFIED_UNDER]->(ata)
			RETURN count(*) AS count
		`,
	},
	{
		Name: "MaintenanceEvent -[:CLASSIFIED_AS]-> FaultCode",
		Query: `
			MATCH (me:MaintenanceEvent) WHERE me.fault IS NOT NULL AND me.fault <> ''
			MATCH (fc:FaultCode)
			WHERE toLower(fc.description) CONTAINS toLower(me.fault)
			MERGE (me)-[:CLASSIFIED_AS]->(fc)
			RETURN count(*) AS count
		`,
	},
	{
		Name: "PartNumber -[:CLASSIFIED_UNDER]-> ATAChapter",
		Query: `
			MATCH (pn:PartNumber) WHERE pn.ataReference IS NOT NULL AND pn.ataReference <> ''
			WITH pn, split(pn.ataReference, '-')[0] AS chapter
			MATCH (ata:ATAChapter {chapter: chapter})
			MERGE (pn)-[:CLASSIFIED_UNDER]->(ata)
			RETURN count(*) AS count
		`,
	},
	{
		Name: "Component -[:IDENTIFIED_BY]-> PartNumber",
		Query: `
			MATCH (c:Component)
			MATCH (pn:PartNumber)
			WHERE toLower(c.name) = toLower(pn.componentName)
			MERGE (c)-[:IDENTIFIED_BY]->(pn)
			RETURN count(*) AS count
		`,
	},
	{
		Name: "Sensor -[:HAS_LIMIT]-> OperatingLimit",
		Query: `
			MATCH (a:Aircraft)-[:HAS_SYSTEM]->(sys:System)-[:HAS_SENSOR]->(s:Sensor)
			MATCH (ol:OperatingLimit {parameter: s.type, aircraftType: a.model})
			MERGE (s)-[:HAS_LIMIT]->(ol)
			RETURN count(*) AS count
		`,
	},
}

// LinkToOperationalGraph runs the five fixed cross-link rules. Each rule
// is independent and additive-only; edges are never removed or updated.
func (r *Repository) LinkToOperationalGraph(ctx context.Context) (LinkCounts, error) {
	var counts LinkCounts
	targets := []*int{
		&counts.FaultCodeToChapter,
		&counts.EventToFaultCode,
		&counts.PartNumberToChapter,
		&counts.ComponentToPart,
		&counts.SensorToLimit,
	}

	for i, rule := range linkRules {
		count, err := r.runLinkRule(ctx, rule)
		if err != nil {
			return counts, fmt.Errorf("cross-link rule %q failed: %w", rule.Name, err)
		}
		*targets[i] = count
		r.logger.Info("Cross-link rule applied",
			zap.String("rule", rule.Name),
			zap.Int("edges", count),
		)
	}
	return counts, nil
}

func (r *Repository) runLinkRule(ctx context.Context, rule linkRule) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, rule.Query, nil)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	return getIntFromRecord(record, "count"), nil
}
