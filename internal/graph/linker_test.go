package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRules_Fixed(t *testing.T) {
	require.Len(t, linkRules, 5)

	names := make([]string, len(linkRules))
	for i, rule := range linkRules {
		names[i] = rule.Name
	}
	assert.Equal(t, []string{
		"FaultCode -[:CLASSIFIED_UNDER]-> ATAChapter",
		"MaintenanceEvent -[:CLASSIFIED_AS]-> FaultCode",
		"PartNumber -[:CLASSIFIED_UNDER]-> ATAChapter",
		"Component -[:IDENTIFIED_BY]-> PartNumber",
		"Sensor -[:HAS_LIMIT]-> OperatingLimit",
	}, names)
}

func TestLinkRules_AdditiveAndIdempotent(t *testing.T) {
	for _, rule := range linkRules {
		assert.Contains(t, rule.Query, "MERGE", rule.Name)
		assert.NotContains(t, rule.Query, "DELETE", rule.Name)
		assert.NotContains(t, rule.Query, "CREATE", rule.Name)
		// Each rule reports how many edges it created
		assert.Contains(t, rule.Query, "RETURN count(*) AS count", rule.Name)
	}
}

func TestLinkRules_EventMatchByContainment(t *testing.T) {
	var eventRule *linkRule
	for i := range linkRules {
		if strings.Contains(linkRules[i].Name, "MaintenanceEvent") {
			eventRule = &linkRules[i]
		}
	}
	require.NotNil(t, eventRule)
	assert.Contains(t, eventRule.Query, "CONTAINS")
	assert.Contains(t, eventRule.Query, "toLower")
}

func TestEnrichmentLabels_ExcludeOperationalGraph(t *testing.T) {
	swept := make(map[string]bool)
	for _, label := range enrichmentLabels {
		swept[label] = true
	}

	for _, label := range []string{"Document", "Chunk", "FaultCode", "PartNumber",
		"OperatingLimit", "MaintenanceTask", "ATAChapter", "__Entity__", "__KGBuilder__"} {
		assert.True(t, swept[label], "label %s must be swept", label)
	}
	for _, label := range []string{"Aircraft", "System", "Component", "Sensor",
		"Flight", "MaintenanceEvent", "Removal"} {
		assert.False(t, swept[label], "operational label %s must never be swept", label)
	}
}

func TestIndexNames_Fixed(t *testing.T) {
	assert.Equal(t, "maintenanceChunkEmbeddings", VectorIndexName)
	assert.Equal(t, "maintenanceChunkText", FulltextIndexName)
}
