package graph

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j-partners/aircraft-enrichment/internal/merge"
	"github.com/neo4j-partners/aircraft-enrichment/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.
func createTestDriver(t *testing.T) neo4j.DriverWithContext {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		uri = "bolt://localhost:7687"
	}
	user := os.Getenv("NEO4J_USER")
	if user == "" {
		user = "neo4j"
	}
	password := os.Getenv("NEO4J_PASSWORD")
	if password == "" {
		password = "password"
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	require.NoError(t, err)

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Skipf("Neo4j not reachable: %v", err)
	}
	return driver
}

func testMeta() registry.DocumentMeta {
	return registry.DocumentMeta{
		Filename:     "TEST.md",
		DocumentID:   "TEST-DOC-" + time.Now().Format("20060102150405"),
		AircraftType: "A320-200",
		Title:        "Test Manual",
	}
}

func cleanupDoc(t *testing.T, driver neo4j.DriverWithContext, documentID string) {
	t.Helper()
	ctx := context.Background()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx,
		"MATCH (n) WHERE n.documentId = $id DETACH DELETE n",
		map[string]interface{}{"id": documentID})
}

func TestRepository_CreateChunks_ChainIntegrity(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	meta := testMeta()
	defer cleanupDoc(t, driver, meta.DocumentID)

	require.NoError(t, repo.CreateDocument(ctx, meta))
	texts := []string{"chunk zero", "chunk one", "chunk two", "chunk three"}
	require.NoError(t, repo.CreateChunks(ctx, meta.DocumentID, texts))

	// Chunk nodes form a single linear chain ordered by index:
	// n chunks, n-1 NEXT_CHUNK edges, no branching.
	chunkCount, err := repo.readCount(ctx,
		"MATCH (c:Chunk {documentId: $id}) RETURN count(c)",
		map[string]interface{}{"id": meta.DocumentID})
	require.NoError(t, err)
	assert.Equal(t, len(texts), chunkCount)

	chainCount, err := repo.readCount(ctx,
		"MATCH (c1:Chunk {documentId: $id})-[:NEXT_CHUNK]->(c2:Chunk) RETURN count(*)",
		map[string]interface{}{"id": meta.DocumentID})
	require.NoError(t, err)
	assert.Equal(t, len(texts)-1, chainCount)

	branching, err := repo.readCount(ctx, `
		MATCH (c:Chunk {documentId: $id})
		WHERE size([(c)-[:NEXT_CHUNK]->() | 1]) > 1
		   OR size([(c)<-[:NEXT_CHUNK]-() | 1]) > 1
		RETURN count(c)
	`, map[string]interface{}{"id": meta.DocumentID})
	require.NoError(t, err)
	assert.Zero(t, branching)
}

func TestRepository_CreateChunks_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	meta := testMeta()
	defer cleanupDoc(t, driver, meta.DocumentID)

	require.NoError(t, repo.CreateDocument(ctx, meta))
	texts := []string{"alpha", "beta"}
	require.NoError(t, repo.CreateChunks(ctx, meta.DocumentID, texts))
	require.NoError(t, repo.CreateChunks(ctx, meta.DocumentID, texts))

	count, err := repo.readCount(ctx,
		"MATCH (c:Chunk {documentId: $id}) RETURN count(c)",
		map[string]interface{}{"id": meta.DocumentID})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRepository_UpsertFaultCodes_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	meta := testMeta()
	code := fmt.Sprintf("TST-%s-001", time.Now().Format("150405"))
	defer func() {
		cleanupDoc(t, driver, meta.DocumentID)
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (fc:FaultCode {code: $code}) DETACH DELETE fc",
			map[string]interface{}{"code": code})
	}()

	require.NoError(t, repo.CreateDocument(ctx, meta))
	require.NoError(t, repo.CreateChunks(ctx, meta.DocumentID, []string{"text"}))

	codes := []*merge.FaultCode{{
		Code:           code,
		Description:    "Test fault",
		SeverityLevels: []string{"MINOR"},
		Sources:        []merge.Source{{DocumentID: meta.DocumentID, ChunkIndex: 0}},
	}}

	n, err := repo.UpsertFaultCodes(ctx, codes)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Re-running must not create a duplicate node or edge
	codes[0].Description = "Test fault with a longer description"
	_, err = repo.UpsertFaultCodes(ctx, codes)
	require.NoError(t, err)

	nodeCount, err := repo.readCount(ctx,
		"MATCH (fc:FaultCode {code: $code}) RETURN count(fc)",
		map[string]interface{}{"code": code})
	require.NoError(t, err)
	assert.Equal(t, 1, nodeCount)

	edgeCount, err := repo.readCount(ctx,
		"MATCH (fc:FaultCode {code: $code})-[:DOCUMENTED_IN]->(:Chunk) RETURN count(*)",
		map[string]interface{}{"code": code})
	require.NoError(t, err)
	assert.Equal(t, 1, edgeCount)
}

func TestRepository_ClearEnrichment_PreservesOperationalGraph(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	meta := testMeta()

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	sensorID := "test-sensor-" + time.Now().Format("20060102150405")
	_, err := session.Run(ctx, "CREATE (s:Sensor {sensor_id: $id, type: 'EGT'})",
		map[string]interface{}{"id": sensorID})
	session.Close(ctx)
	require.NoError(t, err)
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (s:Sensor {sensor_id: $id}) DETACH DELETE s",
			map[string]interface{}{"id": sensorID})
	}()

	require.NoError(t, repo.CreateDocument(ctx, meta))
	require.NoError(t, repo.CreateChunks(ctx, meta.DocumentID, []string{"text"}))

	_, err = repo.ClearEnrichment(ctx)
	require.NoError(t, err)

	docCount, err := repo.readCount(ctx,
		"MATCH (d:Document {documentId: $id}) RETURN count(d)",
		map[string]interface{}{"id": meta.DocumentID})
	require.NoError(t, err)
	assert.Zero(t, docCount)

	sensorCount, err := repo.readCount(ctx,
		"MATCH (s:Sensor {sensor_id: $id}) RETURN count(s)",
		map[string]interface{}{"id": sensorID})
	require.NoError(t, err)
	assert.Equal(t, 1, sensorCount)
}
