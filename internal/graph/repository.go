package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j-partners/aircraft-enrichment/pkg/logger"
	"go.uber.org/zap"
)

// batchSize caps the rows sent per UNWIND write. Batching exists purely
// for write throughput; a single-record batch produces the same end state.
const batchSize = 100

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// write runs a single parameterized write query
func (r *Repository) write(ctx context.Context, query string, params map[string]interface{}) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

// readCount runs a read query expected to return one integer column
func (r *Repository) readCount(ctx context.Context, query string, params map[string]interface{}) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	if len(record.Values) == 0 {
		return 0, fmt.Errorf("count query returned no columns")
	}
	if count, ok := record.Values[0].(int64); ok {
		return int(count), nil
	}
	return 0, fmt.Errorf("count query returned non-integer value")
}
