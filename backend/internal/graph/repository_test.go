package graph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHelpers(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"id", "nodes", "small", "missing", "wrong"},
		Values: []any{"b-1", int64(7), 3, nil, 1.5},
	}

	assert.Equal(t, "b-1", getStringFromRecord(record, "id"))
	assert.Equal(t, int64(7), getInt64FromRecord(record, "nodes"))
	assert.Equal(t, int64(3), getInt64FromRecord(record, "small"))
	assert.Equal(t, "", getStringFromRecord(record, "missing"))
	assert.Equal(t, int64(0), getInt64FromRecord(record, "wrong"))
	assert.Equal(t, "", getStringFromRecord(record, "absent"))
}

// TestRepository_Export requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
func TestRepository_Export(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver(ctx)
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	buildID := "test-build-" + time.Now().Format("20060102150405.000")
	defer func() { _ = repo.Delete(ctx, buildID) }()

	opts := DefaultOptions()
	opts.ShowPerson = false
	opts.EdgePolicy = EdgesIgnoreVisibility
	res := NewBuilder(nil, nil).Build([]*Passage{
		{Reference: "Mt 2:1", Text: "Jesus was born in Bethlehem, Grace upon Grace"},
	}, opts)

	require.NoError(t, repo.Export(ctx, buildID, "birth", res))

	summary, err := repo.Summary(ctx, buildID)
	require.NoError(t, err)
	assert.Equal(t, "birth", summary.Topic)
	assert.Equal(t, int64(len(res.Graph.Nodes)), summary.Nodes)
	// two attribution edges plus the one co-occurrence edge between visible nodes
	assert.Equal(t, int64(3), summary.Relationships)
}

func TestRepository_SchemaAndPrune(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver(ctx)
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	repo := NewRepository(driver)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema setup is idempotent")

	buildID := "test-prune-" + time.Now().Format("20060102150405.000")
	res := NewBuilder(nil, nil).Build([]*Passage{{Reference: "Ps 23:1", Text: "The Lord is my shepherd"}}, DefaultOptions())
	require.NoError(t, repo.Export(ctx, buildID, "shepherd", res))

	// a cutoff in the past keeps the fresh build
	_, err = repo.Prune(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = repo.Summary(ctx, buildID)
	require.NoError(t, err)

	deleted, err := repo.Prune(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, deleted, int64(1))

	_, err = repo.Summary(ctx, buildID)
	assert.IsType(t, ErrBuildNotFound{}, err)
}

func TestRepository_Summary_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver(ctx)
	if err != nil {
		t.Skipf("Neo4j not available: %v", err)
	}
	defer driver.Close(ctx)

	_, err = NewRepository(driver).Summary(ctx, "non-existent-build")
	require.Error(t, err)
	_, ok := err.(ErrBuildNotFound)
	assert.True(t, ok, "expected ErrBuildNotFound, got %T", err)
}

func createTestDriver(ctx context.Context) (neo4j.DriverWithContext, error) {
	uri := envOr("NEO4J_URI", "bolt://localhost:7687")
	user := envOr("NEO4J_USER", "neo4j")
	password := envOr("NEO4J_PASSWORD", "password")
	return Connect(ctx, uri, user, password)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
