package graph

import (
	"context"
	"fmt"
	"time"

	apperrors "scripture-graph/backend/pkg/errors"
	"scripture-graph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Repository writes finished builds to Neo4j so they can be browsed there.
// Builds are write-only: nothing in the service reads them back.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// ExportSummary counts what one exported build left in the database
type ExportSummary struct {
	BuildID       string
	Topic         string
	Nodes         int64
	Relationships int64
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("neo4j"),
	}
}

// Connect opens and verifies a driver
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewExportConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewExportConnectionFailed(uri, err)
	}
	return driver, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// Export stores res under buildID in one write transaction. Co-occurrence
// edges whose endpoints have no node are dropped by the MATCH.
func (r *Repository) Export(ctx context.Context, buildID, topic string, res *Result) error {
	if res == nil || res.Graph == nil {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	nodes := make([]map[string]interface{}, 0, len(res.Graph.Nodes))
	for _, n := range res.Graph.Nodes {
		nodes = append(nodes, map[string]interface{}{
			"key":      n.Key,
			"kind":     string(n.Kind),
			"label":    n.Label,
			"tooltip":  n.Tooltip,
			"category": string(n.Category),
			"count":    int64(n.Count),
			"color":    n.Style.Color,
		})
	}
	edges := make([]map[string]interface{}, 0, len(res.Graph.Edges))
	for _, e := range res.Graph.Edges {
		edges = append(edges, map[string]interface{}{
			"from":  e.From,
			"to":    e.To,
			"kind":  string(e.Kind),
			"label": e.Label,
		})
	}

	params := map[string]interface{}{
		"buildID": buildID,
		"topic":   topic,
		"now":     time.Now().UTC().Format(time.RFC3339),
		"nodes":   nodes,
		"edges":   edges,
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if _, err := tx.Run(ctx, `
			CREATE (b:GraphBuild {id: $buildID, topic: $topic, created_at: datetime($now)})
		`, params); err != nil {
			return nil, fmt.Errorf("failed to create build: %w", err)
		}

		if _, err := tx.Run(ctx, `
			MATCH (b:GraphBuild {id: $buildID})
			UNWIND $nodes AS n
			CREATE (b)-[:CONTAINS]->(:GraphNode {
				build_id: $buildID,
				key: n.key,
				kind: n.kind,
				label: n.label,
				tooltip: n.tooltip,
				category: n.category,
				count: n.count,
				color: n.color
			})
		`, params); err != nil {
			return nil, fmt.Errorf("failed to create nodes: %w", err)
		}

		if _, err := tx.Run(ctx, `
			UNWIND $edges AS e
			MATCH (a:GraphNode {build_id: $buildID, key: e.from})
			MATCH (z:GraphNode {build_id: $buildID, key: e.to})
			FOREACH (x IN CASE WHEN e.kind = 'attribution' THEN [1] ELSE [] END |
				CREATE (a)-[:MENTIONS]->(z))
			FOREACH (x IN CASE WHEN e.kind = 'cooccurrence' THEN [1] ELSE [] END |
				CREATE (a)-[:CO_OCCURS {passage: e.label}]->(z))
		`, params); err != nil {
			return nil, fmt.Errorf("failed to create edges: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		return apperrors.NewExportQueryFailed(buildID, err)
	}

	r.logger.Info("Graph exported",
		zap.String("build_id", buildID),
		zap.String("topic", topic),
		zap.Int("nodes", len(nodes)),
		zap.Int("edges", len(edges)),
	)
	return nil
}

// Summary reports how many nodes and relationships a build stored
func (r *Repository) Summary(ctx context.Context, buildID string) (*ExportSummary, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (b:GraphBuild {id: $buildID})
		OPTIONAL MATCH (b)-[:CONTAINS]->(n:GraphNode)
		OPTIONAL MATCH (n)-[rel]->(:GraphNode {build_id: $buildID})
		RETURN b.id AS id, b.topic AS topic,
			count(DISTINCT n) AS nodes, count(DISTINCT rel) AS relationships
	`, map[string]interface{}{"buildID": buildID})
	if err != nil {
		return nil, apperrors.NewExportQueryFailed(buildID, err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewExportQueryFailed(buildID, err)
		}
		return nil, ErrBuildNotFound{BuildID: buildID}
	}

	record := result.Record()
	return &ExportSummary{
		BuildID:       getStringFromRecord(record, "id"),
		Topic:         getStringFromRecord(record, "topic"),
		Nodes:         getInt64FromRecord(record, "nodes"),
		Relationships: getInt64FromRecord(record, "relationships"),
	}, nil
}

// Delete removes an exported build
func (r *Repository) Delete(ctx context.Context, buildID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MATCH (b:GraphBuild {id: $buildID})
		OPTIONAL MATCH (b)-[:CONTAINS]->(n:GraphNode)
		DETACH DELETE b, n
	`, map[string]interface{}{"buildID": buildID})
	if err != nil {
		return apperrors.NewExportQueryFailed(buildID, err)
	}
	return nil
}

// EnsureSchema creates the constraint and indexes exports rely on. It is
// idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []struct {
		name  string
		query string
	}{
		{"build id", "CREATE CONSTRAINT graph_build_id IF NOT EXISTS FOR (b:GraphBuild) REQUIRE b.id IS UNIQUE"},
		{"node key", "CREATE INDEX graph_node_build_key IF NOT EXISTS FOR (n:GraphNode) ON (n.build_id, n.key)"},
		{"node category", "CREATE INDEX graph_node_category IF NOT EXISTS FOR (n:GraphNode) ON (n.category)"},
		{"build topic", "CREATE INDEX graph_build_topic IF NOT EXISTS FOR (b:GraphBuild) ON (b.topic)"},
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt.query, nil); err != nil {
			return apperrors.NewExportQueryFailed("schema", fmt.Errorf("%s: %w", stmt.name, err))
		}
		r.logger.Debug("Schema statement applied", zap.String("name", stmt.name))
	}
	return nil
}

// Prune deletes builds created before cutoff and returns how many went
func (r *Repository) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			MATCH (b:GraphBuild)
			WHERE b.created_at < datetime($cutoff)
			OPTIONAL MATCH (b)-[:CONTAINS]->(n:GraphNode)
			WITH b, collect(n) AS nodes
			FOREACH (n IN nodes | DETACH DELETE n)
			DETACH DELETE b
			RETURN count(b) AS deleted
		`, map[string]interface{}{"cutoff": cutoff.UTC().Format(time.RFC3339)})
		if err != nil {
			return int64(0), err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return int64(0), err
		}
		return getInt64FromRecord(record, "deleted"), nil
	})
	if err != nil {
		return 0, apperrors.NewExportQueryFailed("prune", err)
	}

	count := deleted.(int64)
	r.logger.Info("Pruned exported builds",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", count),
	)
	return count, nil
}

// Errors

type ErrBuildNotFound struct {
	BuildID string
}

func (e ErrBuildNotFound) Error() string {
	return fmt.Sprintf("build not found: %s", e.BuildID)
}
