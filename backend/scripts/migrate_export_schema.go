package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"scripture-graph/backend/internal/graph"
	"scripture-graph/backend/pkg/config"
	"scripture-graph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

const migrationVersion = "graph_export_v1"

func main() {
	force := flag.Bool("force", false, "Force migration even if already applied")
	pruneOlder := flag.Duration("prune-older-than", 0, "Also delete exported builds older than this (e.g. 720h)")
	skipConfirm := flag.Bool("y", false, "Skip confirmation prompt when pruning")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j export schema migration...")

	ctx := context.Background()
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}
	repo := graph.NewRepository(driver)
	defer repo.Close()

	applied, err := checkMigrationApplied(ctx, driver)
	if err != nil {
		log.Fatal("Failed to check migration status", zap.Error(err))
	}
	if applied && !*force {
		log.Info("Migration already applied. Use -force to reapply.")
	} else {
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		if err := markMigrationApplied(ctx, driver); err != nil {
			log.Warn("Failed to mark migration as applied", zap.Error(err))
		}
		log.Info("Migration completed successfully!")
	}

	if *pruneOlder <= 0 {
		return
	}

	cutoff := time.Now().Add(-*pruneOlder)
	if !*skipConfirm {
		log.Warn("This will delete every exported build created before the cutoff",
			zap.Time("cutoff", cutoff),
		)
		// Use fmt.Print for user input prompt (needs to go to stdout)
		fmt.Print("Are you sure you want to continue? (yes/no): ")
		var response string
		fmt.Scanln(&response)
		if response != "yes" && response != "y" {
			log.Info("Aborted.")
			os.Exit(0)
		}
	}

	deleted, err := repo.Prune(ctx, cutoff)
	if err != nil {
		log.Fatal("Prune failed", zap.Error(err))
	}
	log.Info("Prune completed", zap.Int64("deleted_builds", deleted))
}

func checkMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext) (bool, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (m:Migration {version: $version})
		RETURN m.applied_at as applied_at
	`, map[string]interface{}{"version": migrationVersion})
	if err != nil {
		return false, err
	}

	return result.Next(ctx), nil
}

func markMigrationApplied(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, `
		MERGE (m:Migration {version: $version})
		SET m.applied_at = datetime(),
		    m.description = 'Graph export constraint and indexes'
	`, map[string]interface{}{"version": migrationVersion})
	return err
}
