package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	blocksysSvc "inkwell/internal/domain/services/blocksys"
	"inkwell/internal/repository/postgres"
	postgresBlocksys "inkwell/internal/repository/postgres/blocksys"
	serviceBlocksys "inkwell/internal/service/blocksys"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed documents")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	// Create repositories and services
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgresBlocksys.NewDocumentRepository(repoConfig)
	workspaceRepo := postgresBlocksys.NewWorkspaceRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	validator := serviceBlocksys.NewResourceValidator(workspaceRepo, docRepo)
	docService := serviceBlocksys.NewDocumentService(docRepo, txManager, cache.NewNoopCache(), validator, logger)
	workspaceService := serviceBlocksys.NewWorkspaceService(workspaceRepo, logger)
	importService := serviceBlocksys.NewImportService(docService, logger)

	log.Println("📝 Seeding sample workspace...")

	ws, err := workspaceService.CreateWorkspace(ctx, "Getting Started")
	if err != nil {
		log.Fatalf("Failed to create workspace: %v", err)
	}
	log.Printf("✅ Created workspace %s (ID: %s)", ws.Name, ws.ID)

	result, err := importService.ImportFiles(ctx, ws.ID, seedFiles())
	if err != nil {
		log.Fatalf("Failed to seed documents: %v", err)
	}
	for _, doc := range result.Documents {
		log.Printf("✅ Created document: %s (ID: %s)", doc.Title, doc.ID)
	}
	for _, importErr := range result.Errors {
		log.Printf("❌ Failed to create document from '%s': %s", importErr.File, importErr.Error)
	}

	log.Println("🎉 Seeding complete!")
}

// seedFiles returns the markdown content for the sample workspace.
func seedFiles() []blocksysSvc.ImportFile {
	welcome := `---
title: Welcome
icon: "👋"
---
# Welcome to your workspace

Type / anywhere to open the command menu.

- Organize pages in the sidebar tree
- Link pages with the @ mention menu
- [ ] Try checking off a task

---

| Name | Status |
| --- | --- |
| First steps | Done |
`
	meetingNotes := `---
title: Meeting Notes
icon: "📝"
---
## Weekly sync

> Decisions land here, one callout per decision.

1. Review open tasks
2. Assign owners
`
	return []blocksysSvc.ImportFile{
		{Name: "welcome.md", Content: []byte(welcome)},
		{Name: "meeting-notes.md", Content: []byte(meetingNotes)},
	}
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createWorkspaces := `
		CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createWorkspaces); err != nil {
		return err
	}

	// parent_id has no FK to the documents table itself: the hierarchy is
	// derived and cascade delete runs in the service layer, so a parent
	// row can be deleted in the same transaction as its children.
	createDocuments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY,
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			parent_id UUID,
			title TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT '',
			cover_image TEXT NOT NULL DEFAULT '',
			blocks JSONB NOT NULL DEFAULT '[]',
			is_template BOOLEAN NOT NULL DEFAULT FALSE,
			word_count INTEGER NOT NULL DEFAULT 0,
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDocuments); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_workspace_id ON ` + tables.Documents + `(workspace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `documents_workspace_parent ON ` + tables.Documents + `(workspace_id, parent_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Documents,
		tables.Workspaces,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
