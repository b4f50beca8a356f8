package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/domain/repositories"
	blocksysRepo "inkwell/internal/domain/repositories/blocksys"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/repository/memory"
	"inkwell/internal/repository/postgres"
	postgresBlocksys "inkwell/internal/repository/postgres/blocksys"
	serviceBlocksys "inkwell/internal/service/blocksys"
	"inkwell/internal/service/blocksys/converter"
	"inkwell/internal/service/blocksys/converter/sanitizer"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Repositories: Postgres when DATABASE_URL is set, in-memory otherwise
	var (
		docRepo       blocksysRepo.DocumentRepository
		workspaceRepo blocksysRepo.WorkspaceRepository
		txManager     repositories.TransactionManager
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		logger.Info("database connected", "max_conns", 25, "min_conns", 5)

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: postgres.NewTableNames(cfg.TablePrefix),
			Logger: logger,
		}
		docRepo = postgresBlocksys.NewDocumentRepository(repoConfig)
		workspaceRepo = postgresBlocksys.NewWorkspaceRepository(repoConfig)
		txManager = postgres.NewTransactionManager(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory repositories")
		docRepo = memory.NewDocumentRepository()
		workspaceRepo = memory.NewWorkspaceRepository()
		txManager = memory.NewTransactionManager()
	}

	// Document cache: Redis when configured, otherwise a noop
	docCache := cache.NewNoopCache()
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		docCache = redisCache
		logger.Info("document cache enabled", "redis_addr", cfg.RedisAddr)
	}

	// Services
	validator := serviceBlocksys.NewResourceValidator(workspaceRepo, docRepo)
	docService := serviceBlocksys.NewDocumentService(docRepo, txManager, docCache, validator, logger)
	workspaceService := serviceBlocksys.NewWorkspaceService(workspaceRepo, logger)
	treeService := serviceBlocksys.NewTreeService(docRepo, logger)
	importService := serviceBlocksys.NewImportService(docService, logger)

	bridge := converter.NewBridge()
	exporter := converter.NewMarkdownExporter(bridge)
	htmlSanitizer := sanitizer.NewHTMLSanitizer()

	debounce := time.Duration(cfg.SaveDebounceMillis) * time.Millisecond
	sessions := serviceBlocksys.NewManager(docRepo, docCache, debounce, logger)

	// Handlers
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService, logger)
	docHandler := handler.NewDocumentHandler(docService, sessions, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	contentHandler := handler.NewContentHandler(docService, bridge, exporter, htmlSanitizer, sessions, logger)
	blockOpsHandler := handler.NewBlockOpsHandler(sessions, logger)
	importHandler := handler.NewImportHandler(importService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", workspaceHandler.HealthCheck)

	// Workspace routes
	mux.HandleFunc("GET /api/workspaces", workspaceHandler.ListWorkspaces)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.CreateWorkspace)
	mux.HandleFunc("GET /api/workspaces/{id}", workspaceHandler.GetWorkspace)
	mux.HandleFunc("PATCH /api/workspaces/{id}", workspaceHandler.UpdateWorkspace)
	mux.HandleFunc("DELETE /api/workspaces/{id}", workspaceHandler.DeleteWorkspace)

	// Sidebar tree routes
	mux.HandleFunc("GET /api/workspaces/{id}/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/workspaces/{id}/tree/expanded", treeHandler.GetExpanded)
	mux.HandleFunc("GET /api/workspaces/{id}/documents", docHandler.ListDocuments)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/move", docHandler.MoveDocument)
	mux.HandleFunc("POST /api/documents/{id}/duplicate", docHandler.DuplicateDocument)

	// Content bridge routes
	mux.HandleFunc("GET /api/documents/{id}/content", contentHandler.GetContent)
	mux.HandleFunc("PUT /api/documents/{id}/content", contentHandler.PutContent)
	mux.HandleFunc("GET /api/documents/{id}/export", contentHandler.Export)
	mux.HandleFunc("GET /api/documents/{id}/save-status", contentHandler.SaveStatus)

	// Editor operation routes
	mux.HandleFunc("POST /api/documents/{id}/blocks/ops", blockOpsHandler.Apply)
	mux.HandleFunc("GET /api/documents/{id}/mentions", blockOpsHandler.MentionCandidates)
	mux.HandleFunc("GET /api/commands", blockOpsHandler.Commands)

	// Import routes
	mux.HandleFunc("POST /api/import", importHandler.Import)

	// Build middleware chain
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
