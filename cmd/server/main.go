package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"arbor/internal/auth"
	"arbor/internal/config"
	"arbor/internal/handler"
	"arbor/internal/middleware"
	"arbor/internal/repository/postgres"
	"arbor/internal/service/nodetree"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for the external identity provider
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	nodeRepo := postgres.NewNodeRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	tagRepo := postgres.NewTagRepository(repoConfig)
	activityRepo := postgres.NewActivityRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create services
	extractor := nodetree.NewRichTextExtractor()
	nodeService := nodetree.NewNodeService(nodeRepo, versionRepo, tagRepo, activityRepo, txManager, logger)
	treeService := nodetree.NewTreeService(nodeRepo, extractor, logger)
	searchService := nodetree.NewSearchService(nodeRepo, logger)
	tagService := nodetree.NewTagService(tagRepo, logger)
	activityService := nodetree.NewActivityService(activityRepo, logger)

	// Create handlers
	nodeHandler := handler.NewNodeHandler(nodeService, logger)
	treeHandler := handler.NewTreeHandler(treeService, logger)
	searchHandler := handler.NewSearchHandler(searchService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", nodeHandler.HealthCheck)

	// Node routes
	mux.HandleFunc("GET /api/nodes", nodeHandler.ListNodes)
	mux.HandleFunc("POST /api/nodes", nodeHandler.CreateNode)
	mux.HandleFunc("GET /api/nodes/children", nodeHandler.GetChildren) // Must come before {id} route
	mux.HandleFunc("GET /api/nodes/{id}", nodeHandler.GetNode)
	mux.HandleFunc("PATCH /api/nodes/{id}", nodeHandler.UpdateNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", nodeHandler.DeleteNode)
	mux.HandleFunc("POST /api/nodes/{id}/move", nodeHandler.MoveNode)
	mux.HandleFunc("POST /api/nodes/{id}/reorder", nodeHandler.ReorderNode)
	mux.HandleFunc("POST /api/nodes/{id}/share", nodeHandler.ToggleSharing)

	// Document routes
	mux.HandleFunc("POST /api/documents", nodeHandler.CreateDocument)
	mux.HandleFunc("PUT /api/documents/{id}/content", nodeHandler.UpdateContent)
	mux.HandleFunc("GET /api/documents/{id}/versions", nodeHandler.ListVersions)

	// Folder traversal routes
	mux.HandleFunc("GET /api/folders/{id}/stats", treeHandler.GetFolderStats)
	mux.HandleFunc("GET /api/folders/{id}/contributors", treeHandler.GetFolderContributors)
	mux.HandleFunc("GET /api/folders/{id}/descendants", treeHandler.GetDescendants)

	// Search route
	mux.HandleFunc("GET /api/search", searchHandler.Search)

	// Tag routes
	mux.HandleFunc("GET /api/tags", tagHandler.ListTags)
	mux.HandleFunc("POST /api/tags", tagHandler.CreateTag)

	// Activity route
	mux.HandleFunc("GET /api/activity", activityHandler.ListRecent)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupLogger builds the process logger: colorized human-readable output for
// dev terminals, JSON for everything else.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if cfg.Environment == "dev" {
		return slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		}))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
