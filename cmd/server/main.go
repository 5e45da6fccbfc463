package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"newsdesk/internal/auth"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/handler"
	"newsdesk/internal/middleware"
	"newsdesk/internal/repository/postgres"
	postgresArticles "newsdesk/internal/repository/postgres/articles"
	"newsdesk/internal/service/articles"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logWriter, closeLog, err := cfg.LogWriter()
	if err != nil {
		log.Printf("file logging disabled: %v", err)
	}
	defer closeLog()

	logger := config.NewLogger(cfg.Environment, logWriter)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"auth_disabled", cfg.AuthDisabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgresArticles.NewArticleRepository(repoConfig)
	citationRepo := postgresArticles.NewCitationRepository(repoConfig)
	catalogRepo := postgresArticles.NewCatalogRepository(repoConfig)
	authorRepo := postgresArticles.NewAuthorRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Stats cache is optional; keep the interface nil when Redis is not configured
	var statsCache articlesSvc.StatsCache
	var cachePinger handler.Pinger
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisStatsCache(cfg.RedisURL, cfg.TablePrefix, cfg.StatsCacheTTL)
		if err != nil {
			log.Fatalf("Failed to create stats cache: %v", err)
		}
		defer func() { _ = redisCache.Close() }()

		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("stats cache unreachable at startup", "error", err)
		}
		statsCache = redisCache
		cachePinger = redisCache
		logger.Info("stats cache enabled", "ttl", cfg.StatsCacheTTL)
	}

	articleService := articles.New(articles.Dependencies{
		Articles:   articleRepo,
		Bulk:       articleRepo,
		Stats:      articleRepo,
		Citations:  citationRepo,
		Catalog:    catalogRepo,
		Authors:    authorRepo,
		TxManager:  txManager,
		Cache:      statsCache,
		Pagination: cfg.Pagination,
		MaxBulk:    cfg.MaxBulk,
		Logger:     logger,
	})

	var verifier auth.JWTVerifier
	if !cfg.AuthDisabled {
		jwtVerifier, err := auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer func() { _ = jwtVerifier.Close() }()
		verifier = jwtVerifier
	}

	authn := middleware.NewAuthenticator(middleware.AuthConfig{
		Verifier:  verifier,
		AdminRole: cfg.AdminRole,
		Disabled:  cfg.AuthDisabled,
		DevUserID: cfg.DevUserID,
		Logger:    logger,
	})

	articleHandler := handler.NewArticleHandler(articleService, logger)
	importHandler := handler.NewImportHandler(articleService, logger)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": pool,
		"cache":    cachePinger,
	}, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Public reads
	mux.Handle("GET /api/articles", authn.Optional(http.HandlerFunc(articleHandler.ListArticles)))
	mux.Handle("GET /api/articles/slug/{slug}", authn.Optional(http.HandlerFunc(articleHandler.GetArticleBySlug)))
	mux.Handle("GET /api/articles/{id}", authn.Optional(http.HandlerFunc(articleHandler.GetArticle)))

	// Admin routes: writes and stats
	mux.Handle("GET /api/articles/stats", authn.RequireAdmin(http.HandlerFunc(articleHandler.GetStats)))
	mux.Handle("POST /api/articles", authn.RequireAdmin(http.HandlerFunc(articleHandler.CreateArticle)))
	mux.Handle("POST /api/articles/import", authn.RequireAdmin(http.HandlerFunc(importHandler.Import)))
	mux.Handle("POST /api/articles/bulk", authn.RequireAdmin(http.HandlerFunc(articleHandler.BulkOperation)))
	mux.Handle("PATCH /api/articles/{id}", authn.RequireAdmin(http.HandlerFunc(articleHandler.UpdateArticle)))
	mux.Handle("PUT /api/articles/{id}", authn.RequireAdmin(http.HandlerFunc(articleHandler.UpdateArticle)))
	mux.Handle("DELETE /api/articles/{id}", authn.RequireAdmin(http.HandlerFunc(articleHandler.DeleteArticle)))
	mux.Handle("POST /api/articles/{id}/restore", authn.RequireAdmin(http.HandlerFunc(articleHandler.RestoreArticle)))

	// Build middleware chain
	// Order: CORS → Recovery → Metrics → Routes
	// Metrics wraps the mux directly so it can read the matched pattern.
	var h http.Handler = middleware.Metrics(mux)
	h = middleware.Recovery(logger)(h)

	// CORS - outermost to answer OPTIONS pre-flight requests before auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
