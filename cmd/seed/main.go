package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"newsdesk/internal/auth"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/repository/postgres"
	postgresArticles "newsdesk/internal/repository/postgres/articles"
	"newsdesk/internal/service/articles"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed data")
	clearData := flag.Bool("clear-data", false, "Clear all articles and citations (keep schema and catalog)")
	catalogPath := flag.String("catalog", "", "Catalog YAML file (defaults to CATALOG_FILE)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()
	if *catalogPath == "" {
		*catalogPath = cfg.CatalogFile
	}

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger := config.NewLogger(cfg.Environment, os.Stdout)

	switch {
	case *clearData:
		log.Printf("Clearing articles (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropAll(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.Migrate(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		return
	}

	if *clearData {
		if err := postgres.ClearArticles(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		invalidateStats(ctx, cfg)
		log.Println("Articles cleared")
		return
	}

	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	articleRepo := postgresArticles.NewArticleRepository(repoConfig)
	catalogRepo := postgresArticles.NewCatalogRepository(repoConfig)
	authorRepo := postgresArticles.NewAuthorRepository(repoConfig)

	// Logins are only provisioned when the service key is available
	var admin *auth.AdminClient
	if url, key := os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_SERVICE_KEY"); url != "" && key != "" {
		admin = auth.NewAdminClient(url, key)
	}

	if err := upsertCatalog(ctx, catalog, catalogRepo, authorRepo, admin, cfg.AdminRole); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	if catalog.ArticlesDir == "" || len(catalog.Authors) == 0 {
		log.Println("Seeding complete (no articles)")
		return
	}

	// Articles go through the service so every create rule applies
	service := articles.New(articles.Dependencies{
		Articles:   articleRepo,
		Bulk:       articleRepo,
		Stats:      articleRepo,
		Citations:  postgresArticles.NewCitationRepository(repoConfig),
		Catalog:    catalogRepo,
		Authors:    authorRepo,
		TxManager:  postgres.NewTransactionManager(pool, logger),
		Pagination: cfg.Pagination,
		MaxBulk:    cfg.MaxBulk,
		Logger:     logger,
	})

	files, err := markdownFiles(catalog.ArticlesDir)
	if err != nil {
		log.Fatalf("Failed to list articles: %v", err)
	}

	// Frontmatter without an author falls back to the first catalog author
	defaultAuthor := catalog.Authors[0].ID
	created := 0
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Failed to read %s: %v", path, err)
			continue
		}

		article, err := service.Import(ctx, &articlesSvc.ImportRequest{
			Markdown: string(data),
			Filename: filepath.Base(path),
		}, defaultAuthor)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				log.Printf("Skipped %d/%d: %s (already seeded)", i+1, len(files), path)
				continue
			}
			log.Printf("Failed to import %s: %v", path, err)
			continue
		}

		created++
		log.Printf("Created article %d/%d: %s (ID: %s, read time: %s)",
			i+1, len(files), article.Slug, article.ID, article.ReadTime)
	}

	if created > 0 {
		invalidateStats(ctx, cfg)
	}
	log.Printf("Seeding complete: %d new articles", created)
}

// invalidateStats drops the cached snapshot so the server recomputes it
func invalidateStats(ctx context.Context, cfg *config.Config) {
	if cfg.RedisURL == "" {
		return
	}
	c, err := cache.NewRedisStatsCache(cfg.RedisURL, cfg.TablePrefix, cfg.StatsCacheTTL)
	if err != nil {
		log.Printf("Warning: could not open stats cache: %v", err)
		return
	}
	defer func() { _ = c.Close() }()

	if err := c.Invalidate(ctx); err != nil {
		log.Printf("Warning: could not invalidate stats cache: %v", err)
	}
}
