package articles

import (
	"context"
	"fmt"
	"log/slog"

	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	"newsdesk/internal/repository/postgres"
)

// PostgresCatalogRepository implements CatalogRepository
type PostgresCatalogRepository struct {
	pool   postgres.PgxIface
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(config *postgres.RepositoryConfig) articlesRepo.CatalogRepository {
	return &PostgresCatalogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// CategoriesByIDs returns the categories that exist among ids
func (r *PostgresCatalogRepository) CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, slug, name, created_at FROM %s WHERE id = ANY($1)
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// TagsByIDs returns the tags that exist among ids
func (r *PostgresCatalogRepository) TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return []models.Tag{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, slug, name, created_at FROM %s WHERE id = ANY($1)
	`, r.tables.Tags)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// UpsertCategory inserts a category or refreshes its name and slug
func (r *PostgresCatalogRepository) UpsertCategory(ctx context.Context, c *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET slug = EXCLUDED.slug, name = EXCLUDED.name
		RETURNING created_at
	`, r.tables.Categories)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, c.ID, c.Slug, c.Name).Scan(&c.CreatedAt); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return slugConflict("category", c.Slug)
		}
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// UpsertTag inserts a tag or refreshes its name and slug
func (r *PostgresCatalogRepository) UpsertTag(ctx context.Context, t *models.Tag) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, slug, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET slug = EXCLUDED.slug, name = EXCLUDED.name
		RETURNING created_at
	`, r.tables.Tags)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, t.ID, t.Slug, t.Name).Scan(&t.CreatedAt); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return slugConflict("tag", t.Slug)
		}
		return fmt.Errorf("upsert tag: %w", err)
	}
	return nil
}
