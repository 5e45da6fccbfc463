package articles

import (
	"context"
	"fmt"
	"log/slog"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	"newsdesk/internal/repository/postgres"
)

// PostgresArticleRepository implements the article, bulk and stats repositories
type PostgresArticleRepository struct {
	pool   postgres.PgxIface
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(config *postgres.RepositoryConfig) *PostgresArticleRepository {
	return &PostgresArticleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

var (
	_ articlesRepo.ArticleRepository = (*PostgresArticleRepository)(nil)
	_ articlesRepo.BulkRepository    = (*PostgresArticleRepository)(nil)
	_ articlesRepo.StatsRepository   = (*PostgresArticleRepository)(nil)
)

// Create inserts a new article
func (r *PostgresArticleRepository) Create(ctx context.Context, a *models.Article) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, slug, title, content, excerpt, type, category, level, sentiment,
			content_type, warning_level, project_highlight, read_time, cover_image,
			cover_image_alt, published, fact_check_score, fact_check_sources,
			fact_check_status, fact_check_date, tags, keywords, security_tips,
			related_article_ids, author_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)
	`, r.tables.Articles)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		a.ID,
		a.Slug,
		a.Title,
		a.Content,
		a.Excerpt,
		string(a.Type),
		a.Category,
		levelValue(a.Level),
		string(a.Sentiment),
		a.ContentType,
		warningValue(a.WarningLevel),
		a.ProjectHighlight,
		a.ReadTime,
		a.CoverImage,
		a.CoverImageAlt,
		a.Published,
		a.FactCheckScore,
		encodeList(a.FactCheckSources),
		a.FactCheckStatus,
		timeValue(a.FactCheckDate),
		encodeList(a.Tags),
		encodeList(a.Keywords),
		encodeList(a.SecurityTips),
		encodeList(a.RelatedArticleIDs),
		a.AuthorID,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return r.translateWriteError(err, a)
	}

	return nil
}

// GetByID retrieves an article by ID
func (r *PostgresArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s a
		LEFT JOIN %s au ON au.id = a.author_id
		WHERE a.id = $1
	`, articleColumns, r.tables.Articles, r.tables.Authors)

	executor := postgres.GetExecutor(ctx, r.pool)
	article, err := scanArticle(executor.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("article", id)
		}
		return nil, fmt.Errorf("get article: %w", err)
	}

	return article, nil
}

// GetBySlug retrieves an article by slug
func (r *PostgresArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s a
		LEFT JOIN %s au ON au.id = a.author_id
		WHERE a.slug = $1
	`, articleColumns, r.tables.Articles, r.tables.Authors)

	executor := postgres.GetExecutor(ctx, r.pool)
	article, err := scanArticle(executor.QueryRow(ctx, query, slug))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("article with slug", slug)
		}
		return nil, fmt.Errorf("get article by slug: %w", err)
	}

	return article, nil
}

// SlugTaken reports whether an article other than excludeID owns slug
func (r *PostgresArticleRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE slug = $1 AND id <> $2)
	`, r.tables.Articles)

	var taken bool
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, slug, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return taken, nil
}

// ExistingIDs returns the subset of ids that exist, in input order
func (r *PostgresArticleRepository) ExistingIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = ANY($1)`, r.tables.Articles)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("check article ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan article id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article ids: %w", err)
	}

	existing := make([]string, 0, len(found))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// Update overwrites every mutable column; created_at is never written
func (r *PostgresArticleRepository) Update(ctx context.Context, a *models.Article) error {
	query := fmt.Sprintf(`
		UPDATE %s SET
			slug = $1, title = $2, content = $3, excerpt = $4, type = $5, category = $6,
			level = $7, sentiment = $8, content_type = $9, warning_level = $10,
			project_highlight = $11, read_time = $12, cover_image = $13,
			cover_image_alt = $14, published = $15, fact_check_score = $16,
			fact_check_sources = $17, fact_check_status = $18, fact_check_date = $19,
			tags = $20, keywords = $21, security_tips = $22, related_article_ids = $23,
			author_id = $24, updated_at = $25
		WHERE id = $26
	`, r.tables.Articles)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		a.Slug,
		a.Title,
		a.Content,
		a.Excerpt,
		string(a.Type),
		a.Category,
		levelValue(a.Level),
		string(a.Sentiment),
		a.ContentType,
		warningValue(a.WarningLevel),
		a.ProjectHighlight,
		a.ReadTime,
		a.CoverImage,
		a.CoverImageAlt,
		a.Published,
		a.FactCheckScore,
		encodeList(a.FactCheckSources),
		a.FactCheckStatus,
		timeValue(a.FactCheckDate),
		encodeList(a.Tags),
		encodeList(a.Keywords),
		encodeList(a.SecurityTips),
		encodeList(a.RelatedArticleIDs),
		a.AuthorID,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return r.translateWriteError(err, a)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("article", a.ID)
	}

	return nil
}

// Delete hard-deletes an article; citations go with it via ON DELETE CASCADE
func (r *PostgresArticleRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Articles)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.NewNotFound("article", id)
	}

	return nil
}

// translateWriteError maps constraint violations onto domain errors
func (r *PostgresArticleRepository) translateWriteError(err error, a *models.Article) error {
	switch {
	case postgres.IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("article with slug '%s' already exists", a.Slug),
			ResourceType: "article",
			ResourceID:   a.Slug,
		}
	case postgres.IsPgForeignKeyError(err):
		return domain.NewNotFound("author", a.AuthorID)
	default:
		return fmt.Errorf("write article %s: %w", a.ID, err)
	}
}
