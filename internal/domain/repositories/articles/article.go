package articles

import (
	"context"
	"time"

	models "newsdesk/internal/domain/models/articles"
)

// ArticleRepository defines data access operations for articles
type ArticleRepository interface {
	// Create inserts a new article row (citations are written separately)
	Create(ctx context.Context, article *models.Article) error

	// GetByID retrieves an article with its author projection
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// GetBySlug retrieves an article by its unique slug
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// SlugTaken reports whether another article (not excludeID) owns slug
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)

	// ExistingIDs returns the subset of ids that exist
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)

	// Update overwrites every mutable column of an existing article
	Update(ctx context.Context, article *models.Article) error

	// Delete hard-deletes an article; citations cascade
	Delete(ctx context.Context, id string) error

	// Count returns the number of articles matching filters
	Count(ctx context.Context, filters *models.ListFilters) (int, error)

	// List returns one page of articles matching filters, without citations
	List(ctx context.Context, filters *models.ListFilters) ([]models.Article, error)
}

// BulkRepository applies set-based mutations; each returns rows affected
type BulkRepository interface {
	SetPublished(ctx context.Context, ids []string, published bool, at time.Time) (int, error)
	SetCategory(ctx context.Context, ids []string, category string, at time.Time) (int, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

// StatsRepository computes aggregates over all articles
type StatsRepository interface {
	CountByPublication(ctx context.Context) (models.PublicationCounts, error)
	CountByType(ctx context.Context) ([]models.GroupCount, error)
	CountByCategory(ctx context.Context) ([]models.GroupCount, error)
	CountBySentiment(ctx context.Context) ([]models.GroupCount, error)
}

// CitationRepository manages the citations owned by an article
type CitationRepository interface {
	// ReplaceForArticle deletes every citation of the article, then inserts citations
	ReplaceForArticle(ctx context.Context, articleID string, citations []models.Citation) error

	// ListByArticle returns citations ordered by position, ties in the order
	// they were passed to ReplaceForArticle
	ListByArticle(ctx context.Context, articleID string) ([]models.Citation, error)
}
