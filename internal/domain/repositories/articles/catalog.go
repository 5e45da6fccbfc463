package articles

import (
	"context"

	models "newsdesk/internal/domain/models/articles"
)

// CatalogRepository resolves categories and tags
type CatalogRepository interface {
	CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	TagsByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
	UpsertCategory(ctx context.Context, category *models.Category) error
	UpsertTag(ctx context.Context, tag *models.Tag) error
}

// AuthorRepository is the author directory
type AuthorRepository interface {
	GetByID(ctx context.Context, id string) (*models.AuthorRecord, error)
	GetByEmail(ctx context.Context, email string) (*models.AuthorRecord, error)
	Upsert(ctx context.Context, author *models.AuthorRecord) error
}
