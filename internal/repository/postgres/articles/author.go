package articles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	"newsdesk/internal/repository/postgres"
)

// PostgresAuthorRepository implements AuthorRepository
type PostgresAuthorRepository struct {
	pool   postgres.PgxIface
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(config *postgres.RepositoryConfig) articlesRepo.AuthorRepository {
	return &PostgresAuthorRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves an author by ID
func (r *PostgresAuthorRepository) GetByID(ctx context.Context, id string) (*models.AuthorRecord, error) {
	query := fmt.Sprintf(`SELECT id, name, email, created_at FROM %s WHERE id = $1`, r.tables.Authors)
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves an author by email (case-insensitive)
func (r *PostgresAuthorRepository) GetByEmail(ctx context.Context, email string) (*models.AuthorRecord, error) {
	query := fmt.Sprintf(`SELECT id, name, email, created_at FROM %s WHERE lower(email) = $1`, r.tables.Authors)
	return r.getOne(ctx, query, strings.ToLower(strings.TrimSpace(email)))
}

// Upsert inserts an author or refreshes its name and email
func (r *PostgresAuthorRepository) Upsert(ctx context.Context, a *models.AuthorRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email
		RETURNING created_at
	`, r.tables.Authors)

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, a.ID, a.Name, a.Email).Scan(&a.CreatedAt); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("author with email '%s' already exists", a.Email),
				ResourceType: "author",
				ResourceID:   a.Email,
			}
		}
		return fmt.Errorf("upsert author: %w", err)
	}
	return nil
}

func (r *PostgresAuthorRepository) getOne(ctx context.Context, query, key string) (*models.AuthorRecord, error) {
	var a models.AuthorRecord
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, key).Scan(&a.ID, &a.Name, &a.Email, &a.CreatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, domain.NewNotFound("author", key)
		}
		return nil, fmt.Errorf("get author: %w", err)
	}
	return &a, nil
}

func slugConflict(resource, slug string) error {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("%s with slug '%s' already exists", resource, slug),
		ResourceType: resource,
		ResourceID:   slug,
	}
}
