package articles

import (
	"context"
	"fmt"
	"log/slog"

	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	"newsdesk/internal/repository/postgres"
)

// PostgresCitationRepository implements CitationRepository
type PostgresCitationRepository struct {
	pool   postgres.PgxIface
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewCitationRepository creates a new citation repository
func NewCitationRepository(config *postgres.RepositoryConfig) articlesRepo.CitationRepository {
	return &PostgresCitationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ReplaceForArticle deletes every citation of the article and inserts the new set.
// Callers run it inside ExecTx so the swap is atomic. Each row's slice index is
// stored as seq, which orders citations that share a position.
func (r *PostgresCitationRepository) ReplaceForArticle(ctx context.Context, articleID string, citations []models.Citation) error {
	executor := postgres.GetExecutor(ctx, r.pool)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE article_id = $1`, r.tables.Citations)
	if _, err := executor.Exec(ctx, deleteQuery, articleID); err != nil {
		return fmt.Errorf("delete citations: %w", err)
	}

	if len(citations) == 0 {
		return nil
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (id, article_id, url, title, domain, position, seq, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Citations)

	for seq, c := range citations {
		if _, err := executor.Exec(ctx, insertQuery, c.ID, articleID, c.URL, c.Title, c.Domain, c.Order, seq, c.Verified, c.CreatedAt); err != nil {
			return fmt.Errorf("insert citation %d: %w", c.Order, err)
		}
	}

	return nil
}

// ListByArticle returns citations ordered by position, then insertion order
func (r *PostgresCitationRepository) ListByArticle(ctx context.Context, articleID string) ([]models.Citation, error) {
	query := fmt.Sprintf(`
		SELECT id, article_id, url, title, domain, position, verified, created_at
		FROM %s
		WHERE article_id = $1
		ORDER BY position ASC, seq ASC
	`, r.tables.Citations)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("list citations: %w", err)
	}
	defer rows.Close()

	citations := []models.Citation{}
	for rows.Next() {
		var c models.Citation
		if err := rows.Scan(&c.ID, &c.ArticleID, &c.URL, &c.Title, &c.Domain, &c.Order, &c.Verified, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan citation: %w", err)
		}
		citations = append(citations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate citations: %w", err)
	}

	return citations, nil
}
