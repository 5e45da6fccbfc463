package articles

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/repository/postgres"
)

// SetPublished flips the publication flag of every listed article
func (r *PostgresArticleRepository) SetPublished(ctx context.Context, ids []string, published bool, at time.Time) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET published = $1, updated_at = GREATEST($2, updated_at + INTERVAL '1 microsecond')
		WHERE id = ANY($3)
	`, r.tables.Articles)

	return r.execBulk(ctx, "set published", query, published, at, ids)
}

// SetCategory reassigns the category of every listed article
func (r *PostgresArticleRepository) SetCategory(ctx context.Context, ids []string, category string, at time.Time) (int, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET category = $1, updated_at = GREATEST($2, updated_at + INTERVAL '1 microsecond')
		WHERE id = ANY($3)
	`, r.tables.Articles)

	return r.execBulk(ctx, "set category", query, category, at, ids)
}

// DeleteMany hard-deletes every listed article
func (r *PostgresArticleRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Articles)

	return r.execBulk(ctx, "delete", query, ids)
}

func (r *PostgresArticleRepository) execBulk(ctx context.Context, op, query string, args ...any) (int, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk %s: %w", op, err)
	}
	return int(result.RowsAffected()), nil
}
