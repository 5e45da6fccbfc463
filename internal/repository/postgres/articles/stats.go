package articles

import (
	"context"
	"fmt"

	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/repository/postgres"
)

// CountByPublication reads the published/draft split in one statement
func (r *PostgresArticleRepository) CountByPublication(ctx context.Context) (models.PublicationCounts, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE published) AS published,
			COUNT(*) FILTER (WHERE NOT published) AS draft
		FROM %s
	`, r.tables.Articles)

	var counts models.PublicationCounts
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&counts.Published, &counts.Draft); err != nil {
		return models.PublicationCounts{}, fmt.Errorf("count by publication: %w", err)
	}
	return counts, nil
}

// CountByType groups articles by type
func (r *PostgresArticleRepository) CountByType(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCount(ctx, "type")
}

// CountByCategory groups articles by category
func (r *PostgresArticleRepository) CountByCategory(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCount(ctx, "category")
}

// CountBySentiment groups articles by sentiment
func (r *PostgresArticleRepository) CountBySentiment(ctx context.Context) ([]models.GroupCount, error) {
	return r.groupCount(ctx, "sentiment")
}

// groupCount runs a GROUP BY over a fixed, trusted column name
func (r *PostgresArticleRepository) groupCount(ctx context.Context, column string) ([]models.GroupCount, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM %s
		GROUP BY %s
		ORDER BY %s
	`, column, r.tables.Articles, column, column)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	groups := []models.GroupCount{}
	for rows.Next() {
		var g models.GroupCount
		if err := rows.Scan(&g.Key, &g.Count); err != nil {
			return nil, fmt.Errorf("scan %s group: %w", column, err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s groups: %w", column, err)
	}

	return groups, nil
}
