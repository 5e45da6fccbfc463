package articles

import (
	"context"
	"fmt"
	"strings"

	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/repository/postgres"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "a.created_at",
	models.SortByUpdatedAt: "a.updated_at",
	models.SortByTitle:     "a.title",
}

// Count returns the number of articles matching filters
func (r *PostgresArticleRepository) Count(ctx context.Context, filters *models.ListFilters) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From(r.tables.Articles + " a").
		Where(listPredicate(filters)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return total, nil
}

// List returns one page of articles. Citations are not loaded.
func (r *PostgresArticleRepository) List(ctx context.Context, filters *models.ListFilters) ([]models.Article, error) {
	column, ok := sortColumns[filters.SortBy]
	if !ok {
		return nil, fmt.Errorf("unsupported sort field %q", filters.SortBy)
	}
	direction := "DESC"
	if filters.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	query, args, err := psql.
		Select(articleColumns).
		From(r.tables.Articles + " a").
		LeftJoin(r.tables.Authors + " au ON au.id = a.author_id").
		Where(listPredicate(filters)).
		OrderBy(column+" "+direction, "a.id "+direction).
		Limit(uint64(filters.PageSize)).
		Offset(uint64(filters.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate articles: %w", err)
	}

	return articles, nil
}

// listPredicate builds the WHERE clause shared by Count and List
func listPredicate(f *models.ListFilters) sq.And {
	where := sq.And{}

	if published := f.Published.Bool(); published != nil {
		where = append(where, sq.Eq{"a.published": *published})
	}
	if f.Type != "" {
		where = append(where, sq.Eq{"a.type": string(f.Type)})
	}
	if f.Category != "" {
		where = append(where, sq.Eq{"a.category": f.Category})
	}
	if f.AuthorID != "" {
		where = append(where, sq.Eq{"a.author_id": f.AuthorID})
	}
	if f.Sentiment != "" {
		where = append(where, sq.Eq{"a.sentiment": string(f.Sentiment)})
	}
	if f.Level != "" {
		where = append(where, sq.Eq{"a.level": string(f.Level)})
	}
	if f.ProjectHighlight != nil {
		where = append(where, sq.Eq{"a.project_highlight": *f.ProjectHighlight})
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"a.title": pattern},
			sq.ILike{"a.content": pattern},
			sq.ILike{"a.excerpt": pattern},
		})
	}

	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside an ILIKE pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
