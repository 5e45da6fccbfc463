package articles

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/repository/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var articleRowColumns = []string{
	"id", "slug", "title", "content", "excerpt", "type", "category", "level",
	"sentiment", "content_type", "warning_level", "project_highlight", "read_time",
	"cover_image", "cover_image_alt", "published", "fact_check_score", "fact_check_sources",
	"fact_check_status", "fact_check_date", "tags", "keywords", "security_tips",
	"related_article_ids", "author_id", "created_at", "updated_at", "name", "email",
}

func newTestConfig(t *testing.T) (pgxmock.PgxPoolIface, *postgres.RepositoryConfig) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, &postgres.RepositoryConfig{
		Pool:   mock,
		Tables: postgres.NewTableNames("test_"),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func addArticleRow(rows *pgxmock.Rows, id, slug string, published bool, created time.Time) *pgxmock.Rows {
	authorName := "Ana Costa"
	authorEmail := "ana@example.com"
	score := 87
	level := "beginner"
	return rows.AddRow(
		id, slug, "Bitcoin rally explained", "## Context\nbody", "short excerpt",
		"news", "bitcoin", &level, "positive", nil, nil, false, "2 min",
		nil, nil, published, &score, `["https://a.example"]`,
		nil, nil, `["btc","etf"]`, `[]`, `[]`,
		`["rel-1"]`, "author-1", created, created, &authorName, &authorEmail,
	)
}

func TestGetByID_ScansEveryColumn(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := addArticleRow(pgxmock.NewRows(articleRowColumns), "art-1", "btc-rally", true, created)

	mock.ExpectQuery("SELECT a.id").
		WithArgs("art-1").
		WillReturnRows(rows)

	a, err := repo.GetByID(context.Background(), "art-1")
	require.NoError(t, err)

	assert.Equal(t, "btc-rally", a.Slug)
	assert.Equal(t, models.TypeNews, a.Type)
	assert.Equal(t, models.SentimentPositive, a.Sentiment)
	require.NotNil(t, a.Level)
	assert.Equal(t, models.LevelBeginner, *a.Level)
	assert.Nil(t, a.WarningLevel)
	require.NotNil(t, a.FactCheckScore)
	assert.Equal(t, 87, *a.FactCheckScore)
	assert.Equal(t, []string{"btc", "etf"}, a.Tags)
	assert.Equal(t, []string{}, a.Keywords)
	assert.Equal(t, []string{"rel-1"}, a.RelatedArticleIDs)
	require.NotNil(t, a.Author)
	assert.Equal(t, "Ana Costa", a.Author.Name)
	assert.Equal(t, "author-1", a.Author.ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	mock.ExpectQuery("SELECT a.id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "missing")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateSlugIsConflict(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	mock.ExpectExec("INSERT INTO test_articles").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "test_articles_slug_key"})

	err := repo.Create(context.Background(), &models.Article{ID: "art-2", Slug: "btc-rally", AuthorID: "author-1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "btc-rally", conflict.ResourceID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UnknownAuthorIsNotFound(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	mock.ExpectExec("INSERT INTO test_articles").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &models.Article{ID: "art-2", Slug: "x-y-z", AuthorID: "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingRowIsNotFound(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	mock.ExpectExec("UPDATE test_articles SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &models.Article{ID: "gone", Slug: "gone-article"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deletes existing", affected: 1},
		{name: "missing article", affected: 0, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, cfg := newTestConfig(t)
			repo := NewArticleRepository(cfg)

			mock.ExpectExec("DELETE FROM test_articles").
				WithArgs("art-1").
				WillReturnResult(pgxmock.NewResult("DELETE", tt.affected))

			err := repo.Delete(context.Background(), "art-1")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSlugTaken(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("btc-rally", "art-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.SlugTaken(context.Background(), "btc-rally", "art-1")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingIDs_PreservesInputOrder(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	ids := []string{"a", "b", "c"}
	mock.ExpectQuery("SELECT id FROM test_articles").
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c").AddRow("a"))

	existing, err := repo.ExistingIDs(context.Background(), ids)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, existing)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistingIDs_EmptyInputSkipsQuery(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	existing, err := repo.ExistingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, existing)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCount_BuildsSharedPredicate(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	filters := &models.ListFilters{Published: models.PublishedOnly, Search: "50%_off"}
	filters.ApplyDefaults(12, 100)

	pattern := `%50\%\_off%`
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM test_articles a WHERE (a.published = $1 AND (a.title ILIKE $2 OR a.content ILIKE $3 OR a.excerpt ILIKE $4))")).
		WithArgs(true, pattern, pattern, pattern).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	total, err := repo.Count(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 7, total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_OrdersAndPaginates(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	filters := &models.ListFilters{
		Page:      2,
		PageSize:  10,
		Published: models.PublishedDraft,
		SortBy:    models.SortByTitle,
		SortOrder: models.SortAsc,
	}
	filters.ApplyDefaults(12, 100)

	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows(articleRowColumns)
	addArticleRow(rows, "art-11", "article-11", false, created)
	addArticleRow(rows, "art-12", "article-12", false, created)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.title ASC, a.id ASC LIMIT 10 OFFSET 10")).
		WithArgs(false).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "art-11", items[0].ID)
	assert.Empty(t, items[0].Citations)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_UnfilteredUsesTruePredicate(t *testing.T) {
	mock, cfg := newTestConfig(t)
	repo := NewArticleRepository(cfg)

	filters := &models.ListFilters{}
	filters.ApplyDefaults(12, 100)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (1=1) ORDER BY a.created_at DESC, a.id DESC LIMIT 12 OFFSET 0")).
		WillReturnRows(pgxmock.NewRows(articleRowColumns))

	items, err := repo.List(context.Background(), filters)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "bitcoin", want: "bitcoin"},
		{in: "100%", want: `100\%`},
		{in: "a_b", want: `a\_b`},
		{in: `c:\path`, want: `c:\\path`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}
