package articles

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func strPtr(s string) *string { return &s }

func validCreate(slug string) *articlesSvc.CreateArticleRequest {
	return &articlesSvc.CreateArticleRequest{
		Title:   "Bitcoin rally extends into the weekend",
		Slug:    slug,
		Content: "## Context\n\nBitcoin climbed for a third day as ETF inflows continued.",
	}
}

func TestCreate_DuplicateSlugConflicts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.facade.Create(ctx, validCreate("btc-rally"), testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "btc-rally", first.Slug)

	_, err = f.facade.Create(ctx, validCreate("btc-rally"), testAuthorID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "btc-rally", conflict.ResourceID)
	assert.Len(t, f.db.articles, 1)
}

func TestCreate_DerivesReadTimeAndDefaults(t *testing.T) {
	f := newFixture()

	req := validCreate("")
	req.Content = words(400)

	article, err := f.facade.Create(context.Background(), req, testAuthorID)
	require.NoError(t, err)

	assert.Equal(t, "2 min", article.ReadTime)
	assert.Equal(t, "bitcoin-rally-extends-into-the-weekend", article.Slug)
	assert.Equal(t, models.TypeNews, article.Type)
	assert.Equal(t, models.SentimentNeutral, article.Sentiment)
	assert.False(t, article.Published)
	assert.True(t, strings.HasSuffix(article.Excerpt, "..."))
	assert.Equal(t, article.CreatedAt, article.UpdatedAt)
	require.NotNil(t, article.Author)
	assert.Equal(t, "Ana Editor", article.Author.Name)
	assert.Equal(t, testAuthorID, article.AuthorID)

	stored := f.db.articles[article.ID]
	assert.Equal(t, "2 min", stored.ReadTime)
}

func TestCreate_ReadTimeOverride(t *testing.T) {
	f := newFixture()

	req := validCreate("override")
	req.Content = words(400)
	rt := articlesSvc.ReadTime(7)
	req.ReadTime = &rt

	article, err := f.facade.Create(context.Background(), req, testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "7 min", article.ReadTime)
}

func TestCreate_SanitizesContent(t *testing.T) {
	f := newFixture()

	req := validCreate("sanitized")
	req.Content = `<p>Hello <script>alert(1)</script>world</p>`

	article, err := f.facade.Create(context.Background(), req, testAuthorID)
	require.NoError(t, err)
	assert.NotContains(t, article.Content, "script")
	assert.Contains(t, article.Content, "Hello")
}

func TestCreate_MissingRelatedArticlesAreNamed(t *testing.T) {
	f := newFixture()
	f.seedArticle("seed-1", "seed-one", true, time.Now())

	req := validCreate("with-related")
	req.RelatedArticleIDs = []string{"seed-1", "missing-1", "missing-2"}

	_, err := f.facade.Create(context.Background(), req, testAuthorID)
	require.Error(t, err)

	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"missing-1", "missing-2"}, nf.IDs)
	assert.Len(t, f.db.articles, 1, "nothing written")
}

func TestCreate_MissingTagsAndCategory(t *testing.T) {
	f := newFixture()
	f.db.tags["t1"] = models.Tag{ID: "t1", Slug: "bitcoin", Name: "Bitcoin"}

	req := validCreate("bad-tags")
	req.TagIDs = []string{"t1", "t9"}
	_, err := f.facade.Create(context.Background(), req, testAuthorID)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"t9"}, nf.IDs)

	req = validCreate("bad-category")
	req.CategoryID = strPtr("c404")
	_, err = f.facade.Create(context.Background(), req, testAuthorID)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"c404"}, nf.IDs)
}

func TestCreate_ResolvesCatalogIDsToSlugs(t *testing.T) {
	f := newFixture()
	f.db.categories["c1"] = models.Category{ID: "c1", Slug: "markets", Name: "Markets"}
	f.db.tags["t1"] = models.Tag{ID: "t1", Slug: "bitcoin", Name: "Bitcoin"}
	f.db.tags["t2"] = models.Tag{ID: "t2", Slug: "etf", Name: "ETF"}

	req := validCreate("catalog")
	req.Category = "ignored"
	req.CategoryID = strPtr("c1")
	req.TagIDs = []string{"t2", "t1", "t2"}

	article, err := f.facade.Create(context.Background(), req, testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "markets", article.Category)
	assert.Equal(t, []string{"etf", "bitcoin"}, article.Tags)
}

func TestCreate_UnknownAuthor(t *testing.T) {
	f := newFixture()

	req := validCreate("orphan")
	req.AuthorID = "ghost"

	_, err := f.facade.Create(context.Background(), req, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, f.db.articles)
}

func TestCreate_Validation(t *testing.T) {
	tooMany := make([]models.CitationInput, 21)
	for i := range tooMany {
		tooMany[i] = models.CitationInput{URL: "https://example.com"}
	}
	score := 101

	tests := []struct {
		name   string
		mutate func(*articlesSvc.CreateArticleRequest)
		field  string
	}{
		{name: "short title", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Title = "Short" }, field: "title"},
		{name: "bad slug", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Slug = "Bad Slug" }, field: "slug"},
		{name: "missing content", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Content = "" }, field: "content"},
		{name: "unknown type", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Type = "opinion" }, field: "type"},
		{name: "unknown sentiment", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Sentiment = "angry" }, field: "sentiment"},
		{name: "score out of range", mutate: func(r *articlesSvc.CreateArticleRequest) { r.FactCheckScore = &score }, field: "factCheckScore"},
		{name: "too many citations", mutate: func(r *articlesSvc.CreateArticleRequest) { r.Citations = tooMany }, field: "citations"},
		{name: "relative citation url", mutate: func(r *articlesSvc.CreateArticleRequest) {
			r.Citations = []models.CitationInput{{URL: "/local/path"}}
		}, field: "citations[0].url"},
		{name: "underivable slug", mutate: func(r *articlesSvc.CreateArticleRequest) {
			r.Title = "!!!!!!!!!!!!"
			r.Slug = ""
		}, field: "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validCreate("valid-slug")
			tt.mutate(req)

			_, err := f.facade.Create(context.Background(), req, testAuthorID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Empty(t, f.db.articles)
		})
	}
}

func threeCitations() []models.CitationInput {
	return []models.CitationInput{
		{URL: "https://www.coindesk.com/a"},
		{URL: "https://sec.gov/b"},
		{URL: "https://reuters.com/c"},
	}
}

func TestUpdate_ReplacesCitations(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validCreate("cited")
	req.Citations = threeCitations()
	article, err := f.facade.Create(ctx, req, testAuthorID)
	require.NoError(t, err)
	require.Len(t, f.db.citations[article.ID], 3)
	assert.Equal(t, "coindesk.com", article.Citations[0].Domain)

	updated, err := f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		Citations: []models.CitationInput{{URL: "https://bloomberg.com/x"}},
	}, testAuthorID)
	require.NoError(t, err)

	assert.Len(t, f.db.citations[article.ID], 1)
	require.Len(t, updated.Citations, 1)
	assert.Equal(t, "bloomberg.com", updated.Citations[0].Domain)
	assert.Equal(t, 0, updated.Citations[0].Order)
}

func TestUpdate_NilCitationsLeaveSetAlone(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validCreate("keep-citations")
	req.Citations = threeCitations()
	article, err := f.facade.Create(ctx, req, testAuthorID)
	require.NoError(t, err)

	_, err = f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{Title: strPtr("A completely new title")}, testAuthorID)
	require.NoError(t, err)
	assert.Len(t, f.db.citations[article.ID], 3)

	_, err = f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{Citations: []models.CitationInput{}}, testAuthorID)
	require.NoError(t, err)
	assert.Empty(t, f.db.citations[article.ID])
}

func TestUpdate_PartialFieldsAndTimestamps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validCreate("partial")
	req.Category = "bitcoin"
	req.Keywords = []string{"btc"}
	article, err := f.facade.Create(ctx, req, testAuthorID)
	require.NoError(t, err)

	// Clock not advanced: updatedAt must still move forward
	updated, err := f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		Published: boolPtr(true),
	}, testAuthorID)
	require.NoError(t, err)

	assert.True(t, updated.Published)
	assert.Equal(t, article.Title, updated.Title)
	assert.Equal(t, "bitcoin", updated.Category)
	assert.Equal(t, []string{"btc"}, updated.Keywords)
	assert.Equal(t, article.ReadTime, updated.ReadTime)
	assert.True(t, updated.UpdatedAt.After(article.UpdatedAt))
	assert.True(t, updated.CreatedAt.Equal(article.CreatedAt))

	again, err := f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		Published: boolPtr(false),
	}, testAuthorID)
	require.NoError(t, err)
	assert.True(t, again.UpdatedAt.After(updated.UpdatedAt))
}

func TestUpdate_ContentRecomputesReadTime(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	article, err := f.facade.Create(ctx, validCreate("read-time"), testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "1 min", article.ReadTime)

	updated, err := f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		Content: strPtr(words(1000)),
	}, testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "5 min", updated.ReadTime)

	rt := articlesSvc.ReadTime(9)
	updated, err = f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		Content:  strPtr(words(200)),
		ReadTime: &rt,
	}, testAuthorID)
	require.NoError(t, err)
	assert.Equal(t, "9 min", updated.ReadTime)
}

func TestUpdate_ClearsNullableFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validCreate("cover")
	req.CoverImage = strPtr("/img/cover.png")
	req.CoverImageAlt = strPtr("cover")
	article, err := f.facade.Create(ctx, req, testAuthorID)
	require.NoError(t, err)

	updated, err := f.facade.Update(ctx, article.ID, &articlesSvc.UpdateArticleRequest{
		CoverImage: models.OptionalString{Present: true},
	}, testAuthorID)
	require.NoError(t, err)
	assert.Nil(t, updated.CoverImage)
	require.NotNil(t, updated.CoverImageAlt)
	assert.Equal(t, "cover", *updated.CoverImageAlt)
}

func TestUpdate_SlugRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.facade.Create(ctx, validCreate("first-article"), testAuthorID)
	require.NoError(t, err)
	_, err = f.facade.Create(ctx, validCreate("second-article"), testAuthorID)
	require.NoError(t, err)

	// Keeping its own slug is not a conflict
	_, err = f.facade.Update(ctx, a.ID, &articlesSvc.UpdateArticleRequest{Slug: strPtr("first-article")}, testAuthorID)
	require.NoError(t, err)

	_, err = f.facade.Update(ctx, a.ID, &articlesSvc.UpdateArticleRequest{Slug: strPtr("second-article")}, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, "first-article", f.db.articles[a.ID].Slug)

	_, err = f.facade.Update(ctx, a.ID, &articlesSvc.UpdateArticleRequest{Slug: strPtr("")}, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdate_RelationshipsAndNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.facade.Create(ctx, validCreate("self-ref"), testAuthorID)
	require.NoError(t, err)

	_, err = f.facade.Update(ctx, a.ID, &articlesSvc.UpdateArticleRequest{RelatedArticleIDs: []string{a.ID}}, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = f.facade.Update(ctx, a.ID, &articlesSvc.UpdateArticleRequest{RelatedArticleIDs: []string{"nope"}}, testAuthorID)
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"nope"}, nf.IDs)

	_, err = f.facade.Update(ctx, "missing-id", &articlesSvc.UpdateArticleRequest{Title: strPtr("Does not matter at all")}, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := validCreate("lookup")
	req.Citations = threeCitations()
	a, err := f.facade.Create(ctx, req, testAuthorID)
	require.NoError(t, err)

	byID, err := f.facade.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, byID.Citations, 3)
	require.NotNil(t, byID.Author)
	assert.Equal(t, "ana@example.com", byID.Author.Email)

	bySlug, err := f.facade.GetBySlug(ctx, "lookup")
	require.NoError(t, err)
	assert.Equal(t, a.ID, bySlug.ID)

	require.NoError(t, f.facade.Delete(ctx, a.ID, testAuthorID))
	assert.Empty(t, f.db.citations[a.ID])

	_, err = f.facade.GetByID(ctx, a.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	err = f.facade.Delete(ctx, a.ID, testAuthorID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func boolPtr(b bool) *bool { return &b }
