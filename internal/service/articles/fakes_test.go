package articles

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/domain/repositories"
)

// memDB is an in-memory stand-in for the Postgres repositories
type memDB struct {
	mu         sync.Mutex
	articles   map[string]models.Article
	citations  map[string][]models.Citation
	categories map[string]models.Category
	tags       map[string]models.Tag
	authors    map[string]models.AuthorRecord

	bulkCalls  int
	writeCalls int
	statsErr   error
}

func newMemDB() *memDB {
	return &memDB{
		articles:   map[string]models.Article{},
		citations:  map[string][]models.Citation{},
		categories: map[string]models.Category{},
		tags:       map[string]models.Tag{},
		authors:    map[string]models.AuthorRecord{},
	}
}

type memArticles struct{ db *memDB }
type memCatalog struct{ db *memDB }
type memAuthors struct{ db *memDB }

// passthroughTx runs fn directly; the fakes have no rollback
type passthroughTx struct{}

func (passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func (passthroughTx) ExecReadTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func (r memArticles) withAuthor(a models.Article) *models.Article {
	if au, ok := r.db.authors[a.AuthorID]; ok {
		a.Author = au.Projection()
	}
	return &a
}

func (r memArticles) Create(_ context.Context, a *models.Article) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.articles {
		if existing.Slug == a.Slug {
			return &domain.ConflictError{Message: "duplicate slug", ResourceType: "article", ResourceID: a.Slug}
		}
	}
	r.db.writeCalls++
	stored := *a
	stored.Citations = nil
	r.db.articles[a.ID] = stored
	return nil
}

func (r memArticles) GetByID(_ context.Context, id string) (*models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.articles[id]
	if !ok {
		return nil, domain.NewNotFound("article", id)
	}
	return r.withAuthor(a), nil
}

func (r memArticles) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.articles {
		if a.Slug == slug {
			return r.withAuthor(a), nil
		}
	}
	return nil, domain.NewNotFound("article with slug", slug)
}

func (r memArticles) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, a := range r.db.articles {
		if a.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memArticles) ExistingIDs(_ context.Context, ids []string) ([]string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []string{}
	for _, id := range ids {
		if _, ok := r.db.articles[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r memArticles) Update(_ context.Context, a *models.Article) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.articles[a.ID]; !ok {
		return domain.NewNotFound("article", a.ID)
	}
	r.db.writeCalls++
	stored := *a
	stored.Author = nil
	stored.Citations = nil
	r.db.articles[a.ID] = stored
	return nil
}

func (r memArticles) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.articles[id]; !ok {
		return domain.NewNotFound("article", id)
	}
	r.db.writeCalls++
	delete(r.db.articles, id)
	delete(r.db.citations, id)
	return nil
}

func (r memArticles) matching(f *models.ListFilters) []models.Article {
	var out []models.Article
	published := f.Published.Bool()
	search := strings.ToLower(f.Search)
	for _, a := range r.db.articles {
		if published != nil && a.Published != *published {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Category != "" && a.Category != f.Category {
			continue
		}
		if f.AuthorID != "" && a.AuthorID != f.AuthorID {
			continue
		}
		if f.Sentiment != "" && a.Sentiment != f.Sentiment {
			continue
		}
		if f.ProjectHighlight != nil && a.ProjectHighlight != *f.ProjectHighlight {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.Title), search) &&
			!strings.Contains(strings.ToLower(a.Content), search) &&
			!strings.Contains(strings.ToLower(a.Excerpt), search) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if f.SortOrder == models.SortAsc {
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		if f.SortOrder == models.SortAsc {
			return out[i].ID < out[j].ID
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r memArticles) Count(_ context.Context, f *models.ListFilters) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r memArticles) List(_ context.Context, f *models.ListFilters) ([]models.Article, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := r.matching(f)
	start := f.Offset()
	if start >= len(all) {
		return []models.Article{}, nil
	}
	end := start + f.PageSize
	if end > len(all) {
		end = len(all)
	}
	out := make([]models.Article, 0, end-start)
	for _, a := range all[start:end] {
		out = append(out, *r.withAuthor(a))
	}
	return out, nil
}

func (r memArticles) SetPublished(_ context.Context, ids []string, published bool, at time.Time) (int, error) {
	return r.bulkUpdate(ids, func(a *models.Article) {
		a.Published = published
		a.UpdatedAt = models.NextUpdatedAt(a.UpdatedAt, at)
	})
}

func (r memArticles) SetCategory(_ context.Context, ids []string, category string, at time.Time) (int, error) {
	return r.bulkUpdate(ids, func(a *models.Article) {
		a.Category = category
		a.UpdatedAt = models.NextUpdatedAt(a.UpdatedAt, at)
	})
}

func (r memArticles) DeleteMany(_ context.Context, ids []string) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.bulkCalls++
	n := 0
	for _, id := range ids {
		if _, ok := r.db.articles[id]; ok {
			delete(r.db.articles, id)
			delete(r.db.citations, id)
			n++
		}
	}
	return n, nil
}

func (r memArticles) bulkUpdate(ids []string, apply func(*models.Article)) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.bulkCalls++
	n := 0
	for _, id := range ids {
		a, ok := r.db.articles[id]
		if !ok {
			continue
		}
		apply(&a)
		r.db.articles[id] = a
		n++
	}
	return n, nil
}

func (r memArticles) CountByPublication(_ context.Context) (models.PublicationCounts, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.statsErr != nil {
		return models.PublicationCounts{}, r.db.statsErr
	}
	var c models.PublicationCounts
	for _, a := range r.db.articles {
		if a.Published {
			c.Published++
		} else {
			c.Draft++
		}
	}
	return c, nil
}

func (r memArticles) group(key func(models.Article) string) []models.GroupCount {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	counts := map[string]int{}
	for _, a := range r.db.articles {
		counts[key(a)]++
	}
	out := make([]models.GroupCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.GroupCount{Key: k, Count: n})
	}
	return out
}

func (r memArticles) CountByType(_ context.Context) ([]models.GroupCount, error) {
	return r.group(func(a models.Article) string { return string(a.Type) }), nil
}

func (r memArticles) CountByCategory(_ context.Context) ([]models.GroupCount, error) {
	return r.group(func(a models.Article) string { return a.Category }), nil
}

func (r memArticles) CountBySentiment(_ context.Context) ([]models.GroupCount, error) {
	return r.group(func(a models.Article) string { return string(a.Sentiment) }), nil
}

func (r memArticles) ReplaceForArticle(_ context.Context, articleID string, citations []models.Citation) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.citations[articleID] = append([]models.Citation{}, citations...)
	return nil
}

func (r memArticles) ListByArticle(_ context.Context, articleID string) ([]models.Citation, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := append([]models.Citation{}, r.db.citations[articleID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r memCatalog) CategoriesByIDs(_ context.Context, ids []string) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Category{}
	for _, id := range ids {
		if c, ok := r.db.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCatalog) TagsByIDs(_ context.Context, ids []string) ([]models.Tag, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []models.Tag{}
	for _, id := range ids {
		if t, ok := r.db.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memCatalog) UpsertCategory(_ context.Context, c *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.categories[c.ID] = *c
	return nil
}

func (r memCatalog) UpsertTag(_ context.Context, t *models.Tag) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.tags[t.ID] = *t
	return nil
}

func (r memAuthors) GetByID(_ context.Context, id string) (*models.AuthorRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.authors[id]
	if !ok {
		return nil, domain.NewNotFound("author", id)
	}
	return &a, nil
}

func (r memAuthors) GetByEmail(_ context.Context, email string) (*models.AuthorRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.authors {
		if strings.EqualFold(a.Email, email) {
			found := a
			return &found, nil
		}
	}
	return nil, domain.NewNotFound("author", email)
}

func (r memAuthors) Upsert(_ context.Context, a *models.AuthorRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.authors[a.ID] = *a
	return nil
}

// memCache is a StatsCache that can be told to fail
type memCache struct {
	mu          sync.Mutex
	stats       *models.Stats
	getErr      error
	invalidated int
	beforeSet   func() // runs once, ahead of the next Set
}

func (c *memCache) Get(context.Context) (*models.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.stats == nil {
		return nil, false, nil
	}
	s := *c.stats
	return &s, true, nil
}

func (c *memCache) Set(_ context.Context, s *models.Stats) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *s
	c.stats = &cp
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	c.invalidated++
	return nil
}

const testAuthorID = "author-1"

type fixture struct {
	db     *memDB
	facade *Facade
	cache  *memCache
	clock  *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFixture() *fixture {
	db := newMemDB()
	db.authors[testAuthorID] = models.AuthorRecord{ID: testAuthorID, Name: "Ana Editor", Email: "ana@example.com"}

	cache := &memCache{}
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	articles := memArticles{db: db}

	facade := New(Dependencies{
		Articles:   articles,
		Bulk:       articles,
		Stats:      articles,
		Citations:  articles,
		Catalog:    memCatalog{db: db},
		Authors:    memAuthors{db: db},
		TxManager:  passthroughTx{},
		Cache:      cache,
		Pagination: config.Pagination{DefaultPageSize: config.DefaultPageSize, MaxPageSize: config.MaxPageSize},
		MaxBulk:    config.MaxBulkSize,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	facade.crud.now = clock.Now
	facade.batch.now = clock.Now

	return &fixture{db: db, facade: facade, cache: cache, clock: clock}
}

// seedArticle stores an article directly, bypassing the service
func (f *fixture) seedArticle(id, slug string, published bool, createdAt time.Time) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.articles[id] = models.Article{
		ID:        id,
		Slug:      slug,
		Title:     "Seeded article " + id,
		Content:   "body",
		Type:      models.TypeNews,
		Category:  "bitcoin",
		Sentiment: models.SentimentNeutral,
		Published: published,
		ReadTime:  "1 min",
		AuthorID:  testAuthorID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
