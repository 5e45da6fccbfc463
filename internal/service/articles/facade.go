package articles

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/domain/repositories"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/metrics"
	"newsdesk/internal/service/content"
)

// Facade composes the CRUD, query, stats and batch services behind one
// ArticleService. It records operation metrics and keeps the stats cache
// coherent with mutations.
type Facade struct {
	crud     *CrudService
	query    *QueryService
	stats    *StatsService
	batch    *BatchService
	importer *Importer
	cache    articlesSvc.StatsCache // nil disables caching
	logger   *slog.Logger

	// statsGen counts invalidations. A snapshot is only cached when no
	// mutation finished while it was being computed.
	statsGen atomic.Uint64
}

var _ articlesSvc.ArticleService = (*Facade)(nil)

// NewFacade creates the article facade. cache may be nil.
func NewFacade(
	crud *CrudService,
	query *QueryService,
	stats *StatsService,
	batch *BatchService,
	importer *Importer,
	cache articlesSvc.StatsCache,
	logger *slog.Logger,
) *Facade {
	return &Facade{
		crud:     crud,
		query:    query,
		stats:    stats,
		batch:    batch,
		importer: importer,
		cache:    cache,
		logger:   logger,
	}
}

// Create stores a new article
func (f *Facade) Create(ctx context.Context, req *articlesSvc.CreateArticleRequest, actingUserID string) (article *models.Article, err error) {
	defer observe("create", time.Now(), &err)

	article, err = f.crud.Create(ctx, req, actingUserID)
	if err == nil {
		f.invalidateStats(ctx)
	}
	return article, err
}

// GetByID returns a single article
func (f *Facade) GetByID(ctx context.Context, id string) (article *models.Article, err error) {
	defer observe("get_by_id", time.Now(), &err)
	return f.crud.GetByID(ctx, id)
}

// GetBySlug returns a single article by slug
func (f *Facade) GetBySlug(ctx context.Context, slug string) (article *models.Article, err error) {
	defer observe("get_by_slug", time.Now(), &err)
	return f.crud.GetBySlug(ctx, slug)
}

// Update applies a partial update
func (f *Facade) Update(ctx context.Context, id string, req *articlesSvc.UpdateArticleRequest, actingUserID string) (article *models.Article, err error) {
	defer observe("update", time.Now(), &err)

	article, err = f.crud.Update(ctx, id, req, actingUserID)
	if err == nil {
		f.invalidateStats(ctx)
	}
	return article, err
}

// Delete hard-deletes an article
func (f *Facade) Delete(ctx context.Context, id, actingUserID string) (err error) {
	defer observe("delete", time.Now(), &err)

	err = f.crud.Delete(ctx, id, actingUserID)
	if err == nil {
		f.invalidateStats(ctx)
	}
	return err
}

// Restore always fails: deletes are hard and leave nothing to restore
func (f *Facade) Restore(ctx context.Context, id, actingUserID string) (article *models.Article, err error) {
	defer observe("restore", time.Now(), &err)
	return nil, fmt.Errorf("restore article %s: %w", id, domain.ErrNotImplemented)
}

// List returns one page of articles
func (f *Facade) List(ctx context.Context, filters *models.ListFilters) (page *models.Page, err error) {
	defer observe("list", time.Now(), &err)
	return f.query.List(ctx, filters)
}

// GetStats serves from the cache when possible. Cache failures are logged
// and fall through to the database.
func (f *Facade) GetStats(ctx context.Context) (stats *models.Stats, err error) {
	defer observe("stats", time.Now(), &err)

	gen := f.statsGen.Load()
	if f.cache != nil {
		cached, ok, cacheErr := f.cache.Get(ctx)
		switch {
		case cacheErr != nil:
			metrics.RecordStatsCache("error")
			f.logger.Warn("stats cache read failed", "error", cacheErr)
		case ok:
			metrics.RecordStatsCache("hit")
			return cached, nil
		default:
			metrics.RecordStatsCache("miss")
		}
	}

	stats, err = f.stats.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.storeStats(ctx, gen, stats)
	}
	return stats, nil
}

// storeStats caches a snapshot computed at generation gen. A mutation that
// lands between the check and the write is caught by the second check.
func (f *Facade) storeStats(ctx context.Context, gen uint64, stats *models.Stats) {
	if f.statsGen.Load() != gen {
		f.logger.Debug("stats snapshot superseded, not caching")
		return
	}
	if err := f.cache.Set(ctx, stats); err != nil {
		f.logger.Warn("stats cache write failed", "error", err)
		return
	}
	if f.statsGen.Load() != gen {
		f.invalidateCache(ctx)
	}
}

// BulkOperation applies one action to many articles
func (f *Facade) BulkOperation(ctx context.Context, req *models.BulkRequest) (result *models.BulkResult, err error) {
	defer observe("bulk", time.Now(), &err)

	if req != nil {
		metrics.RecordBulkSize(string(req.Action), len(req.ArticleIDs))
	}

	result, err = f.batch.BulkOperation(ctx, req)
	if err == nil && result.Count > 0 {
		f.invalidateStats(ctx)
	}
	return result, err
}

// Import creates an article from generated markdown
func (f *Facade) Import(ctx context.Context, req *articlesSvc.ImportRequest, actingUserID string) (article *models.Article, err error) {
	defer observe("import", time.Now(), &err)

	article, err = f.importer.Import(ctx, req, actingUserID)
	if err == nil {
		f.invalidateStats(ctx)
	}
	return article, err
}

// invalidateStats bumps the generation before dropping the cached snapshot
func (f *Facade) invalidateStats(ctx context.Context) {
	f.statsGen.Add(1)
	if f.cache == nil {
		return
	}
	f.invalidateCache(ctx)
}

func (f *Facade) invalidateCache(ctx context.Context) {
	if err := f.cache.Invalidate(ctx); err != nil {
		f.logger.Warn("stats cache invalidation failed", "error", err)
	}
}

func observe(operation string, start time.Time, err *error) {
	metrics.RecordOperation(operation, start, *err)
}

// Dependencies are the collaborators New wires together
type Dependencies struct {
	Articles   articlesRepo.ArticleRepository
	Bulk       articlesRepo.BulkRepository
	Stats      articlesRepo.StatsRepository
	Citations  articlesRepo.CitationRepository
	Catalog    articlesRepo.CatalogRepository
	Authors    articlesRepo.AuthorRepository
	TxManager  repositories.TransactionManager
	Sanitizer  *content.Sanitizer
	Cache      articlesSvc.StatsCache
	Pagination config.Pagination
	MaxBulk    int
	Logger     *slog.Logger
}

// New builds the facade and every operation group behind it
func New(d Dependencies) *Facade {
	if d.Sanitizer == nil {
		d.Sanitizer = content.NewSanitizer()
	}
	if d.MaxBulk <= 0 || d.MaxBulk > config.MaxBulkSize {
		d.MaxBulk = config.MaxBulkSize
	}

	verifier := NewRelationshipVerifier(d.Articles, d.Catalog, d.Authors)
	crud := NewCrudService(d.Articles, d.Citations, verifier, d.TxManager, d.Sanitizer, d.Logger)

	return NewFacade(
		crud,
		NewQueryService(d.Articles, d.TxManager, d.Pagination, d.Logger),
		NewStatsService(d.Stats, d.Logger),
		NewBatchService(d.Bulk, d.MaxBulk, d.Logger),
		NewImporter(crud, d.Authors, d.Logger),
		d.Cache,
		d.Logger,
	)
}
