package articles

import (
	"context"
	"log/slog"

	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/domain/repositories"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
)

// QueryService lists articles with filters and pagination
type QueryService struct {
	articleRepo articlesRepo.ArticleRepository
	txManager   repositories.TransactionManager
	pagination  config.Pagination
	logger      *slog.Logger
}

// NewQueryService creates a new query service
func NewQueryService(
	articleRepo articlesRepo.ArticleRepository,
	txManager repositories.TransactionManager,
	pagination config.Pagination,
	logger *slog.Logger,
) *QueryService {
	return &QueryService{
		articleRepo: articleRepo,
		txManager:   txManager,
		pagination:  pagination,
		logger:      logger,
	}
}

// List returns one page. Count and page come from the same snapshot, so
// total always agrees with the items returned.
func (s *QueryService) List(ctx context.Context, filters *models.ListFilters) (*models.Page, error) {
	f := models.ListFilters{}
	if filters != nil {
		f = *filters
	}
	f.ApplyDefaults(s.pagination.DefaultPageSize, s.pagination.MaxPageSize)
	if err := f.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	var (
		total int
		items []models.Article
	)
	err := s.txManager.ExecReadTx(ctx, func(txCtx context.Context) error {
		var err error
		total, err = s.articleRepo.Count(txCtx, &f)
		if err != nil {
			return err
		}

		// Past the last page: nothing to fetch, total still reported
		if f.Offset() >= total {
			return nil
		}

		items, err = s.articleRepo.List(txCtx, &f)
		return err
	})
	if err != nil {
		logFailure(s.logger, "list", err, "page", f.Page, "page_size", f.PageSize)
		return nil, err
	}

	page := models.NewPage(items, total, &f)

	s.logger.Debug("articles listed",
		"page", page.Page,
		"page_size", page.PageSize,
		"total", page.Total,
		"returned", len(page.Items),
	)

	return page, nil
}
