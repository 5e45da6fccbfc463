package articles

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
)

// BatchService applies one action to a bounded set of articles
type BatchService struct {
	bulkRepo articlesRepo.BulkRepository
	maxBulk  int
	logger   *slog.Logger
	now      func() time.Time
}

// NewBatchService creates a new batch service. maxBulk is the id ceiling.
func NewBatchService(bulkRepo articlesRepo.BulkRepository, maxBulk int, logger *slog.Logger) *BatchService {
	return &BatchService{
		bulkRepo: bulkRepo,
		maxBulk:  maxBulk,
		logger:   logger,
		now:      time.Now,
	}
}

// BulkOperation validates the whole request before touching storage, then runs
// one set-based statement. Ids that do not exist are not an error; Count
// reports the rows actually affected.
func (s *BatchService) BulkOperation(ctx context.Context, req *models.BulkRequest) (*models.BulkResult, error) {
	if req == nil {
		return nil, domain.NewValidation("body", "request body is required")
	}
	if len(req.ArticleIDs) > s.maxBulk {
		return nil, domain.NewValidation("articleIds",
			fmt.Sprintf("at most %d articles per bulk operation (got %d)", s.maxBulk, len(req.ArticleIDs)))
	}

	ids := models.OrderedSet(req.ArticleIDs)
	if len(ids) == 0 {
		return nil, domain.NewValidation("articleIds", "at least one article id is required")
	}

	var category string
	switch req.Action {
	case models.BulkPublish, models.BulkUnpublish, models.BulkDelete:
	case models.BulkUpdateCategory:
		if req.Data == nil || req.Data.Category == nil || strings.TrimSpace(*req.Data.Category) == "" {
			return nil, domain.NewValidation("data.category", "is required for updateCategory")
		}
		category = strings.TrimSpace(*req.Data.Category)
	default:
		return nil, domain.NewValidation("action",
			fmt.Sprintf("unsupported action %q (supported: publish, unpublish, delete, updateCategory)", req.Action))
	}

	at := s.now().UTC().Truncate(time.Microsecond)

	var (
		count int
		err   error
	)
	switch req.Action {
	case models.BulkPublish:
		count, err = s.bulkRepo.SetPublished(ctx, ids, true, at)
	case models.BulkUnpublish:
		count, err = s.bulkRepo.SetPublished(ctx, ids, false, at)
	case models.BulkDelete:
		count, err = s.bulkRepo.DeleteMany(ctx, ids)
	case models.BulkUpdateCategory:
		count, err = s.bulkRepo.SetCategory(ctx, ids, category, at)
	}
	if err != nil {
		logFailure(s.logger, "bulk_"+string(req.Action), err, "ids", len(ids))
		return nil, err
	}

	s.logger.Info("bulk operation applied",
		"action", req.Action,
		"requested", len(ids),
		"affected", count,
	)

	return &models.BulkResult{Count: count, ArticleIDs: ids}, nil
}
