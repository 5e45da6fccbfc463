package articles

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
)

// StatsService computes corpus-wide aggregates
type StatsService struct {
	statsRepo articlesRepo.StatsRepository
	logger    *slog.Logger
}

// NewStatsService creates a new stats service
func NewStatsService(statsRepo articlesRepo.StatsRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// GetStats runs the four aggregates concurrently.
// Each aggregate is consistent on its own; under concurrent writes they may
// observe slightly different instants.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	var (
		publication models.PublicationCounts
		byType      []models.GroupCount
		byCategory  []models.GroupCount
		bySentiment []models.GroupCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		publication, err = s.statsRepo.CountByPublication(gctx)
		if err != nil {
			return fmt.Errorf("count by publication: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byType, err = s.statsRepo.CountByType(gctx)
		if err != nil {
			return fmt.Errorf("count by type: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.statsRepo.CountByCategory(gctx)
		if err != nil {
			return fmt.Errorf("count by category: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bySentiment, err = s.statsRepo.CountBySentiment(gctx)
		if err != nil {
			return fmt.Errorf("count by sentiment: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logFailure(s.logger, "stats", err)
		return nil, err
	}

	return &models.Stats{
		Total:       publication.Published + publication.Draft,
		Published:   publication.Published,
		Draft:       publication.Draft,
		ByType:      models.ToMap(byType),
		ByCategory:  models.ToMap(byCategory),
		BySentiment: models.ToMap(bySentiment),
	}, nil
}
