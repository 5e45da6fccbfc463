package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/config"
	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	"newsdesk/internal/domain/repositories"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/service/content"
)

// CrudService creates, reads, updates and deletes single articles
type CrudService struct {
	articleRepo  articlesRepo.ArticleRepository
	citationRepo articlesRepo.CitationRepository
	verifier     *RelationshipVerifier
	txManager    repositories.TransactionManager
	sanitizer    *content.Sanitizer
	logger       *slog.Logger
	now          func() time.Time
}

// NewCrudService creates a new CRUD service
func NewCrudService(
	articleRepo articlesRepo.ArticleRepository,
	citationRepo articlesRepo.CitationRepository,
	verifier *RelationshipVerifier,
	txManager repositories.TransactionManager,
	sanitizer *content.Sanitizer,
	logger *slog.Logger,
) *CrudService {
	return &CrudService{
		articleRepo:  articleRepo,
		citationRepo: citationRepo,
		verifier:     verifier,
		txManager:    txManager,
		sanitizer:    sanitizer,
		logger:       logger,
		now:          time.Now,
	}
}

// Create validates, derives missing fields and stores an article with its citations
func (s *CrudService) Create(ctx context.Context, req *articlesSvc.CreateArticleRequest, actingUserID string) (*models.Article, error) {
	if req == nil {
		return nil, domain.NewValidation("body", "request body is required")
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	citations, err := content.NormalizeCitations(req.Citations)
	if err != nil {
		return nil, err
	}

	article, err := s.newArticle(req, actingUserID)
	if err != nil {
		return nil, err
	}

	var author *models.AuthorRecord
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		taken, err := s.articleRepo.SlugTaken(txCtx, article.Slug, "")
		if err != nil {
			return err
		}
		if taken {
			return slugConflict(article.Slug)
		}

		author, err = s.verifier.Author(txCtx, article.AuthorID)
		if err != nil {
			return err
		}

		rel, err := s.verifier.Verify(txCtx, relationshipInput{
			CategoryID: req.CategoryID,
			TagIDs:     models.OrderedSet(req.TagIDs),
			RelatedIDs: article.RelatedArticleIDs,
		})
		if err != nil {
			return err
		}
		applyRelationships(article, rel)

		if err := s.articleRepo.Create(txCtx, article); err != nil {
			return err
		}

		return s.replaceCitations(txCtx, article, citations)
	})
	if err != nil {
		s.logFailure("create", err, "slug", article.Slug)
		return nil, err
	}

	article.Author = author.Projection()

	s.logger.Info("article created",
		"id", article.ID,
		"slug", article.Slug,
		"type", article.Type,
		"author_id", article.AuthorID,
		"citations", len(article.Citations),
	)

	return article, nil
}

// GetByID returns an article with its author projection and citations
func (s *CrudService) GetByID(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		s.logFailure("get_by_id", err, "id", id)
		return nil, err
	}
	return s.withCitations(ctx, article)
}

// GetBySlug returns an article by slug
func (s *CrudService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logFailure("get_by_slug", err, "slug", slug)
		return nil, err
	}
	return s.withCitations(ctx, article)
}

// Update applies the fields present in req and re-checks every invariant they touch
func (s *CrudService) Update(ctx context.Context, id string, req *articlesSvc.UpdateArticleRequest, actingUserID string) (*models.Article, error) {
	if req == nil {
		return nil, domain.NewValidation("body", "request body is required")
	}
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	var citations []models.Citation
	if req.Citations != nil {
		normalized, err := content.NormalizeCitations(req.Citations)
		if err != nil {
			return nil, err
		}
		citations = normalized
	}

	var updated *models.Article
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		next := *current
		if err := s.applyUpdate(&next, req); err != nil {
			return err
		}

		if next.Slug != current.Slug {
			taken, err := s.articleRepo.SlugTaken(txCtx, next.Slug, id)
			if err != nil {
				return err
			}
			if taken {
				return slugConflict(next.Slug)
			}
		}

		if req.AuthorID != nil {
			if _, err := s.verifier.Author(txCtx, next.AuthorID); err != nil {
				return err
			}
		}

		rel, err := s.verifier.Verify(txCtx, relationshipInput{
			CategoryID: req.CategoryID,
			TagIDs:     models.OrderedSet(req.TagIDs),
			RelatedIDs: relatedToVerify(req),
		})
		if err != nil {
			return err
		}
		applyRelationships(&next, rel)

		next.UpdatedAt = models.NextUpdatedAt(current.UpdatedAt, s.now())

		if err := s.articleRepo.Update(txCtx, &next); err != nil {
			return err
		}

		if req.Citations != nil {
			if err := s.replaceCitations(txCtx, &next, citations); err != nil {
				return err
			}
		}

		// Re-read for the author projection, which may have changed
		updated, err = s.articleRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		updated.Citations, err = s.citationRepo.ListByArticle(txCtx, id)
		return err
	})
	if err != nil {
		s.logFailure("update", err, "id", id)
		return nil, err
	}

	s.logger.Info("article updated",
		"id", updated.ID,
		"slug", updated.Slug,
		"user_id", actingUserID,
		"citations_replaced", req.Citations != nil,
	)

	return updated, nil
}

// Delete hard-deletes an article; its citations go with it
func (s *CrudService) Delete(ctx context.Context, id, actingUserID string) error {
	if err := s.articleRepo.Delete(ctx, id); err != nil {
		s.logFailure("delete", err, "id", id)
		return err
	}

	s.logger.Info("article deleted", "id", id, "user_id", actingUserID)
	return nil
}

// newArticle builds the row for a create request, filling defaults and derived fields
func (s *CrudService) newArticle(req *articlesSvc.CreateArticleRequest, actingUserID string) (*models.Article, error) {
	slug := req.Slug
	if slug == "" {
		slug = content.Slugify(req.Title)
		if len(slug) < config.MinSlugLength {
			return nil, domain.NewValidation("slug", "cannot be derived from title; provide one explicitly")
		}
	}

	authorID := req.AuthorID
	if authorID == "" {
		authorID = actingUserID
	}
	if authorID == "" {
		return nil, domain.NewValidation("authorId", "is required")
	}

	sanitized := s.sanitizer.Sanitize(req.Content)

	excerpt := content.Excerpt(sanitized, content.MaxExcerptLength)
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	}

	readTime := content.ReadTime(sanitized)
	if req.ReadTime != nil {
		readTime = content.FormatReadTime(int(*req.ReadTime))
	}

	articleType := req.Type
	if articleType == "" {
		articleType = models.TypeNews
	}
	sentiment := req.Sentiment
	if sentiment == "" {
		sentiment = models.SentimentNeutral
	}

	now := s.now().UTC().Truncate(time.Microsecond)

	return &models.Article{
		ID:                uuid.NewString(),
		Slug:              slug,
		Title:             req.Title,
		Content:           sanitized,
		Excerpt:           excerpt,
		Type:              articleType,
		Category:          req.Category,
		Level:             req.Level,
		Sentiment:         sentiment,
		ContentType:       req.ContentType,
		WarningLevel:      req.WarningLevel,
		ProjectHighlight:  req.ProjectHighlight,
		ReadTime:          readTime,
		CoverImage:        req.CoverImage,
		CoverImageAlt:     req.CoverImageAlt,
		Published:         req.Published,
		FactCheckScore:    req.FactCheckScore,
		FactCheckSources:  models.OrderedSet(req.FactCheckSources),
		FactCheckStatus:   req.FactCheckStatus,
		FactCheckDate:     req.FactCheckDate,
		Tags:              models.OrderedSet(req.Tags),
		Keywords:          models.OrderedSet(req.Keywords),
		SecurityTips:      models.OrderedSet(req.SecurityTips),
		RelatedArticleIDs: models.OrderedSet(req.RelatedArticleIDs),
		AuthorID:          authorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// applyUpdate copies present fields from req onto a
func (s *CrudService) applyUpdate(a *models.Article, req *articlesSvc.UpdateArticleRequest) error {
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Slug != nil {
		a.Slug = *req.Slug
	}
	if req.Content != nil {
		a.Content = s.sanitizer.Sanitize(*req.Content)
		if req.ReadTime == nil {
			a.ReadTime = content.ReadTime(a.Content)
		}
	}
	if req.ReadTime != nil {
		a.ReadTime = content.FormatReadTime(int(*req.ReadTime))
	}
	if req.Excerpt != nil {
		a.Excerpt = *req.Excerpt
	}
	if req.Type != nil {
		a.Type = *req.Type
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.Sentiment != nil {
		a.Sentiment = *req.Sentiment
	}
	if req.ProjectHighlight != nil {
		a.ProjectHighlight = *req.ProjectHighlight
	}
	if req.Published != nil {
		a.Published = *req.Published
	}
	if req.AuthorID != nil {
		a.AuthorID = *req.AuthorID
	}
	if req.FactCheckDate != nil {
		a.FactCheckDate = req.FactCheckDate
	}

	a.Level = (*models.Level)(req.Level.Apply((*string)(a.Level)))
	a.WarningLevel = (*models.WarningLevel)(req.WarningLevel.Apply((*string)(a.WarningLevel)))
	a.ContentType = req.ContentType.Apply(a.ContentType)
	a.CoverImage = req.CoverImage.Apply(a.CoverImage)
	a.CoverImageAlt = req.CoverImageAlt.Apply(a.CoverImageAlt)
	a.FactCheckStatus = req.FactCheckStatus.Apply(a.FactCheckStatus)
	a.FactCheckScore = req.FactCheckScore.Apply(a.FactCheckScore)

	if req.FactCheckSources != nil {
		a.FactCheckSources = models.OrderedSet(req.FactCheckSources)
	}
	if req.Tags != nil {
		a.Tags = models.OrderedSet(req.Tags)
	}
	if req.Keywords != nil {
		a.Keywords = models.OrderedSet(req.Keywords)
	}
	if req.SecurityTips != nil {
		a.SecurityTips = models.OrderedSet(req.SecurityTips)
	}
	if req.RelatedArticleIDs != nil {
		related := models.OrderedSet(req.RelatedArticleIDs)
		for _, id := range related {
			if id == a.ID {
				return domain.NewValidation("relatedArticleIds", "an article cannot be related to itself")
			}
		}
		a.RelatedArticleIDs = related
	}

	return nil
}

// replaceCitations swaps the article's citation set for citations
func (s *CrudService) replaceCitations(ctx context.Context, a *models.Article, citations []models.Citation) error {
	now := a.UpdatedAt
	stored := make([]models.Citation, len(citations))
	for i, c := range citations {
		c.ID = uuid.NewString()
		c.ArticleID = a.ID
		c.CreatedAt = now
		stored[i] = c
	}

	if err := s.citationRepo.ReplaceForArticle(ctx, a.ID, stored); err != nil {
		return err
	}
	a.Citations = stored
	return nil
}

func (s *CrudService) withCitations(ctx context.Context, a *models.Article) (*models.Article, error) {
	citations, err := s.citationRepo.ListByArticle(ctx, a.ID)
	if err != nil {
		s.logFailure("list_citations", err, "id", a.ID)
		return nil, err
	}
	a.Citations = citations
	return a, nil
}

// logFailure logs unexpected storage errors loudly and domain errors quietly
func (s *CrudService) logFailure(operation string, err error, args ...any) {
	logFailure(s.logger, operation, err, args...)
}

func logFailure(logger *slog.Logger, operation string, err error, args ...any) {
	args = append([]any{"operation", operation, "error", err}, args...)
	if isDomainError(err) {
		logger.Debug("article operation rejected", args...)
		return
	}
	logger.Error("article operation failed", args...)
}

func isDomainError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrNotImplemented)
}

// applyRelationships stores the resolved catalog rows on the article
func applyRelationships(a *models.Article, rel *resolvedRelationships) {
	if rel.Category != nil {
		a.Category = rel.Category.Slug
	}
	if len(rel.Tags) > 0 {
		slugs := make([]string, len(rel.Tags))
		for i, t := range rel.Tags {
			slugs[i] = t.Slug
		}
		a.Tags = models.OrderedSet(slugs)
	}
}

// relatedToVerify re-checks related ids only when the update supplies them
func relatedToVerify(req *articlesSvc.UpdateArticleRequest) []string {
	if req.RelatedArticleIDs == nil {
		return nil
	}
	return models.OrderedSet(req.RelatedArticleIDs)
}

func slugConflict(slug string) error {
	return &domain.ConflictError{
		Message:      fmt.Sprintf("article with slug '%s' already exists", slug),
		ResourceType: "article",
		ResourceID:   slug,
	}
}
