package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsdesk/internal/domain"
	models "newsdesk/internal/domain/models/articles"
	articlesRepo "newsdesk/internal/domain/repositories/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/service/content"
	"newsdesk/internal/utils"
)

// articleFrontmatter is the YAML header written by the generation pipeline
type articleFrontmatter struct {
	Title          string           `yaml:"title"`
	Summary        string           `yaml:"summary"`
	Category       string           `yaml:"category"`
	Tags           utils.StringList `yaml:"tags"`
	Keywords       utils.StringList `yaml:"keywords"`
	Sentiment      string           `yaml:"sentiment"`
	Slug           string           `yaml:"slug"`
	Type           string           `yaml:"type"`
	Level          string           `yaml:"level"`
	Author         string           `yaml:"author"`
	Published      bool             `yaml:"published"`
	CoverImage     string           `yaml:"coverImage"`
	CoverImageAlt  string           `yaml:"coverImageAlt"`
	FactCheckScore *int             `yaml:"factCheckScore"`
	Sources        utils.StringList `yaml:"sources"`
}

// Importer turns generated markdown into articles through the CRUD path
type Importer struct {
	crud       *CrudService
	authorRepo articlesRepo.AuthorRepository
	logger     *slog.Logger
}

// NewImporter creates a new markdown importer
func NewImporter(crud *CrudService, authorRepo articlesRepo.AuthorRepository, logger *slog.Logger) *Importer {
	return &Importer{
		crud:       crud,
		authorRepo: authorRepo,
		logger:     logger,
	}
}

// Import parses frontmatter, normalizes the body and creates the article.
// Every create invariant applies; a duplicate slug is a Conflict.
func (i *Importer) Import(ctx context.Context, req *articlesSvc.ImportRequest, actingUserID string) (*models.Article, error) {
	if req == nil || strings.TrimSpace(req.Markdown) == "" {
		return nil, domain.NewValidation("markdown", "is required")
	}

	var fm articleFrontmatter
	body, err := utils.ParseFrontmatter([]byte(req.Markdown), &fm)
	if err != nil {
		return nil, domain.NewValidation("markdown", err.Error())
	}

	if missing := fm.missingFields(); len(missing) > 0 {
		return nil, domain.NewValidation("frontmatter", "missing required fields: "+strings.Join(missing, ", "))
	}

	create, err := i.buildRequest(ctx, &fm, body, req.Filename, actingUserID)
	if err != nil {
		return nil, err
	}

	article, err := i.crud.Create(ctx, create, actingUserID)
	if err != nil {
		return nil, err
	}

	i.logger.Info("article imported",
		"id", article.ID,
		"slug", article.Slug,
		"filename", req.Filename,
	)
	return article, nil
}

func (i *Importer) buildRequest(ctx context.Context, fm *articleFrontmatter, body, filename, actingUserID string) (*articlesSvc.CreateArticleRequest, error) {
	articleType := models.ArticleType(strings.ToLower(strings.TrimSpace(fm.Type)))
	if articleType == "" {
		articleType = models.TypeNews
	}

	processed := content.ProcessGenerated(body, articleType)
	if processed == "" {
		return nil, domain.NewValidation("markdown", "article body is empty")
	}

	// frontmatter slug, then filename, then title (derived by Create)
	slug := strings.TrimSpace(fm.Slug)
	if slug == "" && filename != "" {
		slug = content.SlugFromFilename(filename)
	}

	sentiment := models.Sentiment(strings.ToLower(strings.TrimSpace(fm.Sentiment)))
	if !isSentiment(sentiment) {
		sentiment = models.SentimentNeutral
	}

	tags := []string(fm.Tags)
	if len(tags) == 0 {
		tags = content.ExtractTags(processed, nil)
	}

	authorID := actingUserID
	if email := strings.TrimSpace(fm.Author); email != "" {
		author, err := i.authorRepo.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewNotFound("author", email)
			}
			return nil, fmt.Errorf("look up author: %w", err)
		}
		authorID = author.ID
	}

	summary := strings.TrimSpace(fm.Summary)
	req := &articlesSvc.CreateArticleRequest{
		Title:          strings.TrimSpace(fm.Title),
		Slug:           slug,
		Content:        processed,
		Excerpt:        &summary,
		Type:           articleType,
		Category:       strings.TrimSpace(fm.Category),
		Sentiment:      sentiment,
		Published:      fm.Published,
		Tags:           tags,
		Keywords:       fm.Keywords,
		AuthorID:       authorID,
		FactCheckScore: fm.FactCheckScore,
	}

	if fm.Level != "" {
		level := models.Level(strings.ToLower(fm.Level))
		req.Level = &level
	}
	if fm.CoverImage != "" {
		req.CoverImage = &fm.CoverImage
		if fm.CoverImageAlt != "" {
			req.CoverImageAlt = &fm.CoverImageAlt
		}
	}
	if len(fm.Sources) > 0 {
		req.FactCheckSources = fm.Sources
		req.Citations = make([]models.CitationInput, len(fm.Sources))
		for n, src := range fm.Sources {
			req.Citations[n] = models.CitationInput{URL: src}
		}
	}
	if fm.FactCheckScore != nil {
		now := time.Now().UTC()
		req.FactCheckDate = &now
	}

	return req, nil
}

func (fm *articleFrontmatter) missingFields() []string {
	var missing []string
	if strings.TrimSpace(fm.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(fm.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(fm.Category) == "" {
		missing = append(missing, "category")
	}
	return missing
}

func isSentiment(s models.Sentiment) bool {
	for _, v := range models.AllSentiments {
		if v == s {
			return true
		}
	}
	return false
}
