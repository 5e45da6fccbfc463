package articles

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	models "newsdesk/internal/domain/models/articles"
)

// ArticleService is the single entry point for article operations
type ArticleService interface {
	// Create stores a new article and its citations.
	// actingUserID becomes the author when req.AuthorID is empty.
	Create(ctx context.Context, req *CreateArticleRequest, actingUserID string) (*models.Article, error)

	// GetByID returns an article with author projection and citations
	GetByID(ctx context.Context, id string) (*models.Article, error)

	// GetBySlug returns an article by its unique slug
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// Update applies only the fields present in req
	Update(ctx context.Context, id string, req *UpdateArticleRequest, actingUserID string) (*models.Article, error)

	// Delete hard-deletes an article and its citations
	Delete(ctx context.Context, id, actingUserID string) error

	// Restore is not supported; articles are hard-deleted
	Restore(ctx context.Context, id, actingUserID string) (*models.Article, error)

	// List returns one page of articles matching filters
	List(ctx context.Context, filters *models.ListFilters) (*models.Page, error)

	// GetStats returns aggregate counts over all articles
	GetStats(ctx context.Context) (*models.Stats, error)

	// BulkOperation applies one action to up to the configured ceiling of ids
	BulkOperation(ctx context.Context, req *models.BulkRequest) (*models.BulkResult, error)

	// Import creates an article from frontmatter markdown
	Import(ctx context.Context, req *ImportRequest, actingUserID string) (*models.Article, error)
}

// CreateArticleRequest is the input for creating an article.
// Optional pointer fields fall back to defaults or derived values.
type CreateArticleRequest struct {
	Title   string  `json:"title"`
	Slug    string  `json:"slug,omitempty"` // derived from title when empty
	Content string  `json:"content"`
	Excerpt *string `json:"excerpt,omitempty"` // derived from content when nil

	Type              models.ArticleType     `json:"type,omitempty"` // default news
	Category          string                 `json:"category,omitempty"`
	CategoryID        *string                `json:"categoryId,omitempty"` // wins over Category
	Level             *models.Level          `json:"level,omitempty"`
	Sentiment         models.Sentiment       `json:"sentiment,omitempty"` // default neutral
	ContentType       *string                `json:"contentType,omitempty"`
	WarningLevel      *models.WarningLevel   `json:"warningLevel,omitempty"`
	ProjectHighlight  bool                   `json:"projectHighlight,omitempty"`
	ReadTime          *ReadTime              `json:"readTime,omitempty"` // recomputed from content when nil
	CoverImage        *string                `json:"coverImage,omitempty"`
	CoverImageAlt     *string                `json:"coverImageAlt,omitempty"`
	Published         bool                   `json:"published,omitempty"`
	FactCheckScore    *int                   `json:"factCheckScore,omitempty"`
	FactCheckSources  []string               `json:"factCheckSources,omitempty"`
	FactCheckStatus   *string                `json:"factCheckStatus,omitempty"`
	FactCheckDate     *time.Time             `json:"factCheckDate,omitempty"`
	Tags              []string               `json:"tags,omitempty"`
	TagIDs            []string               `json:"tagIds,omitempty"` // wins over Tags
	Keywords          []string               `json:"keywords,omitempty"`
	SecurityTips      []string               `json:"securityTips,omitempty"`
	RelatedArticleIDs []string               `json:"relatedArticleIds,omitempty"`
	AuthorID          string                 `json:"authorId,omitempty"`
	Citations         []models.CitationInput `json:"citations,omitempty"`
}

// UpdateArticleRequest is a partial update.
// Nil pointers and nil slices leave the stored value untouched; an empty
// non-nil slice clears it. Optional* fields can also clear nullable columns.
type UpdateArticleRequest struct {
	Title   *string
	Slug    *string
	Content *string
	Excerpt *string

	Type              *models.ArticleType
	Category          *string
	CategoryID        *string
	Level             models.OptionalString
	Sentiment         *models.Sentiment
	ContentType       models.OptionalString
	WarningLevel      models.OptionalString
	ProjectHighlight  *bool
	ReadTime          *ReadTime
	CoverImage        models.OptionalString
	CoverImageAlt     models.OptionalString
	Published         *bool
	FactCheckScore    models.OptionalInt
	FactCheckSources  []string
	FactCheckStatus   models.OptionalString
	FactCheckDate     *time.Time
	Tags              []string
	TagIDs            []string
	Keywords          []string
	SecurityTips      []string
	RelatedArticleIDs []string
	AuthorID          *string

	// Citations replaces the whole set when non-nil
	Citations []models.CitationInput
}

// ImportRequest carries a generated markdown document with YAML frontmatter
type ImportRequest struct {
	Markdown string `json:"markdown"`
	Filename string `json:"filename,omitempty"`
}

// ReadTime is an explicit read-time override in minutes.
// JSON accepts a number (7) or the stored form ("7 min").
type ReadTime int

// UnmarshalJSON implements json.Unmarshaler
func (r *ReadTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := ParseReadTime(s)
		if err != nil {
			return err
		}
		*r = ReadTime(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("readTime must be minutes or \"N min\": %w", err)
	}
	*r = ReadTime(n)
	return nil
}

// ParseReadTime parses "7", "7 min" or "7min" into minutes
func ParseReadTime(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "min"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid readTime %q", s)
	}
	return n, nil
}

// StatsCache is a read-through cache for GetStats.
// Implementations must treat a miss as (nil, false, nil).
type StatsCache interface {
	Get(ctx context.Context) (*models.Stats, bool, error)
	Set(ctx context.Context, stats *models.Stats) error
	Invalidate(ctx context.Context) error
}
