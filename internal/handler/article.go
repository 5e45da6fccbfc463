package handler

import (
	"log/slog"
	"net/http"
	"time"

	models "newsdesk/internal/domain/models/articles"
	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/httputil"
)

// ArticleHandler handles article HTTP requests
type ArticleHandler struct {
	articleService articlesSvc.ArticleService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService articlesSvc.ArticleService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// updateArticleBody is the PATCH/PUT payload. Nullable columns use the
// Optional types so that JSON null clears them while absence keeps them.
type updateArticleBody struct {
	Title   *string `json:"title"`
	Slug    *string `json:"slug"`
	Content *string `json:"content"`
	Excerpt *string `json:"excerpt"`

	Type              *models.ArticleType    `json:"type"`
	Category          *string                `json:"category"`
	CategoryID        *string                `json:"categoryId"`
	Level             models.OptionalString  `json:"level"`
	Sentiment         *models.Sentiment      `json:"sentiment"`
	ContentType       models.OptionalString  `json:"contentType"`
	WarningLevel      models.OptionalString  `json:"warningLevel"`
	ProjectHighlight  *bool                  `json:"projectHighlight"`
	ReadTime          *articlesSvc.ReadTime  `json:"readTime"`
	CoverImage        models.OptionalString  `json:"coverImage"`
	CoverImageAlt     models.OptionalString  `json:"coverImageAlt"`
	Published         *bool                  `json:"published"`
	FactCheckScore    models.OptionalInt     `json:"factCheckScore"`
	FactCheckSources  []string               `json:"factCheckSources"`
	FactCheckStatus   models.OptionalString  `json:"factCheckStatus"`
	FactCheckDate     *time.Time             `json:"factCheckDate"`
	Tags              []string               `json:"tags"`
	TagIDs            []string               `json:"tagIds"`
	Keywords          []string               `json:"keywords"`
	SecurityTips      []string               `json:"securityTips"`
	RelatedArticleIDs []string               `json:"relatedArticleIds"`
	AuthorID          *string                `json:"authorId"`
	Citations         []models.CitationInput `json:"citations"`
}

func (b *updateArticleBody) toRequest() *articlesSvc.UpdateArticleRequest {
	return &articlesSvc.UpdateArticleRequest{
		Title:             b.Title,
		Slug:              b.Slug,
		Content:           b.Content,
		Excerpt:           b.Excerpt,
		Type:              b.Type,
		Category:          b.Category,
		CategoryID:        b.CategoryID,
		Level:             b.Level,
		Sentiment:         b.Sentiment,
		ContentType:       b.ContentType,
		WarningLevel:      b.WarningLevel,
		ProjectHighlight:  b.ProjectHighlight,
		ReadTime:          b.ReadTime,
		CoverImage:        b.CoverImage,
		CoverImageAlt:     b.CoverImageAlt,
		Published:         b.Published,
		FactCheckScore:    b.FactCheckScore,
		FactCheckSources:  b.FactCheckSources,
		FactCheckStatus:   b.FactCheckStatus,
		FactCheckDate:     b.FactCheckDate,
		Tags:              b.Tags,
		TagIDs:            b.TagIDs,
		Keywords:          b.Keywords,
		SecurityTips:      b.SecurityTips,
		RelatedArticleIDs: b.RelatedArticleIDs,
		AuthorID:          b.AuthorID,
		Citations:         b.Citations,
	}
}

// ListArticles returns one page of articles
// GET /api/articles
//
// Callers without the admin role only ever see published articles,
// whatever the published parameter says.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	filters, err := parseListFilters(r)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	if !httputil.IsAdmin(r) {
		filters.Published = models.PublishedOnly
	}

	page, err := h.articleService.List(r.Context(), filters)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, page)
}

// GetStats returns aggregate counts
// GET /api/articles/stats
func (h *ArticleHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.articleService.GetStats(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}

// GetArticle retrieves an article by ID
// GET /api/articles/{id}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.respondVisible(w, r, article)
}

// GetArticleBySlug retrieves an article by slug
// GET /api/articles/slug/{slug}
func (h *ArticleHandler) GetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	h.respondVisible(w, r, article)
}

// respondVisible hides drafts from non-admin callers as if they did not exist
func (h *ArticleHandler) respondVisible(w http.ResponseWriter, r *http.Request, article *models.Article) {
	if !article.Published && !httputil.IsAdmin(r) {
		httputil.RespondError(w, http.StatusNotFound, "article not found")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, article)
}

// CreateArticle creates a new article
// POST /api/articles
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req articlesSvc.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Create(r.Context(), &req, httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// UpdateArticle applies a partial update
// PATCH /api/articles/{id} (PUT is accepted with the same semantics)
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var body updateArticleBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	article, err := h.articleService.Update(r.Context(), r.PathValue("id"), body.toRequest(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle hard-deletes an article
// DELETE /api/articles/{id}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articleService.Delete(r.Context(), r.PathValue("id"), httputil.GetUserID(r)); err != nil {
		handleError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreArticle always answers 501
// POST /api/articles/{id}/restore
func (h *ArticleHandler) RestoreArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.articleService.Restore(r.Context(), r.PathValue("id"), httputil.GetUserID(r))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// BulkOperation applies one action to many articles
// POST /api/articles/bulk
func (h *ArticleHandler) BulkOperation(w http.ResponseWriter, r *http.Request) {
	var req models.BulkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.articleService.BulkOperation(r.Context(), &req)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	h.logger.Info("bulk request served",
		"action", req.Action,
		"user_id", httputil.GetUserID(r),
		"count", result.Count,
	)
	httputil.RespondJSON(w, http.StatusOK, result)
}
