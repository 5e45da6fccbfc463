package handler

import (
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	articlesSvc "newsdesk/internal/domain/services/articles"
	"newsdesk/internal/httputil"
)

// maxImportSize bounds a single markdown upload
const maxImportSize = 5 << 20

// ImportHandler creates articles from generated markdown files.
//
// Accepts either:
//   - multipart/form-data with the document in the "file" field
//   - a JSON body {"markdown": "...", "filename": "..."}
type ImportHandler struct {
	articleService articlesSvc.ArticleService
	logger         *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(articleService articlesSvc.ArticleService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		articleService: articleService,
		logger:         logger,
	}
}

// Import handles one markdown document
// POST /api/articles/import
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readRequest(w, r)
	if !ok {
		return
	}

	userID := httputil.GetUserID(r)
	h.logger.Info("starting import",
		"filename", req.Filename,
		"bytes", len(req.Markdown),
		"user_id", userID,
	)

	article, err := h.articleService.Import(r.Context(), req, userID)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// readRequest writes the error response itself and returns false on failure
func (h *ImportHandler) readRequest(w http.ResponseWriter, r *http.Request) (*articlesSvc.ImportRequest, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req articlesSvc.ImportRequest
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return nil, false
		}
		return &req, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize+1<<20)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file provided")
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".md") &&
		!strings.HasSuffix(strings.ToLower(header.Filename), ".markdown") {
		httputil.RespondError(w, http.StatusBadRequest, "only .md files can be imported")
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		h.logger.Error("failed to read uploaded file", "file", header.Filename, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to read file")
		return nil, false
	}

	return &articlesSvc.ImportRequest{Markdown: string(data), Filename: header.Filename}, true
}
