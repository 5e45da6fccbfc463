package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"newsdesk/internal/domain"
	"newsdesk/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses.
// Typed errors carry their details as extension members.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		var extras map[string]interface{}
		if validationErr.Field != "" {
			extras = map[string]interface{}{"field": validationErr.Field}
		}
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, validationErr.Error(), extras)
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		httputil.RespondErrorWithExtras(w, http.StatusNotFound, notFoundErr.Error(), map[string]interface{}{
			"resource": notFoundErr.Resource,
			"ids":      notFoundErr.IDs,
		})
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), map[string]interface{}{
			"resourceType": conflictErr.ResourceType,
			"resourceId":   conflictErr.ResourceID,
		})
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotImplemented):
		httputil.RespondError(w, http.StatusNotImplemented, err.Error())
	default:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
