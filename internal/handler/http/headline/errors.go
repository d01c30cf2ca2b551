package headline

import (
	"context"
	"errors"
	"net/http"

	"headline-desk/internal/domain/entity"
	"headline-desk/internal/handler/http/respond"
	"headline-desk/internal/infra/images"
	"headline-desk/internal/resilience/circuitbreaker"
	hlUC "headline-desk/internal/usecase/headline"
)

// writeError maps use case errors to HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hlUC.ErrEmptyTag):
		respond.SafeError(w, http.StatusBadRequest,
			respond.NewAppError(http.StatusBadRequest, "tag is required", err).WithLocal(msgEnterTag))
	case errors.Is(err, hlUC.ErrInvalidRange),
		errors.Is(err, entity.ErrValidationFailed),
		errors.Is(err, entity.ErrInvalidInput):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, entity.ErrNotFound):
		respond.SafeError(w, http.StatusNotFound,
			respond.NewAppError(http.StatusNotFound, "image not found", nil))
	case errors.Is(err, hlUC.ErrSnapshotNotLoaded),
		errors.Is(err, hlUC.ErrImagesDisabled),
		errors.Is(err, hlUC.ErrAnalysisDisabled):
		respond.SafeError(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, err.Error(), nil))
	case circuitbreaker.IsRejection(err):
		respond.SafeError(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, "upstream service unavailable", err))
	case errors.Is(err, images.ErrImageTooLarge):
		respond.SafeError(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "image too large", err))
	case errors.Is(err, context.DeadlineExceeded):
		respond.SafeError(w, http.StatusGatewayTimeout,
			respond.NewAppError(http.StatusGatewayTimeout, "request timed out", err))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
