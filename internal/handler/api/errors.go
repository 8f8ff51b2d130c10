package api

import (
	"errors"
	"log/slog"
	"net/http"

	"stayledger/internal/domain/booking"
	"stayledger/internal/handler/httperr"
	"stayledger/internal/pkg/errs"
	"stayledger/internal/usecase/commands"
	"stayledger/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// abortWithUsecaseError picks the response status from the error class.
// Lifecycle rejections carry their code in the detail.
func abortWithUsecaseError(c *gin.Context, err error, msg string) {
	var be *booking.Error
	if errors.As(err, &be) {
		httperr.AbortWithError(c, statusForBookingError(be), err, msg, gin.H{"code": be.Code()})
		return
	}

	switch {
	case errors.Is(err, errs.ErrDuplicateListing):
		httperr.AbortWithError(c, http.StatusConflict, err, msg, gin.H{"code": "DuplicateListing"})
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request with this Idempotency-Key is still in progress", gin.H{"code": "IdempotencyInProgress"})
	case errors.Is(err, commands.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Idempotency-Key was used with a different request", gin.H{"code": "IdempotencyKeyReused"})
	case errors.Is(err, errs.ErrInvalidScope), errors.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
	case errors.Is(err, errs.ErrSyncNotStarted), errs.IsSystemic(err):
		slog.Warn("dependency unavailable", "path", c.FullPath(), "error", err)
		httperr.AbortWithError(c, http.StatusServiceUnavailable, err, "Service temporarily unavailable", nil)
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func statusForBookingError(e *booking.Error) int {
	switch e.Kind() {
	case booking.KindAuthorization:
		return http.StatusForbidden
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindTiming:
		return http.StatusConflict
	default:
		if errors.Is(e, booking.ErrDateConflict) {
			return http.StatusConflict
		}
		return http.StatusBadRequest
	}
}
