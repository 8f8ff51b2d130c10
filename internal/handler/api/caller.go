package api

import (
	"errors"
	"net/http"

	"stayledger/internal/domain/booking"
	"stayledger/internal/handler/httperr"
	"stayledger/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	idempotencyKeyHeader     = "Idempotency-Key"
	idempotentReplayedHeader = "Idempotent-Replayed"
)

var (
	errNoCaller              = errors.New("no authenticated caller")
	errInvalidID             = errors.New("booking id must be positive")
	errInvalidIdempotencyKey = errors.New("invalid idempotency key format")
)

// requireCaller aborts with 401 when the auth middleware did not run.
func requireCaller(c *gin.Context) (booking.Address, bool) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoCaller, "Unauthorized", nil)
		return booking.Address{}, false
	}
	return caller, true
}

// getIdempotencyKey returns uuid.Nil when the header is absent.
func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader(idempotencyKeyHeader)
	if keyStr == "" {
		return uuid.Nil, nil
	}
	key, err := uuid.Parse(keyStr)
	if err != nil || key == uuid.Nil {
		return uuid.Nil, errInvalidIdempotencyKey
	}
	return key, nil
}
