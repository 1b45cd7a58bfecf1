// Package handlers exposes the HTTP API over gin.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wellhub/internal/apperrors"
	"wellhub/internal/cache"
	"wellhub/internal/logger"
	"wellhub/internal/service"
)

// Handlers carries the services the HTTP layer delegates to.
type Handlers struct {
	services *service.Services
	valkey   *cache.ValkeyClient
}

func New(services *service.Services, valkey *cache.ValkeyClient) *Handlers {
	return &Handlers{services: services, valkey: valkey}
}

// writeError maps domain errors to HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "event is full"})
	case errors.Is(err, apperrors.ErrDuplicateRegistration):
		c.JSON(http.StatusConflict, gin.H{"error": "already registered for this event"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		logger.WithContext(c.Request.Context()).Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
