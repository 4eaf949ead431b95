package api

import (
	"errors"
	"net/http"

	"alcyxob/reptrack/internal/repository"
	"alcyxob/reptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps a service or repository error to a status code and a
// short message. Unexpected errors are logged and reported generically.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrInvalidCursor):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenRevoked):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		abortWithError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, service.ErrUserAlreadyExists), errors.Is(err, repository.ErrAlreadyExists):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrRemoteUnavailable):
		log.WithError(err).WithField("path", c.FullPath()).Warn("Remote store unavailable")
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
