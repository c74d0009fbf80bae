package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/service"
	"veritaslab/internal/storage"

	"github.com/gin-gonic/gin"
)

// requestTimeout bounds the work a handler does for one request.
const requestTimeout = 5 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// bindError answers a failed ShouldBind call.
func bindError(c *gin.Context, err error) {
	if fields := dto.FormatValidationErrors(err); fields != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNameInUse),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrEmptyPatch),
		errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrAbstractRequired),
		errors.Is(err, service.ErrFullNameRequired),
		errors.Is(err, service.ErrUnknownFormat),
		errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, storage.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrTooLarge), errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a service error to its status code. Unclassified errors
// are logged and hidden from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
