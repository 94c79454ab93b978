// Package handler implements the storefront HTTP endpoints on gin.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/specterworks/storefront/internal/domain/shared"
	"github.com/specterworks/storefront/internal/infrastructure/logger"
	"github.com/specterworks/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Error sends a JSON error body with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(message))
}

// InternalError sends a 500 response carrying the raw error message.
func (h *BaseHandler) InternalError(c *gin.Context, err error) {
	logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, err.Error())
}

// PlainText sends a plain text body. Used for the page routes, whose
// clients are browsers rather than API callers.
func (h *BaseHandler) PlainText(c *gin.Context, statusCode int, body string) {
	c.Data(statusCode, contentTypeText, []byte(body))
}

// HandleError maps domain errors to their HTTP status and message and
// everything else to a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
		}
		h.Error(c, status, domainErr.Message)
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, "Request body exceeds maximum allowed size")
		return
	}

	h.InternalError(c, err)
}
