// Package handler exposes the synchronization layer over HTTP. Every handler
// embeds BaseHandler and registers its routes through the router's
// RouteRegistrar contract.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oceanerp/backend/internal/application/ordersync"
	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/oceanerp/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	if id := c.GetHeader(RequestIDKey); id != "" {
		return id
	}
	return ""
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// ErrorWithCode sends an error response, deriving status code from error code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// integrationErrorCodes maps integration-layer sentinels to API error codes.
// Platform call failures all surface as 502 so callers can tell "the
// marketplace broke" apart from "you sent a bad request".
var integrationErrorCodes = []struct {
	err  error
	code string
}{
	{integration.ErrOrderNotSynced, dto.ErrCodeOrderNotSynced},
	{integration.ErrProductNotSynced, dto.ErrCodeOrderNotSynced},
	{integration.ErrCapabilityNotSupported, dto.ErrCodeCapabilityNotSupported},
	{integration.ErrStorefrontNotFound, dto.ErrCodeNotFound},
	{integration.ErrStorefrontDisabled, dto.ErrCodeInvalidState},
	{integration.ErrMappingNotFound, dto.ErrCodeNotFound},
	{integration.ErrInvalidPullWindow, dto.ErrCodeInvalidInput},
	{integration.ErrPlatformRateLimited, dto.ErrCodePlatformUnavailable},
	{integration.ErrPlatformUnavailable, dto.ErrCodePlatformUnavailable},
	{integration.ErrPlatformAuthFailed, dto.ErrCodePlatformAuthFailed},
	{integration.ErrPlatformRequestFailed, dto.ErrCodePlatformRequestFailed},
	{integration.ErrPlatformInvalidResponse, dto.ErrCodePlatformRequestFailed},
	{ordersync.ErrSyncInProgress, dto.ErrCodeSyncInProgress},
}

// HandleError converts domain and integration errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	for _, m := range integrationErrorCodes {
		if errors.Is(err, m.err) {
			c.JSON(dto.GetHTTPStatus(m.code), dto.NewErrorResponseWithRequestID(m.code, m.err.Error(), requestID))
			return
		}
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
