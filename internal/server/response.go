package server

import (
	"errors"
	"net/http"

	"github.com/chris-regnier/moodjournal/internal/auth"
	"github.com/chris-regnier/moodjournal/internal/mood"
	"github.com/chris-regnier/moodjournal/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError is the error half of the response envelope.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the envelope every endpoint replies with.
type APIResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *APIError      `json:"error,omitempty"`
}

// Success wraps data in the envelope.
func Success(data any, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

// Failure wraps an error message in the envelope.
func Failure(status int, msg string) APIResponse {
	return APIResponse{Error: &APIError{Code: status, Message: msg}}
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, storage.ErrValidation), errors.Is(err, auth.ErrInvalidInput), errors.Is(err, mood.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, mood.ErrUpstream), errors.Is(err, mood.ErrMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func handleError(c *gin.Context, logger *zap.Logger, err error, msg string) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("request_id", c.GetString(requestIDKey)),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Info(msg, fields...)
	}
	c.AbortWithStatusJSON(status, Failure(status, msg+": "+err.Error()))
}

func badRequest(c *gin.Context, logger *zap.Logger, err error, msg string) {
	logger.Info(msg, zap.String("request_id", c.GetString(requestIDKey)), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, Failure(http.StatusBadRequest, msg+": "+err.Error()))
}

func handleSuccess(c *gin.Context, status int, data any, meta map[string]any) {
	c.JSON(status, Success(data, meta))
}
