package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lemartins07/english-assessment-service/internal/errors"
	"github.com/lemartins07/english-assessment-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs an incoming HTTP request with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
	}
	fields = append(fields, additionalFields...)
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)
	h.logger.LogError(err, message, fields...)
}

// statusForKind maps the error classification vocabulary onto HTTP
// status codes.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindBadRequest:
		return http.StatusBadRequest
	case apperrors.KindIncomplete:
		return http.StatusUnprocessableEntity
	case apperrors.KindTooManyRequests:
		return http.StatusTooManyRequests
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	case apperrors.KindDependencyFailure, apperrors.KindUpstreamError, apperrors.KindInvalidResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError translates a service error into the HTTP response
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors apperrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	var appErr *apperrors.Error
	message := "Internal server error"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status >= 500 {
		h.LogError(c, err, "Service error", "kind", kind, "status_code", status)
	}

	c.JSON(status, ErrorResponse{
		Message: message,
		Code:    string(kind),
	})
}

// ParseStringIDParam extracts a non-empty path parameter, responding
// with 400 itself when the parameter is blank.
func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := strings.TrimSpace(c.Param(param))
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}
