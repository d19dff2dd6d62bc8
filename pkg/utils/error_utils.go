package utils

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the uniform response body: {status, data?, message?, count?}.
type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Code    string      `json:"code,omitempty"` // Application-specific error code
}

// APIError is a transport-level error with its HTTP status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Message: message}
}

// Common Error Codes
const (
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

// RespondWithError sends the error envelope and aborts the handler chain.
func RespondWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.StatusCode, Envelope{Status: StatusError, Message: err.Message, Code: err.Code})
}

// RespondValidationFailed is a shortcut for 400 validation failures.
func RespondValidationFailed(c *gin.Context, message string) {
	RespondWithError(c, NewAPIError(http.StatusBadRequest, ErrCodeValidationFailed, message))
}

// RespondOK sends a success envelope with data.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Data: data})
}

// RespondMessage sends a success envelope with a message and optional data.
func RespondMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// RespondList sends a success envelope carrying a count.
func RespondList(c *gin.Context, data interface{}, count int) {
	c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Data: data, Count: &count})
}

// Validation functions

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// IsValidEmail checks if a string is a valid email format.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// IsValidPasswordLength checks if password meets minimum length requirement.
func IsValidPasswordLength(password string, minLength int) bool {
	return len(password) >= minLength
}
