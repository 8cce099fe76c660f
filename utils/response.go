package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stable error codes surfaced to clients. Messages may be reworded; codes
// are part of the API contract.
const (
	CodeMissingTimezone     = "MISSING_TIMEZONE"
	CodeInvalidTimezone     = "INVALID_TIMEZONE"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeBucketNotFound      = "BUCKET_NOT_FOUND"
	CodeNegativeCount       = "NEGATIVE_COUNT"
	CodeTransientStoreError = "TRANSIENT_STORE_ERROR"
	CodeUnauthorizedAccess  = "UNAUTHORIZED_ACCESS"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeConflict            = "CONFLICT"
	CodeInternalError       = "INTERNAL_ERROR"
)

type Response struct {
	Status  int         `json:"-"`                 // HTTP status code
	Code    string      `json:"code,omitempty"`    // Stable machine-readable error code
	Message string      `json:"message,omitempty"` // Optional message
	Error   string      `json:"error,omitempty"`   // Human-readable error text
	Data    interface{} `json:"data,omitempty"`    // Response data
}

// Success responses

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Status:  http.StatusCreated,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// Error responses

func BadRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, &Response{
		Status: http.StatusBadRequest,
		Code:   code,
		Error:  message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, &Response{
		Status: http.StatusUnauthorized,
		Code:   CodeUnauthorizedAccess,
		Error:  message,
	})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, &Response{
		Status: http.StatusForbidden,
		Code:   CodeUnauthorizedAccess,
		Error:  message,
	})
}

func NotFound(c *gin.Context, code, message string) {
	c.JSON(http.StatusNotFound, &Response{
		Status: http.StatusNotFound,
		Code:   code,
		Error:  message,
	})
}

func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, &Response{
		Status: http.StatusConflict,
		Code:   CodeConflict,
		Error:  message,
	})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{
		Status: http.StatusInternalServerError,
		Code:   CodeInternalError,
		Error:  message,
	})
}

// StoreUnavailable reports a transient storage fault. Callers may retry.
func StoreUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, &Response{
		Status: http.StatusServiceUnavailable,
		Code:   CodeTransientStoreError,
		Error:  "storage temporarily unavailable, retry later",
	})
}
