package utils

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateDashlessUUID creates a new UUID v4 and returns its string representation
// with all dashes removed. Used for staged upload temp files and request IDs.
func GenerateDashlessUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")
}

// APIError is a standard structure for returning errors as JSON.
type APIError struct {
	Error string `json:"error"`
}

// GinError sends a JSON error response with a specific status code.
// It logs the error server-side as well.
func GinError(c *gin.Context, statusCode int, message string) {
	log.Printf("ERROR: Request %s %s - Status %d - %s", c.Request.Method, c.Request.URL.Path, statusCode, message)
	c.AbortWithStatusJSON(statusCode, APIError{Error: message})
}

// GinBadRequest sends a 400 Bad Request error response.
func GinBadRequest(c *gin.Context, message string) {
	GinError(c, http.StatusBadRequest, message)
}

// GinForbidden sends a 403 Forbidden error response.
func GinForbidden(c *gin.Context, message string) {
	GinError(c, http.StatusForbidden, message)
}

// GinNotFound sends a 404 Not Found error response.
func GinNotFound(c *gin.Context, message string) {
	GinError(c, http.StatusNotFound, message)
}

// GinLengthRequired sends a 411 Length Required error response.
// Used when an upload request carries no usable Content-Length header.
func GinLengthRequired(c *gin.Context, message string) {
	GinError(c, http.StatusLengthRequired, message)
}

// GinPayloadTooLarge sends a 413 Request Entity Too Large error response.
func GinPayloadTooLarge(c *gin.Context, message string) {
	GinError(c, http.StatusRequestEntityTooLarge, message)
}

// GinInsufficientStorage sends a 507 Insufficient Storage error response.
func GinInsufficientStorage(c *gin.Context, message string) {
	GinError(c, http.StatusInsufficientStorage, message)
}

// GinInternalServerError sends a 500 Internal Server Error response.
func GinInternalServerError(c *gin.Context, message string) {
	GinError(c, http.StatusInternalServerError, message)
}
