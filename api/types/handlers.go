package types

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/killallgit/corpus-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// Messages for malformed delete requests
const (
	MessageNoIDs         = "no record ids provided"
	MessageInvalidIDList = "invalid id format: ids must be a list of record ids"
)

// BindIDs reads the "ids" list of a delete request body.
// Returns false and sends a 400 response if the list is absent or malformed.
func BindIDs(c *gin.Context) ([]uint, bool) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		SendBadRequest(c, MessageNoIDs)
		return nil, false
	}

	raw, ok := body["ids"]
	if !ok || string(raw) == "null" {
		SendBadRequest(c, MessageNoIDs)
		return nil, false
	}

	ids := []uint{}
	if err := json.Unmarshal(raw, &ids); err != nil {
		SendBadRequest(c, MessageInvalidIDList)
		return nil, false
	}
	return ids, true
}

// SendError maps an application error to its status code and sends {error}
func SendError(c *gin.Context, err error) {
	code := apperrors.GetHTTPCode(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(code, ErrorResponse{Error: apperrors.Message(err)})
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: message})
}

// SendInternalError sends a standardized internal server error response
func SendInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
