package types

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videodiary/diary-api/internal/models"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// VideoResponse is a catalog entry in API responses
type VideoResponse struct {
	ID           uint   `json:"id"`
	VideoURI     string `json:"videoUri"`
	ThumbnailURI string `json:"thumbnailUri"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	CreatedAt    int64  `json:"createdAt"` // Milliseconds since epoch
}

// VideoListResponse for list queries
type VideoListResponse struct {
	Videos []VideoResponse `json:"videos"`
	Count  int             `json:"count"`
}

// ToVideoResponse converts a catalog entry to its API shape
func ToVideoResponse(entry *models.VideoEntry) VideoResponse {
	return VideoResponse{
		ID:           entry.ID,
		VideoURI:     entry.VideoURI,
		ThumbnailURI: entry.ThumbnailURI,
		Name:         entry.Name,
		Description:  entry.Description,
		CreatedAt:    entry.CreatedAt,
	}
}

// ToVideoListResponse converts a list of entries
func ToVideoListResponse(entries []*models.VideoEntry) VideoListResponse {
	out := make([]VideoResponse, len(entries))
	for i, e := range entries {
		out[i] = ToVideoResponse(e)
	}
	return VideoListResponse{Videos: out, Count: len(out)}
}

// SendError maps a service error to its HTTP status and body
func SendError(c *gin.Context, err error) {
	status := apperrors.GetHTTPCode(err)
	resp := ErrorResponse{Error: err.Error(), Code: string(apperrors.GetCode(err))}
	if appErr, ok := err.(*apperrors.AppError); ok {
		resp.Error = appErr.Message
		resp.Details = appErr.Details
	}
	c.JSON(status, resp)
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

// ParseUintParam extracts and parses a URL parameter as uint.
// Sends a bad request response and returns false when it is malformed.
func ParseUintParam(c *gin.Context, paramName string) (uint, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.ParseUint(paramStr, 10, 32)
	if err != nil {
		SendBadRequest(c, "Invalid "+paramName)
		return 0, false
	}
	return uint(value), true
}

// BindJSONOrError binds the JSON request body to target.
// Sends a bad request response and returns false when binding fails.
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Details: map[string]interface{}{"reason": err.Error()},
		})
		return false
	}
	return true
}
