package sources

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videodiary/diary-api/api/types"
)

// ValidateSourceRequest represents the request to check a picked file
// @Description Request body for validating a candidate source video
type ValidateSourceRequest struct {
	SourcePath string `json:"source_path" binding:"required" example:"/tmp/picked/upload.mp4" description:"Path to the candidate source video"`
}

// ValidateSourceResponse reports whether a source can be trimmed
// @Description Result of probing a candidate source video
type ValidateSourceResponse struct {
	Valid          bool  `json:"valid"`
	DurationMillis int64 `json:"duration_millis"`
	MinimumMillis  int64 `json:"minimum_millis"`
}

// Validate probes a candidate source video
// @Summary Check whether a source video is long enough to trim
// @Description Probe the file's duration and compare it against the configured minimum. Sources
// @Description shorter than the minimum cannot yield a valid clip and are rejected before any
// @Description trimming is attempted.
// @Tags sources
// @Accept json
// @Produce json
// @Param request body ValidateSourceRequest true "Path to the candidate source"
// @Success 200 {object} ValidateSourceResponse "Probe result"
// @Failure 400 {object} types.ErrorResponse "Missing path or unreadable file"
// @Failure 422 {object} types.ErrorResponse "Probe failed"
// @Router /api/v1/sources/validate [post]
func Validate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateSourceRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		duration, err := deps.Processor.Probe(c.Request.Context(), req.SourcePath)
		if err != nil {
			types.SendError(c, err)
			return
		}

		minimum := deps.Config.Trim.MinSourceDuration

		c.JSON(http.StatusOK, ValidateSourceResponse{
			Valid:          duration >= minimum,
			DurationMillis: duration.Milliseconds(),
			MinimumMillis:  minimum.Milliseconds(),
		})
	}
}
