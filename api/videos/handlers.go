package videos

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videodiary/diary-api/api/types"
	"github.com/videodiary/diary-api/internal/services/cache"
	videosvc "github.com/videodiary/diary-api/internal/services/videos"
)

// CreateVideoRequest represents the request to create a diary entry
// @Description Request body for trimming a source video into a new diary entry
type CreateVideoRequest struct {
	SourcePath  string  `json:"source_path" binding:"required" example:"/tmp/picked/upload.mp4" description:"Path to the source video"`
	StartMillis int64   `json:"start_millis" binding:"min=0" example:"2000" description:"Trim start in milliseconds (can be 0)"`
	EndMillis   int64   `json:"end_millis" binding:"required,gt=0" example:"7000" description:"Trim end in milliseconds (must be > start_millis)"`
	Name        string  `json:"name" binding:"required,min=1,max=100" example:"Morning walk" description:"Entry name"`
	Description *string `json:"description" example:"first snow of the year" description:"Optional entry description"`
}

// UpdateVideoRequest represents the request to edit entry metadata
// @Description Request body for updating an entry's name and description
type UpdateVideoRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100" example:"Morning walk" description:"New entry name"`
	Description string `json:"description" binding:"max=500" description:"New entry description"`
}

// Create handles diary entry creation
// @Summary Trim a source video into a new diary entry
// @Description Run the full creation pipeline: trim the source to the requested range, generate a
// @Description thumbnail from the trimmed clip, move both files into durable storage, and insert the
// @Description catalog row. The pipeline is synchronous; the response carries the finished entry.
// @Description Only one creation runs at a time; concurrent requests get 409.
// @Tags videos
// @Accept json
// @Produce json
// @Param request body CreateVideoRequest true "Source path, trim range in milliseconds, and metadata"
// @Success 201 {object} types.VideoResponse "Entry created"
// @Failure 400 {object} types.ErrorResponse "Invalid metadata or trim range"
// @Failure 409 {object} types.ErrorResponse "Another creation is already in flight"
// @Failure 422 {object} types.ErrorResponse "Trim, thumbnail, or persistence failed"
// @Router /api/v1/videos [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateVideoRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		description := ""
		if req.Description != nil {
			description = *req.Description
		}

		entry, err := deps.VideoService.Add(c.Request.Context(), videosvc.AddRequest{
			SourcePath:  req.SourcePath,
			Start:       time.Duration(req.StartMillis) * time.Millisecond,
			End:         time.Duration(req.EndMillis) * time.Millisecond,
			Name:        req.Name,
			Description: description,
		})
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusCreated, types.ToVideoResponse(entry))
	}
}

// List handles catalog queries
// @Summary List diary entries
// @Description List entries ordered by creation time, optionally filtered by a case-insensitive
// @Description substring match on the name. Results are served from a short-lived cache that every
// @Description mutation invalidates.
// @Tags videos
// @Produce json
// @Param q query string false "Substring to match against entry names"
// @Param sort query string false "Sort by creation time" Enums(asc, desc) default(desc)
// @Success 200 {object} types.VideoListResponse "Matching entries"
// @Failure 500 {object} types.ErrorResponse "Catalog query failed"
// @Router /api/v1/videos [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		sort := c.DefaultQuery("sort", "desc")

		key := cache.ListKey(query, sort)
		if cached, ok := deps.QueryCache.Get(key); ok {
			c.JSON(http.StatusOK, cached)
			return
		}

		entries, err := deps.Catalog.GetAll(c.Request.Context(), query, sort)
		if err != nil {
			types.SendError(c, err)
			return
		}

		response := types.ToVideoListResponse(entries)
		deps.QueryCache.Set(key, response)
		c.JSON(http.StatusOK, response)
	}
}

// Get retrieves a single entry
// @Summary Get a diary entry by id
// @Tags videos
// @Produce json
// @Param id path int true "Entry id"
// @Success 200 {object} types.VideoResponse "Entry details"
// @Failure 400 {object} types.ErrorResponse "Malformed id"
// @Failure 404 {object} types.ErrorResponse "Entry not found"
// @Router /api/v1/videos/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		key := cache.EntryKey(id)
		if cached, found := deps.QueryCache.Get(key); found {
			c.JSON(http.StatusOK, cached)
			return
		}

		entry, err := deps.Catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}
		if entry == nil {
			types.SendNotFound(c, "Video not found")
			return
		}

		response := types.ToVideoResponse(entry)
		deps.QueryCache.Set(key, response)
		c.JSON(http.StatusOK, response)
	}
}

// Update edits entry metadata
// @Summary Update a diary entry's name and description
// @Description Change the mutable metadata of an entry. The trimmed video, its thumbnail, and the
// @Description creation timestamp never change after creation.
// @Tags videos
// @Accept json
// @Produce json
// @Param id path int true "Entry id"
// @Param request body UpdateVideoRequest true "New name and description"
// @Success 200 {object} types.VideoResponse "Updated entry"
// @Failure 400 {object} types.ErrorResponse "Malformed id or invalid metadata"
// @Failure 404 {object} types.ErrorResponse "Entry not found"
// @Failure 409 {object} types.ErrorResponse "Another update is already in flight"
// @Router /api/v1/videos/{id} [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		var req UpdateVideoRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		entry, err := deps.VideoService.Update(c.Request.Context(), id, req.Name, req.Description)
		if err != nil {
			types.SendError(c, err)
			return
		}

		c.JSON(http.StatusOK, types.ToVideoResponse(entry))
	}
}

// Delete removes an entry
// @Summary Delete a diary entry and its files
// @Description Remove the catalog row and delete the trimmed video and thumbnail from storage.
// @Description File deletion is best-effort; a missing file never blocks the removal.
// @Tags videos
// @Param id path int true "Entry id"
// @Success 204 "Entry deleted (no content returned)"
// @Failure 400 {object} types.ErrorResponse "Malformed id"
// @Failure 404 {object} types.ErrorResponse "Entry not found"
// @Failure 409 {object} types.ErrorResponse "Another delete is already in flight"
// @Router /api/v1/videos/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return
		}

		if err := deps.VideoService.Delete(c.Request.Context(), id); err != nil {
			types.SendError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
