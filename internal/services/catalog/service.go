package catalog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/videodiary/diary-api/internal/database"
	"github.com/videodiary/diary-api/internal/models"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// Sort orders for listing entries
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Service defines the query and row-lifecycle surface of the video
// catalog. The catalog is the sole owner of VideoEntry rows.
type Service interface {
	// Insert appends a new entry stamped with the current time and
	// returns the stored row with its assigned id.
	Insert(ctx context.Context, videoURI, thumbnailURI, name, description string) (*models.VideoEntry, error)

	// GetAll returns entries whose name contains searchQuery
	// (case-insensitive; empty matches all), ordered by creation time.
	GetAll(ctx context.Context, searchQuery, sortOrder string) ([]*models.VideoEntry, error)

	// GetByID returns the entry or nil when it does not exist.
	GetByID(ctx context.Context, id uint) (*models.VideoEntry, error)

	// Update changes name and description only, reporting whether a
	// row was affected.
	Update(ctx context.Context, id uint, name, description string) (bool, error)

	// Remove deletes the row, reporting whether a row was affected.
	Remove(ctx context.Context, id uint) (bool, error)
}

// GormCatalog implements Service on a gorm database handle. The handle
// is injected explicitly; there is no package-level singleton.
type GormCatalog struct {
	db *database.DB
}

// New creates a catalog over an initialized database
func New(db *database.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// ready guards every operation against use before initialization
func (c *GormCatalog) ready() error {
	if c == nil || !c.db.Ready() {
		return apperrors.NotInitialized("video catalog")
	}
	return nil
}

// Insert appends a new entry with createdAt set to now
func (c *GormCatalog) Insert(ctx context.Context, videoURI, thumbnailURI, name, description string) (*models.VideoEntry, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	entry := &models.VideoEntry{
		VideoURI:     videoURI,
		ThumbnailURI: thumbnailURI,
		Name:         name,
		Description:  description,
		CreatedAt:    time.Now().UnixMilli(),
	}

	if err := c.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, apperrors.CatalogError("insert", err)
	}

	return entry, nil
}

// GetAll lists entries matching the search query in the given order
func (c *GormCatalog) GetAll(ctx context.Context, searchQuery, sortOrder string) ([]*models.VideoEntry, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	query := c.db.WithContext(ctx).Model(&models.VideoEntry{})

	if searchQuery != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(searchQuery)+"%")
	}

	// Secondary id ordering keeps results stable when two inserts
	// share a millisecond timestamp
	if normalizeSort(sortOrder) == SortAsc {
		query = query.Order("created_at ASC, id ASC")
	} else {
		query = query.Order("created_at DESC, id DESC")
	}

	var entries []*models.VideoEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, apperrors.CatalogError("list", err)
	}

	return entries, nil
}

// GetByID returns a single entry, nil when absent
func (c *GormCatalog) GetByID(ctx context.Context, id uint) (*models.VideoEntry, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var entry models.VideoEntry
	if err := c.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, apperrors.CatalogError("get", err)
	}

	return &entry, nil
}

// Update changes the mutable metadata fields only. File URIs and the
// creation timestamp never change after insert.
func (c *GormCatalog) Update(ctx context.Context, id uint, name, description string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}

	result := c.db.WithContext(ctx).Model(&models.VideoEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		})
	if result.Error != nil {
		return false, apperrors.CatalogError("update", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// Remove deletes a row by id
func (c *GormCatalog) Remove(ctx context.Context, id uint) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}

	result := c.db.WithContext(ctx).Delete(&models.VideoEntry{}, id)
	if result.Error != nil {
		return false, apperrors.CatalogError("delete", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func normalizeSort(sortOrder string) string {
	if strings.EqualFold(sortOrder, SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// Ensure GormCatalog implements Service
var _ Service = (*GormCatalog)(nil)
