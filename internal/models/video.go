package models

import (
	"strings"

	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// Field limits for video diary entries
const (
	NameMaxLength        = 100
	DescriptionMaxLength = 500
)

// VideoEntry represents one persisted video diary entry. The two URI
// fields and CreatedAt are immutable after insert; only Name and
// Description change on update.
type VideoEntry struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	VideoURI     string `json:"video_uri" gorm:"not null;size:500;column:video_uri"`
	ThumbnailURI string `json:"thumbnail_uri" gorm:"not null;size:500;column:thumbnail_uri"`
	Name         string `json:"name" gorm:"not null;size:100;index"`
	Description  string `json:"description" gorm:"size:500"`

	// Milliseconds since epoch, set once at insert. Default sort key.
	CreatedAt int64 `json:"created_at" gorm:"not null;index;column:created_at"`
}

// TableName returns the table name for the VideoEntry model
func (VideoEntry) TableName() string {
	return "videos"
}

// ValidateMetadata checks the mutable metadata fields against the
// field limits. Name is required; description is optional.
func ValidateMetadata(name, description string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationError("name", "is required")
	}
	if len(name) > NameMaxLength {
		return apperrors.ValidationError("name", "must be at most 100 characters")
	}
	if len(description) > DescriptionMaxLength {
		return apperrors.ValidationError("description", "must be at most 500 characters")
	}
	return nil
}
