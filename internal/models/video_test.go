package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

func TestValidateMetadata(t *testing.T) {
	tests := []struct {
		name        string
		entryName   string
		description string
		wantErr     bool
	}{
		{
			name:        "valid name and description",
			entryName:   "Beach trip",
			description: "First day at the coast",
			wantErr:     false,
		},
		{
			name:        "empty description is allowed",
			entryName:   "Beach trip",
			description: "",
			wantErr:     false,
		},
		{
			name:      "empty name rejected",
			entryName: "",
			wantErr:   true,
		},
		{
			name:      "whitespace-only name rejected",
			entryName: "   ",
			wantErr:   true,
		},
		{
			name:      "name at limit accepted",
			entryName: strings.Repeat("a", NameMaxLength),
			wantErr:   false,
		},
		{
			name:      "name over limit rejected",
			entryName: strings.Repeat("a", NameMaxLength+1),
			wantErr:   true,
		},
		{
			name:        "description at limit accepted",
			entryName:   "ok",
			description: strings.Repeat("d", DescriptionMaxLength),
			wantErr:     false,
		},
		{
			name:        "description over limit rejected",
			entryName:   "ok",
			description: strings.Repeat("d", DescriptionMaxLength+1),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMetadata(tt.entryName, tt.description)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVideoEntryTableName(t *testing.T) {
	assert.Equal(t, "videos", VideoEntry{}.TableName())
}
