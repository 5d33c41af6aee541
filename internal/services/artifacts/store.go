package artifacts

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// PersistedArtifacts holds the durable locations of one entry's files
type PersistedArtifacts struct {
	VideoURI     string
	ThumbnailURI string
}

// Store manages the durable file lifecycle for the two artifacts tied
// to one video diary entry.
type Store interface {
	// Persist moves both scratch files into durable storage under
	// fresh collision-free names. Any failure is fatal to the caller's
	// operation; whichever file already moved is cleaned up best-effort.
	Persist(ctx context.Context, videoPath, thumbnailPath string) (*PersistedArtifacts, error)

	// Release deletes both durable files. Idempotent and best-effort:
	// failures are logged, never returned, so a dangling file can
	// never block a catalog deletion.
	Release(ctx context.Context, videoURI, thumbnailURI string)
}

// LocalStore implements Store on the local filesystem
type LocalStore struct {
	mediaDir string
}

// NewLocalStore creates a store rooted at mediaDir, creating it if
// needed.
func NewLocalStore(mediaDir string) (*LocalStore, error) {
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	absPath, err := filepath.Abs(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &LocalStore{mediaDir: absPath}, nil
}

// Persist moves the trimmed video and thumbnail into the media
// directory. Move, not copy: scratch storage may be reclaimed at any
// time, so the durable copy must be the only one.
func (s *LocalStore) Persist(ctx context.Context, videoPath, thumbnailPath string) (*PersistedArtifacts, error) {
	id := uuid.New().String()
	videoURI := filepath.Join(s.mediaDir, fmt.Sprintf("video_%s%s", id, extOr(videoPath, ".mp4")))
	thumbnailURI := filepath.Join(s.mediaDir, fmt.Sprintf("thumb_%s%s", id, extOr(thumbnailPath, ".jpg")))

	if err := moveFile(videoPath, videoURI); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodePersistFailed, "failed to persist trimmed video")
	}

	if err := moveFile(thumbnailPath, thumbnailURI); err != nil {
		// Don't leave a half-persisted pair behind: the caller will
		// abort, so the already-moved video must go too
		if rmErr := os.Remove(videoURI); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Printf("[WARN] Failed to remove video after thumbnail persist failure: %v", rmErr)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodePersistFailed, "failed to persist thumbnail")
	}

	return &PersistedArtifacts{VideoURI: videoURI, ThumbnailURI: thumbnailURI}, nil
}

// Release deletes both durable files, tolerating files that are
// already gone.
func (s *LocalStore) Release(ctx context.Context, videoURI, thumbnailURI string) {
	for _, path := range []string{videoURI, thumbnailURI} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[WARN] Failed to delete artifact %s: %v", path, err)
		}
	}
}

// Exists reports whether a durable artifact is present
func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// moveFile renames src to dst, falling back to copy-and-delete when
// rename fails (e.g. across filesystems).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to move file: %w", err)
	}
	if err := os.Remove(src); err != nil {
		log.Printf("[WARN] Failed to delete original file after copy: %v", err)
	}
	return nil
}

// copyFile copies src to dst and syncs the destination
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return destFile.Sync()
}

// extOr returns the path's extension or a fallback when it has none
func extOr(path, fallback string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return fallback
}

// Ensure LocalStore implements Store
var _ Store = (*LocalStore)(nil)
