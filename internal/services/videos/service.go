package videos

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/videodiary/diary-api/internal/models"
	"github.com/videodiary/diary-api/internal/services/artifacts"
	"github.com/videodiary/diary-api/internal/services/cache"
	"github.com/videodiary/diary-api/internal/services/catalog"
	"github.com/videodiary/diary-api/internal/services/segments"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

// toleranceMillis is how far a submitted range may deviate from the
// fixed duration before it is rejected. Selector output lands exactly
// on the fixed length; the tolerance only absorbs rounding from
// clients that recompute the range in floating point.
const toleranceMillis = 100

// Processor is the slice of the segment processor the coordinator
// needs. Narrowed for test fakes.
type Processor interface {
	Process(ctx context.Context, sourcePath string, start, end time.Duration) (*segments.Result, error)
}

// AddRequest carries everything needed to create one diary entry
type AddRequest struct {
	SourcePath  string
	Start       time.Duration
	End         time.Duration
	Name        string
	Description string
}

// RangePolicy is the duration rule applied to submitted trim ranges.
// Fixed of zero selects the bounded policy.
type RangePolicy struct {
	Min   time.Duration
	Max   time.Duration
	Fixed time.Duration
}

// Service coordinates the multi-step mutations of the video diary.
// Each mutation kind admits one operation at a time; a second caller
// gets a busy error instead of queueing.
type Service interface {
	Add(ctx context.Context, req AddRequest) (*models.VideoEntry, error)
	Update(ctx context.Context, id uint, name, description string) (*models.VideoEntry, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	catalog   catalog.Service
	processor Processor
	store     artifacts.Store
	cache     *cache.MemoryCache
	policy    RangePolicy
	timeout   time.Duration

	addMu    sync.Mutex
	updateMu sync.Mutex
	deleteMu sync.Mutex
}

// New creates the mutation coordinator
func New(cat catalog.Service, proc Processor, store artifacts.Store, queryCache *cache.MemoryCache, policy RangePolicy, processingTimeout time.Duration) Service {
	return &service{
		catalog:   cat,
		processor: proc,
		store:     store,
		cache:     queryCache,
		policy:    policy,
		timeout:   processingTimeout,
	}
}

// Add runs the full pipeline: validate, trim, persist, insert. Once
// started it runs to completion regardless of the caller's context;
// abandoning a request mid-pipeline must not strand a half-created
// entry.
func (s *service) Add(ctx context.Context, req AddRequest) (*models.VideoEntry, error) {
	if !s.addMu.TryLock() {
		return nil, apperrors.Busy("add")
	}
	defer s.addMu.Unlock()

	if err := models.ValidateMetadata(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.policy.validateRange(req.Start, req.End); err != nil {
		return nil, err
	}

	// Detach from the caller: processing continues even if the client
	// disconnects, bounded by the processing timeout instead.
	workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	log.Printf("[INFO] Processing trim for %q: %v-%v", req.Name, req.Start, req.End)
	result, err := s.processor.Process(workCtx, req.SourcePath, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Persisting artifacts for %q", req.Name)
	persisted, err := s.store.Persist(workCtx, result.VideoPath, result.ThumbnailPath)
	if err != nil {
		return nil, err
	}

	entry, err := s.catalog.Insert(workCtx, persisted.VideoURI, persisted.ThumbnailURI, req.Name, req.Description)
	if err != nil {
		// Files are durable but unreferenced; they stay on disk for
		// manual recovery rather than being deleted alongside the row
		// that never existed.
		log.Printf("[WARN] Insert failed after persist; orphaned files %s, %s: %v",
			persisted.VideoURI, persisted.ThumbnailURI, err)
		return nil, err
	}

	s.cache.DeletePrefix(cache.ListPrefix)
	log.Printf("[INFO] Created video entry %d (%q)", entry.ID, entry.Name)
	return entry, nil
}

// Update changes an entry's name and description
func (s *service) Update(ctx context.Context, id uint, name, description string) (*models.VideoEntry, error) {
	if !s.updateMu.TryLock() {
		return nil, apperrors.Busy("update")
	}
	defer s.updateMu.Unlock()

	if err := models.ValidateMetadata(name, description); err != nil {
		return nil, err
	}

	ok, err := s.catalog.Update(ctx, id, name, description)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NotFound("video", id)
	}

	s.cache.DeletePrefix(cache.ListPrefix)
	s.cache.Delete(cache.EntryKey(id))

	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperrors.NotFound("video", id)
	}
	return entry, nil
}

// Delete releases both files and removes the catalog row. Release
// never fails, so a missing file cannot block the row delete.
func (s *service) Delete(ctx context.Context, id uint) error {
	if !s.deleteMu.TryLock() {
		return apperrors.Busy("delete")
	}
	defer s.deleteMu.Unlock()

	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if entry == nil {
		return apperrors.NotFound("video", id)
	}

	s.store.Release(ctx, entry.VideoURI, entry.ThumbnailURI)

	ok, err := s.catalog.Remove(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("video", id)
	}

	s.cache.DeletePrefix(cache.ListPrefix)
	s.cache.Delete(cache.EntryKey(id))
	log.Printf("[INFO] Deleted video entry %d", id)
	return nil
}

// validateRange enforces the configured duration policy
func (p RangePolicy) validateRange(start, end time.Duration) error {
	if start < 0 || end <= start {
		return apperrors.ValidationError("range", "end must be after start")
	}
	dur := end - start
	if p.Fixed > 0 {
		diff := dur - p.Fixed
		if diff < 0 {
			diff = -diff
		}
		if diff > toleranceMillis*time.Millisecond {
			return apperrors.ValidationError("range",
				"selected duration must match the required clip length")
		}
		return nil
	}
	if dur < p.Min || dur > p.Max {
		return apperrors.ValidationError("range", "selected duration is outside the allowed bounds")
	}
	return nil
}
