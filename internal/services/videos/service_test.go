package videos

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videodiary/diary-api/internal/models"
	"github.com/videodiary/diary-api/internal/services/artifacts"
	"github.com/videodiary/diary-api/internal/services/cache"
	"github.com/videodiary/diary-api/internal/services/segments"
	apperrors "github.com/videodiary/diary-api/pkg/errors"
)

type fakeCatalog struct {
	mu      sync.Mutex
	entries map[uint]*models.VideoEntry
	nextID  uint

	insertErr error
	inserted  int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{entries: make(map[uint]*models.VideoEntry), nextID: 1}
}

func (f *fakeCatalog) Insert(ctx context.Context, videoURI, thumbnailURI, name, description string) (*models.VideoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	entry := &models.VideoEntry{
		ID:           f.nextID,
		VideoURI:     videoURI,
		ThumbnailURI: thumbnailURI,
		Name:         name,
		Description:  description,
		CreatedAt:    time.Now().UnixMilli(),
	}
	f.entries[f.nextID] = entry
	f.nextID++
	f.inserted++
	return entry, nil
}

func (f *fakeCatalog) GetAll(ctx context.Context, searchQuery, sortOrder string) ([]*models.VideoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.VideoEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id uint) (*models.VideoEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[id], nil
}

func (f *fakeCatalog) Update(ctx context.Context, id uint, name, description string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return false, nil
	}
	e.Name = name
	e.Description = description
	return true, nil
}

func (f *fakeCatalog) Remove(ctx context.Context, id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return false, nil
	}
	delete(f.entries, id)
	return true, nil
}

type fakeProcessor struct {
	mu      sync.Mutex
	calls   int
	err     error
	block   chan struct{} // when set, Process waits until closed
	started chan struct{} // signalled once per call when blocking
}

func (f *fakeProcessor) Process(ctx context.Context, sourcePath string, start, end time.Duration) (*segments.Result, error) {
	f.mu.Lock()
	f.calls++
	block, started := f.block, f.started
	f.mu.Unlock()
	if block != nil {
		started <- struct{}{}
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &segments.Result{
		VideoPath:     "/scratch/trim_1.mp4",
		ThumbnailPath: "/scratch/thumb_1.jpg",
	}, nil
}

type fakeStore struct {
	mu       sync.Mutex
	persists int
	releases [][2]string
	err      error
}

func (f *fakeStore) Persist(ctx context.Context, videoPath, thumbnailPath string) (*artifacts.PersistedArtifacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.persists++
	return &artifacts.PersistedArtifacts{
		VideoURI:     fmt.Sprintf("/media/video_%d.mp4", f.persists),
		ThumbnailURI: fmt.Sprintf("/media/thumb_%d.jpg", f.persists),
	}, nil
}

func (f *fakeStore) Release(ctx context.Context, videoURI, thumbnailURI string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases = append(f.releases, [2]string{videoURI, thumbnailURI})
}

type fixture struct {
	catalog   *fakeCatalog
	processor *fakeProcessor
	store     *fakeStore
	cache     *cache.MemoryCache
	service   Service
}

func newFixture(policy RangePolicy) *fixture {
	f := &fixture{
		catalog:   newFakeCatalog(),
		processor: &fakeProcessor{},
		store:     &fakeStore{},
		cache:     cache.New(time.Minute),
	}
	f.service = New(f.catalog, f.processor, f.store, f.cache, policy, time.Minute)
	return f
}

func fixedPolicy() RangePolicy {
	return RangePolicy{Min: time.Second, Max: 5 * time.Second, Fixed: 5 * time.Second}
}

func boundedPolicy() RangePolicy {
	return RangePolicy{Min: time.Second, Max: 5 * time.Second}
}

func validAdd() AddRequest {
	return AddRequest{
		SourcePath:  "/tmp/source.mp4",
		Start:       2 * time.Second,
		End:         7 * time.Second,
		Name:        "My clip",
		Description: "a moment",
	}
}

func TestAddHappyPath(t *testing.T) {
	f := newFixture(fixedPolicy())

	entry, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "My clip", entry.Name)
	assert.Equal(t, "/media/video_1.mp4", entry.VideoURI)
	assert.Equal(t, "/media/thumb_1.jpg", entry.ThumbnailURI)
	assert.Equal(t, 1, f.processor.calls)
	assert.Equal(t, 1, f.store.persists)
	assert.Equal(t, 1, f.catalog.inserted)
}

func TestAddRejectsInvalidMetadata(t *testing.T) {
	f := newFixture(fixedPolicy())

	req := validAdd()
	req.Name = "   "
	_, err := f.service.Add(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
	assert.Zero(t, f.processor.calls)
}

func TestAddFixedPolicyTolerance(t *testing.T) {
	f := newFixture(fixedPolicy())

	cases := []struct {
		name  string
		start time.Duration
		end   time.Duration
		valid bool
	}{
		{"exact", 0, 5 * time.Second, true},
		{"within tolerance short", 0, 4920 * time.Millisecond, true},
		{"within tolerance long", 0, 5080 * time.Millisecond, true},
		{"too short", 0, 4 * time.Second, false},
		{"too long", 0, 6 * time.Second, false},
		{"inverted", 5 * time.Second, 2 * time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validAdd()
			req.Start, req.End = tc.start, tc.end
			_, err := f.service.Add(context.Background(), req)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
			}
		})
	}
}

func TestAddBoundedPolicy(t *testing.T) {
	f := newFixture(boundedPolicy())

	req := validAdd()
	req.Start, req.End = 0, 3*time.Second
	_, err := f.service.Add(context.Background(), req)
	assert.NoError(t, err)

	req.Start, req.End = 0, 500*time.Millisecond
	_, err = f.service.Add(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))

	req.Start, req.End = 0, 6*time.Second
	_, err = f.service.Add(context.Background(), req)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestAddProcessFailureLeavesNoEntry(t *testing.T) {
	f := newFixture(fixedPolicy())
	f.processor.err = apperrors.New(apperrors.ErrCodeTrimFailed, "extraction failed")

	_, err := f.service.Add(context.Background(), validAdd())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeTrimFailed))
	assert.Zero(t, f.store.persists)
	assert.Zero(t, f.catalog.inserted)
}

func TestAddPersistFailureLeavesNoEntry(t *testing.T) {
	f := newFixture(fixedPolicy())
	f.store.err = apperrors.New(apperrors.ErrCodePersistFailed, "disk full")

	_, err := f.service.Add(context.Background(), validAdd())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodePersistFailed))
	assert.Zero(t, f.catalog.inserted)
}

func TestAddInsertFailureSurfacesError(t *testing.T) {
	f := newFixture(fixedPolicy())
	f.catalog.insertErr = apperrors.CatalogError("insert", fmt.Errorf("locked"))

	_, err := f.service.Add(context.Background(), validAdd())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeCatalog))
	// Persisted files are kept for recovery, never released
	assert.Empty(t, f.store.releases)
}

func TestAddConcurrentReturnsBusy(t *testing.T) {
	f := newFixture(fixedPolicy())
	f.processor.block = make(chan struct{})
	f.processor.started = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := f.service.Add(context.Background(), validAdd())
		done <- err
	}()
	<-f.processor.started

	_, err := f.service.Add(context.Background(), validAdd())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeBusy))

	close(f.processor.block)
	require.NoError(t, <-done)

	// Sequential calls work again once the first completes
	f.processor.block = nil
	_, err = f.service.Add(context.Background(), validAdd())
	assert.NoError(t, err)
}

func TestAddSurvivesCallerCancellation(t *testing.T) {
	f := newFixture(fixedPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entry, err := f.service.Add(ctx, validAdd())
	require.NoError(t, err)
	assert.NotNil(t, entry)
}

func TestAddInvalidatesListCache(t *testing.T) {
	f := newFixture(fixedPolicy())
	f.cache.Set(cache.ListKey("", "desc"), "stale")

	_, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)

	_, ok := f.cache.Get(cache.ListKey("", "desc"))
	assert.False(t, ok)
}

func TestUpdate(t *testing.T) {
	f := newFixture(fixedPolicy())
	created, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)

	f.cache.Set(cache.ListKey("", "desc"), "stale")
	f.cache.Set(cache.EntryKey(created.ID), "stale")

	updated, err := f.service.Update(context.Background(), created.ID, "Renamed", "new desc")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new desc", updated.Description)
	assert.Equal(t, created.VideoURI, updated.VideoURI)

	_, ok := f.cache.Get(cache.ListKey("", "desc"))
	assert.False(t, ok)
	_, ok = f.cache.Get(cache.EntryKey(created.ID))
	assert.False(t, ok)
}

func TestUpdateMissingEntry(t *testing.T) {
	f := newFixture(fixedPolicy())

	_, err := f.service.Update(context.Background(), 404, "name", "desc")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
}

func TestUpdateRejectsInvalidMetadata(t *testing.T) {
	f := newFixture(fixedPolicy())
	created, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), created.ID, "", "desc")
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestDelete(t *testing.T) {
	f := newFixture(fixedPolicy())
	created, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), created.ID)
	require.NoError(t, err)

	require.Len(t, f.store.releases, 1)
	assert.Equal(t, created.VideoURI, f.store.releases[0][0])
	assert.Equal(t, created.ThumbnailURI, f.store.releases[0][1])

	entry, err := f.catalog.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestDeleteMissingEntry(t *testing.T) {
	f := newFixture(fixedPolicy())

	err := f.service.Delete(context.Background(), 404)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.Empty(t, f.store.releases)
}

func TestDeleteInvalidatesCaches(t *testing.T) {
	f := newFixture(fixedPolicy())
	created, err := f.service.Add(context.Background(), validAdd())
	require.NoError(t, err)

	f.cache.Set(cache.ListKey("", "desc"), "stale")
	f.cache.Set(cache.EntryKey(created.ID), "stale")

	require.NoError(t, f.service.Delete(context.Background(), created.ID))

	_, ok := f.cache.Get(cache.ListKey("", "desc"))
	assert.False(t, ok)
	_, ok = f.cache.Get(cache.EntryKey(created.ID))
	assert.False(t, ok)
}
