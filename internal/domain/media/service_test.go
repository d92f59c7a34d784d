package media_test

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-studio/internal/config"
	"media-studio/internal/domain/media"
	"media-studio/internal/domain/transform"
	"media-studio/internal/utils/platformerrors"
)

var fixedNow = time.Date(2025, 3, 25, 12, 0, 0, 0, time.UTC)

// memoryRepository is an in-process Repository with the same predicate
// semantics as the SQL one.
type memoryRepository struct {
	mu      sync.Mutex
	rows    map[string]*media.MediaRecord
	failIDs map[string]bool
}

func newMemoryRepository(rows ...*media.MediaRecord) *memoryRepository {
	repo := &memoryRepository{rows: map[string]*media.MediaRecord{}, failIDs: map[string]bool{}}
	for _, row := range rows {
		clone := *row
		repo.rows[row.ID] = &clone
	}
	return repo
}

func (r *memoryRepository) status(id string) media.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Status
}

func (r *memoryRepository) ListActiveByOwner(_ context.Context, ownerID int) ([]*media.MediaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*media.MediaRecord
	for _, row := range r.rows {
		if row.OwnerID == ownerID && row.Status == media.StatusActive {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepository) FindActive(_ context.Context, id string, ownerID int) (*media.MediaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID || row.Status != media.StatusActive {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*media.MediaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	clone := *row
	return &clone, nil
}

func (r *memoryRepository) Create(_ context.Context, record *media.MediaRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failIDs[record.ID] {
		return errors.New("insert failed")
	}
	clone := *record
	r.rows[record.ID] = &clone
	return nil
}

func (r *memoryRepository) MarkDeleted(_ context.Context, id string, ownerID int, from media.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID || row.Status != from {
		return false, nil
	}
	row.Status = media.StatusDeleted
	return true, nil
}

func (r *memoryRepository) UpdateDisplay(_ context.Context, id string, ownerID int, params media.UpdateParams) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID || row.Status != media.StatusActive {
		return false, nil
	}
	if params.DisplayName != nil {
		row.DisplayName = *params.DisplayName
	}
	return true, nil
}

func (r *memoryRepository) SetTransformedURL(_ context.Context, id string, ownerID int, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.OwnerID != ownerID || row.Status != media.StatusActive {
		return false, nil
	}
	row.TransformedURL = url
	return true, nil
}

func (r *memoryRepository) ListExpiredTemporary(_ context.Context, before time.Time, limit int) ([]*media.MediaRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*media.MediaRecord
	for _, row := range r.rows {
		if row.Status == media.StatusTemporary && row.CreatedAt.Before(before) {
			clone := *row
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MockAssetStore is a function-field AssetStore.
type MockAssetStore struct {
	mu          sync.Mutex
	calls       map[string]int
	UploadFunc  func(ctx context.Context, input media.UploadInput) (*media.AssetDetails, error)
	DetailsFunc func(ctx context.Context, id string) (*media.AssetDetails, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockAssetStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

func (m *MockAssetStore) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockAssetStore) Upload(ctx context.Context, input media.UploadInput) (*media.AssetDetails, error) {
	m.record("upload")
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, input)
	}
	return &media.AssetDetails{ID: "asset_uploaded", Name: input.Name, URL: "https://ik.example.io/demo/" + input.Name, StoragePath: input.Name, Kind: input.Kind}, nil
}

func (m *MockAssetStore) FetchDetails(ctx context.Context, id string) (*media.AssetDetails, error) {
	m.record("details")
	if m.DetailsFunc != nil {
		return m.DetailsFunc(ctx, id)
	}
	return &media.AssetDetails{ID: id, URL: "https://ik.example.io/demo/" + id + ".png", Kind: media.KindImage, Width: 640, Height: 480}, nil
}

func (m *MockAssetStore) Delete(ctx context.Context, id string) error {
	m.record("delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockRateLimiter admits everything unless AllowFunc says otherwise.
type MockRateLimiter struct {
	mu        sync.Mutex
	keys      []string
	AllowFunc func(ctx context.Context, key string) (bool, error)
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	m.keys = append(m.keys, key)
	m.mu.Unlock()
	if m.AllowFunc != nil {
		return m.AllowFunc(ctx, key)
	}
	return true, nil
}

type recordingObserver struct {
	media.NopObserver
	mu             sync.Mutex
	rateLimited    []string
	remoteFailures []string
	healed         []string
}

func (o *recordingObserver) RateLimited(_ context.Context, key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rateLimited = append(o.rateLimited, key)
}

func (o *recordingObserver) RemoteFailure(_ context.Context, operation, assetID string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.remoteFailures = append(o.remoteFailures, operation+":"+assetID)
}

func (o *recordingObserver) SelfHealed(_ context.Context, assetID string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.healed = append(o.healed, assetID)
}

func testConfig() *config.Config {
	return &config.Config{
		AssetStoreTimeout:  time.Second,
		MaxMediaBytes:      1024,
		ListConcurrency:    4,
		TemporaryRetention: 24 * time.Hour,
		ReclaimBatchSize:   2,
	}
}

type fixture struct {
	service  *media.Service
	repo     *memoryRepository
	store    *MockAssetStore
	limiter  *MockRateLimiter
	observer *recordingObserver
}

func newFixture(rows ...*media.MediaRecord) *fixture {
	f := &fixture{
		repo:     newMemoryRepository(rows...),
		store:    &MockAssetStore{},
		limiter:  &MockRateLimiter{},
		observer: &recordingObserver{},
	}
	locator := transform.NewLocator("https://ik.example.io/demo").WithClock(func() time.Time { return fixedNow })
	f.service = media.NewService(testConfig(), f.repo, f.store, f.limiter, locator, f.observer).
		WithClock(func() time.Time { return fixedNow })
	return f
}

func activeRecord(id string, ownerID int) *media.MediaRecord {
	return &media.MediaRecord{
		ID:          id,
		OwnerID:     ownerID,
		DisplayName: id + " local",
		StoragePath: id + ".png",
		Kind:        media.KindImage,
		Status:      media.StatusActive,
		CreatedAt:   fixedNow.Add(-time.Hour),
	}
}

func temporaryRecord(id string, age time.Duration) *media.MediaRecord {
	return &media.MediaRecord{
		ID:          id,
		OwnerID:     media.AnonymousOwnerID,
		DisplayName: "anon-" + id,
		Kind:        media.KindImage,
		Status:      media.StatusTemporary,
		CreatedAt:   fixedNow.Add(-age),
	}
}

func notFound() error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "asset not found", nil, "test")
}

func unavailable() error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRemoteUnavailable, "asset store unavailable", nil, "test")
}

func TestGetByIDSelfHealsMissingAsset(t *testing.T) {
	f := newFixture(activeRecord("gone", 7))
	f.store.DetailsFunc = func(context.Context, string) (*media.AssetDetails, error) {
		return nil, notFound()
	}

	rec, err := f.service.GetByID(context.Background(), "gone", 7)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, media.StatusDeleted, f.repo.status("gone"))
	assert.Equal(t, []string{"gone"}, f.observer.healed)

	rec, err = f.service.GetByID(context.Background(), "gone", 7)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Equal(t, 1, f.store.Calls("details"))
}

func TestGetByIDMergesRemoteDetails(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))

	rec, err := f.service.GetByID(context.Background(), "a1", 7)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "a1 local", rec.DisplayName)
	assert.Equal(t, "https://ik.example.io/demo/a1.png", rec.RemoteURL)
	assert.Equal(t, 640, rec.Width)
	assert.Equal(t, 480, rec.Height)
}

func TestGetByIDEnforcesOwnershipByPredicate(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))

	rec, err := f.service.GetByID(context.Background(), "a1", 8)
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, f.store.Calls("details"))
}

func TestGetByIDSurfacesRemoteUnavailable(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	f.store.DetailsFunc = func(context.Context, string) (*media.AssetDetails, error) {
		return nil, unavailable()
	}

	_, err := f.service.GetByID(context.Background(), "a1", 7)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRemoteUnavailable))
	assert.True(t, platformerrors.IsRetryable(err))
	assert.Equal(t, media.StatusActive, f.repo.status("a1"))
}

func TestGetByIDTimesOutAsRemoteUnavailable(t *testing.T) {
	f := newFixture(activeRecord("slow", 7))
	f.store.DetailsFunc = func(ctx context.Context, _ string) (*media.AssetDetails, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := f.service.GetByID(context.Background(), "slow", 7)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRemoteUnavailable))
}

func TestListDegradesPerItem(t *testing.T) {
	f := newFixture(activeRecord("a1", 7), activeRecord("a2", 7), activeRecord("a3", 7), activeRecord("b1", 9))
	f.store.DetailsFunc = func(_ context.Context, id string) (*media.AssetDetails, error) {
		switch id {
		case "a2":
			return nil, notFound()
		case "a3":
			return nil, unavailable()
		}
		return &media.AssetDetails{ID: id, URL: "https://ik.example.io/demo/" + id}, nil
	}

	records, err := f.service.List(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "a1", records[0].ID)

	assert.Equal(t, media.StatusDeleted, f.repo.status("a2"))
	assert.Equal(t, media.StatusActive, f.repo.status("a3"))
	assert.Equal(t, media.StatusActive, f.repo.status("b1"))
	assert.Equal(t, []string{media.OpList + ":a3"}, f.observer.remoteFailures)
}

func TestRateLimitedOperationsHaveNoSideEffects(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	f.limiter.AllowFunc = func(context.Context, string) (bool, error) { return false, nil }

	err := f.service.Delete(context.Background(), "a1", 7)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRateLimited))
	assert.Equal(t, media.StatusActive, f.repo.status("a1"))
	assert.Zero(t, f.store.Calls("delete"))
	assert.Equal(t, []string{"deleteMedia_7"}, f.observer.rateLimited)

	_, err = f.service.GetByID(context.Background(), "a1", 7)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRateLimited))
	assert.Zero(t, f.store.Calls("details"))
}

func TestRateLimiterFailureIsRemoteUnavailable(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	f.limiter.AllowFunc = func(context.Context, string) (bool, error) { return false, errors.New("redis down") }

	_, err := f.service.List(context.Background(), 7)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRemoteUnavailable))
}

func TestRateLimitKeysArePerOperationAndSubject(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	ctx := context.Background()

	_, _ = f.service.List(ctx, 7)
	_, _ = f.service.GetByID(ctx, "a1", 7)
	_, _ = f.service.Create(ctx, media.CreateParams{OwnerID: 0, RateSubject: "anon_123", Asset: media.AssetDetails{ID: "x", URL: "u", Kind: media.KindImage}})

	assert.Equal(t, []string{"listMedia_7", "getMedia_7", "createMedia_anon_123"}, f.limiter.keys)
}

func TestDeleteSwallowsRemoteFailure(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	f.store.DeleteFunc = func(context.Context, string) error { return unavailable() }

	err := f.service.Delete(context.Background(), "a1", 7)
	require.NoError(t, err)
	assert.Equal(t, media.StatusDeleted, f.repo.status("a1"))
	assert.Equal(t, []string{media.OpDelete + ":a1"}, f.observer.remoteFailures)
}

func TestDeleteTreatsRemoteAbsenceAsSuccess(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	f.store.DeleteFunc = func(context.Context, string) error { return notFound() }

	require.NoError(t, f.service.Delete(context.Background(), "a1", 7))
	assert.Empty(t, f.observer.remoteFailures)
}

func TestDeleteOwnershipFailures(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		ownerID  int
		expected platformerrors.ErrorType
	}{
		{name: "other owner", id: "a1", ownerID: 8, expected: platformerrors.ErrorTypeForbidden},
		{name: "missing", id: "nope", ownerID: 7, expected: platformerrors.ErrorTypeNotFound},
		{name: "anonymous", id: "a1", ownerID: media.AnonymousOwnerID, expected: platformerrors.ErrorTypeForbidden},
		{name: "already deleted", id: "d1", ownerID: 7, expected: platformerrors.ErrorTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := activeRecord("d1", 7)
			deleted.Status = media.StatusDeleted
			f := newFixture(activeRecord("a1", 7), deleted)

			err := f.service.Delete(context.Background(), tt.id, tt.ownerID)
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, tt.expected), err.Error())
			assert.Equal(t, media.StatusActive, f.repo.status("a1"))
			assert.Zero(t, f.store.Calls("delete"))
		})
	}
}

func TestCreateSetsStatusByOwner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	asset := media.AssetDetails{ID: "ik_1", Name: "cat.png", URL: "https://ik.example.io/demo/cat.png", StoragePath: "cat.png", Kind: media.KindImage, Width: 10, Height: 20}

	rec, err := f.service.Create(ctx, media.CreateParams{OwnerID: 7, Asset: asset})
	require.NoError(t, err)
	assert.Equal(t, media.StatusActive, rec.Status)
	assert.Equal(t, fixedNow, rec.CreatedAt)

	asset.ID = "ik_2"
	rec, err = f.service.Create(ctx, media.CreateParams{OwnerID: media.AnonymousOwnerID, RateSubject: "anon_1", Asset: asset})
	require.NoError(t, err)
	assert.Equal(t, media.StatusTemporary, rec.Status)
}

func TestCreateValidatesAsset(t *testing.T) {
	f := newFixture()

	_, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: 7, Asset: media.AssetDetails{ID: "x", URL: "u", Kind: "audio"}})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestCreateConfirmsAssetRemotely(t *testing.T) {
	f := newFixture()
	asset := media.AssetDetails{ID: "ik_1", Name: "cat.png", URL: "https://ik.example.io/demo/cat.png", Kind: media.KindImage}

	rec, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: 7, Asset: asset})
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Calls("details"))
	assert.Equal(t, 640, rec.Width)
	assert.Equal(t, "cat.png", rec.DisplayName)
}

func TestCreateRejectsAssetMissingRemotely(t *testing.T) {
	f := newFixture()
	f.store.DetailsFunc = func(context.Context, string) (*media.AssetDetails, error) { return nil, notFound() }
	asset := media.AssetDetails{ID: "someone-elses-asset", Name: "x.png", URL: "https://ik.example.io/demo/x.png", Kind: media.KindImage}

	_, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: media.AnonymousOwnerID, RateSubject: "anon_1", Asset: asset})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	processed, err := f.service.ReclaimExpiredTemporary(context.Background(), fixedNow.Add(25*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Zero(t, f.store.Calls("delete"))
}

func TestCreateRejectsIndexedAssetBeforeRemoteCall(t *testing.T) {
	f := newFixture(activeRecord("a1", 9))
	asset := media.AssetDetails{ID: "a1", Name: "a1.png", URL: "https://ik.example.io/demo/a1.png", Kind: media.KindImage}

	_, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: 7, Asset: asset})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeConflict))
	assert.Zero(t, f.store.Calls("details"))

	row, _ := f.repo.FindByID(context.Background(), "a1")
	assert.Equal(t, 9, row.OwnerID)
}

func TestCreateRemoteOutageIsRetryable(t *testing.T) {
	f := newFixture()
	f.store.DetailsFunc = func(context.Context, string) (*media.AssetDetails, error) { return nil, unavailable() }
	asset := media.AssetDetails{ID: "ik_1", Name: "cat.png", URL: "https://ik.example.io/demo/cat.png", Kind: media.KindImage}

	_, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: 7, Asset: asset})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRemoteUnavailable))
	row, _ := f.repo.FindByID(context.Background(), "ik_1")
	assert.Nil(t, row)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 0, 0, 0, 1, 0, 0, 0, 1, 8, 2, 0, 0, 0}

func TestUploadAnonymousTagsAndPrefixes(t *testing.T) {
	f := newFixture()
	var got media.UploadInput
	f.store.UploadFunc = func(_ context.Context, input media.UploadInput) (*media.AssetDetails, error) {
		got = input
		return &media.AssetDetails{ID: "ik_anon", Name: input.Name, URL: "https://ik.example.io/demo/" + input.Name}, nil
	}

	rec, err := f.service.Upload(context.Background(), media.UploadParams{
		OwnerID:     media.AnonymousOwnerID,
		RateSubject: "anon_5f1b2c3d-aaaa",
		FileName:    "../photos/cat.png",
		Body:        bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)

	assert.Equal(t, "anon-anon_5f1-cat.png", got.Name)
	assert.Equal(t, []string{"anonymous", "temporary"}, got.Tags)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, media.StatusTemporary, rec.Status)
	assert.Equal(t, media.KindImage, rec.Kind)
	assert.Equal(t, []string{"uploadAnonymous_anon_5f1b2c3d-aaaa"}, f.limiter.keys)
}

func TestUploadRejectsUnsupportedContent(t *testing.T) {
	f := newFixture()

	_, err := f.service.Upload(context.Background(), media.UploadParams{OwnerID: 7, FileName: "notes.txt", Body: bytes.NewReader([]byte("hello world"))})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Zero(t, f.store.Calls("upload"))

	_, err = f.service.Upload(context.Background(), media.UploadParams{OwnerID: 7, FileName: "big.png", Body: bytes.NewReader(make([]byte, 2048))})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestUploadBoundsLongFileNames(t *testing.T) {
	tests := []struct {
		name    string
		ownerID int
		subject string
		prefix  string
	}{
		{name: "signed in", ownerID: 7},
		{name: "anonymous", ownerID: media.AnonymousOwnerID, subject: "anon_5f1b2c3d", prefix: "anon-anon_5f1-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			var got media.UploadInput
			f.store.UploadFunc = func(_ context.Context, input media.UploadInput) (*media.AssetDetails, error) {
				got = input
				return &media.AssetDetails{ID: "ik_long", Name: input.Name, URL: "https://ik.example.io/demo/long.png"}, nil
			}

			fileName := strings.Repeat("é", 300) + ".png"
			rec, err := f.service.Upload(context.Background(), media.UploadParams{
				OwnerID:     tt.ownerID,
				RateSubject: tt.subject,
				FileName:    fileName,
				Body:        bytes.NewReader(pngHeader),
			})
			require.NoError(t, err)

			assert.Equal(t, 255, utf8.RuneCountInString(got.Name))
			assert.True(t, strings.HasPrefix(got.Name, tt.prefix+"é"))
			assert.True(t, strings.HasSuffix(got.Name, ".png"))
			assert.Equal(t, got.Name, rec.DisplayName)
		})
	}
}

func TestCreateRejectsOverlongName(t *testing.T) {
	f := newFixture()
	asset := media.AssetDetails{ID: "ik_1", Name: strings.Repeat("a", 256), URL: "https://ik.example.io/demo/a.png", Kind: media.KindImage}

	_, err := f.service.Create(context.Background(), media.CreateParams{OwnerID: 7, Asset: asset})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Zero(t, f.store.Calls("details"))
}

func TestUploadRemovesRemoteAssetWhenIndexFails(t *testing.T) {
	f := newFixture()
	f.repo.failIDs["asset_uploaded"] = true

	_, err := f.service.Upload(context.Background(), media.UploadParams{OwnerID: 7, FileName: "cat.png", Body: bytes.NewReader(pngHeader)})
	require.Error(t, err)
	assert.Equal(t, 1, f.store.Calls("delete"))
}

func TestUpdateDisplayName(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	name := "  Holiday  "

	rec, err := f.service.Update(context.Background(), "a1", 7, media.UpdateParams{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Holiday", rec.DisplayName)

	empty := " "
	_, err = f.service.Update(context.Background(), "a1", 7, media.UpdateParams{DisplayName: &empty})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))

	_, err = f.service.Update(context.Background(), "a1", 9, media.UpdateParams{DisplayName: &name})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestPersistTransformedURL(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))
	set, err := transform.EncodeEffects(transform.EffectState{Grayscale: true})
	require.NoError(t, err)

	rec, err := f.service.PersistTransformedURL(context.Background(), "a1", 7, set)
	require.NoError(t, err)

	expected := "https://ik.example.io/demo/tr:e-grayscale/a1.png?updatedAt=" + "1742904000000"
	assert.Equal(t, expected, rec.TransformedURL)

	stored, err := f.repo.FindByID(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, expected, stored.TransformedURL)
}

func TestPersistTransformedURLRefusesEmptySet(t *testing.T) {
	f := newFixture(activeRecord("a1", 7))

	_, err := f.service.PersistTransformedURL(context.Background(), "a1", 7, transform.NewSet())
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
}

func TestReclaimConverges(t *testing.T) {
	f := newFixture(
		temporaryRecord("t1", 25*time.Hour),
		temporaryRecord("t2", 30*time.Hour),
		temporaryRecord("t3", 48*time.Hour),
		temporaryRecord("fresh", time.Hour),
	)
	f.store.DeleteFunc = func(_ context.Context, id string) error {
		switch id {
		case "t2":
			return notFound()
		case "t3":
			return unavailable()
		}
		return nil
	}

	processed, err := f.service.ReclaimExpiredTemporary(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	for _, id := range []string{"t1", "t2", "t3"} {
		assert.Equal(t, media.StatusDeleted, f.repo.status(id), id)
	}
	assert.Equal(t, media.StatusTemporary, f.repo.status("fresh"))

	processed, err = f.service.ReclaimExpiredTemporary(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.Zero(t, processed)
}

func TestReclaimConcurrentRunsCountOnce(t *testing.T) {
	var rows []*media.MediaRecord
	for _, id := range []string{"t1", "t2", "t3", "t4", "t5"} {
		rows = append(rows, temporaryRecord(id, 72*time.Hour))
	}
	f := newFixture(rows...)

	var wg sync.WaitGroup
	results := make([]int, 3)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processed, err := f.service.ReclaimExpiredTemporary(context.Background(), fixedNow)
			assert.NoError(t, err)
			results[i] = processed
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, results[0]+results[1]+results[2])
}

func TestReclaimResult(t *testing.T) {
	f := newFixture(temporaryRecord("t1", 25*time.Hour))

	result := f.service.Reclaim(context.Background())
	assert.Equal(t, media.ReclaimResult{Success: true, ProcessedCount: 1}, result)
}
