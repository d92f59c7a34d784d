package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"media-studio/internal/config"
	"media-studio/internal/domain/transform"
	"media-studio/internal/utils/platformerrors"
)

// Rate-limit operation classes. Each class has its own window per subject.
const (
	OpList            = "listMedia"
	OpGet             = "getMedia"
	OpCreate          = "createMedia"
	OpUpload          = "upload"
	OpUploadAnonymous = "uploadAnonymous"
	OpUpdate          = "updateMedia"
	OpDelete          = "deleteMedia"
	OpPersist         = "saveTransformation"
	OpReclaim         = "reclaimTemporary"
)

const maxDisplayNameLen = 255

var allowedMIMEs = map[string]Kind{
	"image/jpeg":      KindImage,
	"image/png":       KindImage,
	"image/webp":      KindImage,
	"image/gif":       KindImage,
	"image/avif":      KindImage,
	"image/tiff":      KindImage,
	"video/mp4":       KindVideo,
	"video/webm":      KindVideo,
	"video/quicktime": KindVideo,
}

// Service is the lifecycle manager: it keeps the local index consistent with
// the remote asset store. The local index is checked before any remote call
// and is authoritative for visibility.
type Service struct {
	cfg      *config.Config
	repo     Repository
	store    AssetStore
	limiter  RateLimiter
	locator  *transform.Locator
	observer Observer
	now      func() time.Time
}

func NewService(cfg *config.Config, repo Repository, store AssetStore, limiter RateLimiter, locator *transform.Locator, observer Observer) *Service {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Service{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		limiter:  limiter,
		locator:  locator,
		observer: observer,
		now:      time.Now,
	}
}

// WithClock replaces the service time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	clone := *s
	clone.now = now
	return &clone
}

// List returns the owner's Active media merged with the asset store's
// details. Records the store reports absent are marked Deleted and left out;
// records that cannot be fetched right now are left out without change.
func (s *Service) List(ctx context.Context, ownerID int) (_ []*MediaRecord, err error) {
	defer func() { s.observer.Operation(ctx, OpList, err) }()

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, OpList, strconv.Itoa(ownerID)); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListActiveByOwner(ctx, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to list media")
	}

	resolved := make([]*MediaRecord, len(rows))
	var g errgroup.Group
	g.SetLimit(max(1, s.cfg.ListConcurrency))
	for i, row := range rows {
		g.Go(func() error {
			// per-item failures degrade to exclusion
			rec, _ := s.resolve(ctx, row, OpList)
			resolved[i] = rec
			return nil
		})
	}
	_ = g.Wait()

	out := make([]*MediaRecord, 0, len(resolved))
	for _, rec := range resolved {
		if rec != nil {
			out = append(out, rec)
		}
	}
	return out, nil
}

// GetByID returns the Active record matching (id, ownerID) or nil when there
// is none or the asset store confirms the asset is gone.
func (s *Service) GetByID(ctx context.Context, id string, ownerID int) (_ *MediaRecord, err error) {
	defer func() { s.observer.Operation(ctx, OpGet, err) }()

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, OpGet, strconv.Itoa(ownerID)); err != nil {
		return nil, err
	}

	row, err := s.repo.FindActive(ctx, id, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to get media")
	}
	if row == nil {
		return nil, nil
	}

	rec, err := s.resolve(ctx, row, OpGet)
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Create indexes an asset that was already uploaded to the asset store. The
// asset must not be indexed yet and must exist remotely. Anonymous owners get
// a Temporary record.
func (s *Service) Create(ctx context.Context, params CreateParams) (_ *MediaRecord, err error) {
	defer func() { s.observer.Operation(ctx, OpCreate, err) }()

	if err := s.admit(ctx, OpCreate, rateSubject(params.OwnerID, params.RateSubject)); err != nil {
		return nil, err
	}
	if err := validateAsset(ctx, params.Asset); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, params.Asset.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up media")
	}
	if existing != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"media is already registered", nil, "2c7a9e4b-0d6f-4b2d-8e1a-3f4c6d8b0a12")
	}

	remoteCtx, cancel := s.remoteContext(ctx)
	details, err := s.store.FetchDetails(remoteCtx, params.Asset.ID)
	cancel()
	if err != nil {
		err = s.remoteError(ctx, err, "failed to confirm asset")
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"asset does not exist in the asset store", err, "3d8b0f5c-1e7a-4c3e-9f2b-4a5d7e9c1b23")
		}
		return nil, err
	}

	rec := merge(s.newRecord(params.OwnerID, params.Asset), details)
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save media")
	}
	return rec, nil
}

// Upload stores the caller's bytes in the asset store and indexes them. When
// indexing fails the remote asset is removed again on a best-effort basis.
func (s *Service) Upload(ctx context.Context, params UploadParams) (_ *MediaRecord, err error) {
	anonymous := params.OwnerID == AnonymousOwnerID
	op := OpUpload
	if anonymous {
		op = OpUploadAnonymous
	}
	defer func() { s.observer.Operation(ctx, op, err) }()

	subject := rateSubject(params.OwnerID, params.RateSubject)
	if err := s.admit(ctx, op, subject); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(params.Body, s.cfg.MaxMediaBytes+1))
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "failed to read upload", err, "0c5a7e2b-8d4f-4b61-9e3a-1f2d4c6b8a90")
	}
	if len(data) == 0 {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "file is empty", nil, "1d6b8f3c-9e5a-4c72-8f4b-2a3e5d7c9b01")
	}
	if int64(len(data)) > s.cfg.MaxMediaBytes {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("file exceeds max size of %d bytes", s.cfg.MaxMediaBytes), nil, "2e7c9a4d-0f6b-4d83-9a5c-3b4f6e8d0c12")
	}

	mimeType := mimetype.Detect(data).String()
	kind, ok := allowedMIMEs[strings.SplitN(mimeType, ";", 2)[0]]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported mime type %s", mimeType), nil, "3f8d0b5e-1a7c-4e94-8b6d-4c5a7f9e1d23")
	}

	prefix := ""
	var tags []string
	if anonymous {
		prefix = "anon-" + truncate(subject, 8) + "-"
		tags = []string{"anonymous", "temporary"}
	}
	name := prefix + boundFileName(sanitizeFileName(params.FileName), maxDisplayNameLen-utf8.RuneCountInString(prefix))

	remoteCtx, cancel := s.remoteContext(ctx)
	details, err := s.store.Upload(remoteCtx, UploadInput{
		Name:     name,
		Body:     bytes.NewReader(data),
		Size:     int64(len(data)),
		MimeType: mimeType,
		Kind:     kind,
		Tags:     tags,
	})
	cancel()
	if err != nil {
		return nil, s.remoteError(ctx, err, "failed to upload media")
	}
	if details.Kind == "" {
		details.Kind = kind
	}

	rec := s.newRecord(params.OwnerID, *details)
	if err := s.repo.Create(ctx, rec); err != nil {
		s.deleteRemote(ctx, op, details.ID)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save media")
	}
	return rec, nil
}

// Update changes the mutable display fields of an owned Active record.
func (s *Service) Update(ctx context.Context, id string, ownerID int, params UpdateParams) (_ *MediaRecord, err error) {
	defer func() { s.observer.Operation(ctx, OpUpdate, err) }()

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, OpUpdate, strconv.Itoa(ownerID)); err != nil {
		return nil, err
	}
	if params.DisplayName != nil {
		name := strings.TrimSpace(*params.DisplayName)
		if name == "" || utf8.RuneCountInString(name) > maxDisplayNameLen {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
				"display name must be between 1 and 255 characters", nil, "4a9e1c6f-2b8d-4fa5-9c7e-5d6b8a0f2e34")
		}
		params.DisplayName = &name
	}

	rec, err := s.repo.FindActive(ctx, id, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update media")
	}
	if rec == nil {
		return nil, s.missing(ctx, id, ownerID)
	}

	changed, err := s.repo.UpdateDisplay(ctx, id, ownerID, params)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to update media")
	}
	if !changed {
		return nil, s.missing(ctx, id, ownerID)
	}

	if params.DisplayName != nil {
		rec.DisplayName = *params.DisplayName
	}
	rec.UpdatedAt = s.now()
	return rec, nil
}

// Delete marks an owned Active record Deleted and then removes the remote
// asset. A remote failure is reported to the observer and never undoes the
// local transition.
func (s *Service) Delete(ctx context.Context, id string, ownerID int) (err error) {
	defer func() { s.observer.Operation(ctx, OpDelete, err) }()

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return err
	}
	if err := s.admit(ctx, OpDelete, strconv.Itoa(ownerID)); err != nil {
		return err
	}

	rec, err := s.repo.FindActive(ctx, id, ownerID)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete media")
	}
	if rec == nil {
		return s.missing(ctx, id, ownerID)
	}

	changed, err := s.repo.MarkDeleted(ctx, id, ownerID, StatusActive)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to delete media")
	}
	if !changed {
		// a concurrent delete already reached the goal state
		return nil
	}

	s.deleteRemote(ctx, OpDelete, id)
	return nil
}

// PersistTransformedURL bakes an edit: it builds the render URL for set and
// stores it on the owned Active record.
func (s *Service) PersistTransformedURL(ctx context.Context, id string, ownerID int, set transform.Set) (_ *MediaRecord, err error) {
	defer func() { s.observer.Operation(ctx, OpPersist, err) }()

	if err := s.requireOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, OpPersist, strconv.Itoa(ownerID)); err != nil {
		return nil, err
	}

	rec, err := s.repo.FindActive(ctx, id, ownerID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save transformation")
	}
	if rec == nil {
		return nil, s.missing(ctx, id, ownerID)
	}

	url, err := s.locator.Build(assetPath(rec), set, true)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to build transformation url")
	}

	changed, err := s.repo.SetTransformedURL(ctx, id, ownerID, url)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to save transformation")
	}
	if !changed {
		return nil, s.missing(ctx, id, ownerID)
	}

	rec.TransformedURL = url
	rec.UpdatedAt = s.now()
	return rec, nil
}

// Preview builds the ephemeral render URL for an asset path without touching
// the index.
func (s *Service) Preview(assetPath string, set transform.Set, bustCache bool) (string, error) {
	return s.locator.Build(assetPath, set, bustCache)
}

func (s *Service) resolve(ctx context.Context, row *MediaRecord, op string) (*MediaRecord, error) {
	remoteCtx, cancel := s.remoteContext(ctx)
	details, err := s.store.FetchDetails(remoteCtx, row.ID)
	cancel()
	if err != nil {
		err = s.remoteError(ctx, err, "failed to fetch media details")
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			s.heal(ctx, row)
			return nil, err
		}
		s.observer.RemoteFailure(ctx, op, row.ID, err)
		return nil, err
	}
	return merge(row, details), nil
}

func (s *Service) heal(ctx context.Context, row *MediaRecord) {
	changed, err := s.repo.MarkDeleted(ctx, row.ID, row.OwnerID, row.Status)
	if err != nil {
		s.observer.Operation(ctx, "selfHeal", err)
		return
	}
	if changed {
		s.observer.SelfHealed(ctx, row.ID, row.OwnerID)
	}
}

func (s *Service) deleteRemote(ctx context.Context, op, id string) {
	remoteCtx, cancel := s.remoteContext(ctx)
	defer cancel()
	if err := s.store.Delete(remoteCtx, id); err != nil {
		err = s.remoteError(ctx, err, "failed to delete remote asset")
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return
		}
		s.observer.RemoteFailure(ctx, op, id, err)
	}
}

func (s *Service) admit(ctx context.Context, op, subject string) error {
	key := op + "_" + subject
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeRemoteUnavailable,
			"rate limiter unavailable", err, "5b0f2d7a-3c9e-4ab6-8d8f-6e7c9b1a3f45")
	}
	if !allowed {
		s.observer.RateLimited(ctx, key)
		return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeRateLimited,
			"rate limit exceeded", nil, "6c1a3e8b-4d0f-4bc7-9e9a-7f8d0c2b4a56", map[string]any{"rate_key": key})
	}
	return nil
}

func (s *Service) requireOwner(ctx context.Context, ownerID int) error {
	if ownerID == AnonymousOwnerID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"anonymous callers cannot access indexed media", nil, "7d2b4f9c-5e1a-4cd8-8fab-8a9e1d3c5b67")
	}
	return nil
}

// missing classifies an (id, ownerID) miss as NotFound or Forbidden.
func (s *Service) missing(ctx context.Context, id string, ownerID int) error {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "failed to look up media")
	}
	if rec != nil && rec.Status != StatusDeleted && rec.OwnerID != ownerID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeForbidden,
			"media is owned by another user", nil, "8e3c5a0d-6f2b-4de9-9abc-9b0f2e4d6c78")
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
		"media not found", nil, "9f4d6b1e-7a3c-4efa-8bcd-0c1a3f5e7d89")
}

func (s *Service) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.AssetStoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.AssetStoreTimeout)
}

// remoteError keeps typed store errors and turns anything untyped, such as a
// timeout, into a retryable REMOTE_UNAVAILABLE.
func (s *Service) remoteError(ctx context.Context, err error, message string) error {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, message)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeRemoteUnavailable, message, err, "0a5e7c2f-8b4d-4f0b-9cde-1d2b4a6f8e90")
}

func (s *Service) newRecord(ownerID int, asset AssetDetails) *MediaRecord {
	status := StatusActive
	if ownerID == AnonymousOwnerID {
		status = StatusTemporary
	}
	now := s.now()
	return &MediaRecord{
		ID:          asset.ID,
		OwnerID:     ownerID,
		DisplayName: asset.Name,
		RemoteURL:   asset.URL,
		StoragePath: asset.StoragePath,
		Kind:        asset.Kind,
		Width:       asset.Width,
		Height:      asset.Height,
		AudioCodec:  asset.AudioCodec,
		VideoCodec:  asset.VideoCodec,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func merge(row *MediaRecord, details *AssetDetails) *MediaRecord {
	out := *row
	if details.URL != "" {
		out.RemoteURL = details.URL
	}
	if details.StoragePath != "" {
		out.StoragePath = details.StoragePath
	}
	if details.Kind != "" {
		out.Kind = details.Kind
	}
	if details.Width > 0 {
		out.Width = details.Width
	}
	if details.Height > 0 {
		out.Height = details.Height
	}
	out.AudioCodec = details.AudioCodec
	out.VideoCodec = details.VideoCodec
	return &out
}

func validateAsset(ctx context.Context, asset AssetDetails) error {
	var problem string
	switch {
	case strings.TrimSpace(asset.ID) == "":
		problem = "asset id is required"
	case strings.TrimSpace(asset.URL) == "":
		problem = "asset url is required"
	case utf8.RuneCountInString(asset.Name) > maxDisplayNameLen:
		problem = "asset name must be at most 255 characters"
	case asset.Kind != KindImage && asset.Kind != KindVideo:
		problem = "asset kind must be image or video"
	case asset.Width < 0 || asset.Height < 0:
		problem = "asset dimensions must not be negative"
	default:
		return nil
	}
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, problem, nil, "1b6f8d3a-9c5e-4a1c-8def-2e3c5b7a9f01")
}

func assetPath(rec *MediaRecord) string {
	if rec.StoragePath != "" {
		return rec.StoragePath
	}
	return rec.DisplayName
}

func rateSubject(ownerID int, anonymousSubject string) string {
	if ownerID != AnonymousOwnerID {
		return strconv.Itoa(ownerID)
	}
	if anonymousSubject == "" {
		return "anonymous"
	}
	return anonymousSubject
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

// boundFileName shortens name to at most limit runes, keeping the extension
// when there is room for it.
func boundFileName(name string, limit int) string {
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	ext := path.Ext(name)
	extLen := utf8.RuneCountInString(ext)
	if extLen >= limit {
		ext, extLen = "", 0
	}
	base := []rune(strings.TrimSuffix(name, ext))
	return string(base[:limit-extLen]) + ext
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
