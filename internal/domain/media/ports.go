package media

import (
	"context"
	"time"
)

// Repository is the local media index. Every mutation is scoped by
// (id, ownerID) and by the status the row must currently have, and reports
// whether a row was changed.
type Repository interface {
	ListActiveByOwner(ctx context.Context, ownerID int) ([]*MediaRecord, error)
	// FindActive returns nil, nil when no Active row matches (id, ownerID).
	FindActive(ctx context.Context, id string, ownerID int) (*MediaRecord, error)
	// FindByID returns the row in any status, or nil, nil.
	FindByID(ctx context.Context, id string) (*MediaRecord, error)
	Create(ctx context.Context, record *MediaRecord) error
	MarkDeleted(ctx context.Context, id string, ownerID int, from Status) (bool, error)
	UpdateDisplay(ctx context.Context, id string, ownerID int, params UpdateParams) (bool, error)
	SetTransformedURL(ctx context.Context, id string, ownerID int, url string) (bool, error)
	ListExpiredTemporary(ctx context.Context, before time.Time, limit int) ([]*MediaRecord, error)
}

// AssetStore is the remote service that holds the bytes. FetchDetails fails
// with a NOT_FOUND platform error when the asset is absent; transient
// failures are REMOTE_UNAVAILABLE. Delete is idempotent but may report
// NOT_FOUND for an already absent asset.
type AssetStore interface {
	Upload(ctx context.Context, input UploadInput) (*AssetDetails, error)
	FetchDetails(ctx context.Context, id string) (*AssetDetails, error)
	Delete(ctx context.Context, id string) error
}

// RateLimiter admits or rejects one call for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Observer receives the side-channel events of the lifecycle manager.
type Observer interface {
	RateLimited(ctx context.Context, key string)
	RemoteFailure(ctx context.Context, operation, assetID string, err error)
	SelfHealed(ctx context.Context, assetID string, ownerID int)
	Reclaimed(ctx context.Context, processed int, err error)
	Operation(ctx context.Context, operation string, err error)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) RateLimited(context.Context, string)                  {}
func (NopObserver) RemoteFailure(context.Context, string, string, error) {}
func (NopObserver) SelfHealed(context.Context, string, int)              {}
func (NopObserver) Reclaimed(context.Context, int, error)                {}
func (NopObserver) Operation(context.Context, string, error)             {}
