package media

import (
	"io"
	"time"
)

// AnonymousOwnerID owns every record created without a session.
const AnonymousOwnerID = 0

// Status is the lifecycle state of a MediaRecord.
type Status string

const (
	StatusActive    Status = "active"
	StatusTemporary Status = "temporary"
	StatusDeleted   Status = "deleted"
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Active and Temporary only ever move to Deleted; Deleted is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive, StatusTemporary:
		return next == StatusDeleted
	default:
		return false
	}
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusTemporary, StatusDeleted:
		return true
	}
	return false
}

// Kind is the media family reported by the asset store.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// MediaRecord is the local index row for one remote asset.
type MediaRecord struct {
	ID             string    `json:"id"`
	OwnerID        int       `json:"owner_id"`
	DisplayName    string    `json:"display_name"`
	RemoteURL      string    `json:"remote_url"`
	StoragePath    string    `json:"storage_path"`
	TransformedURL string    `json:"transformed_url,omitempty"`
	Kind           Kind      `json:"kind"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	AudioCodec     string    `json:"audio_codec,omitempty"`
	VideoCodec     string    `json:"video_codec,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsAnonymous reports whether the record belongs to the anonymous placeholder owner.
func (r *MediaRecord) IsAnonymous() bool {
	return r.OwnerID == AnonymousOwnerID
}

// AssetDetails is what the asset store knows about an asset.
type AssetDetails struct {
	ID          string
	Name        string
	URL         string
	StoragePath string
	Kind        Kind
	Width       int
	Height      int
	AudioCodec  string
	VideoCodec  string
}

// UploadInput carries the bytes handed to the asset store.
type UploadInput struct {
	Name     string
	Body     io.Reader
	Size     int64
	MimeType string
	Kind     Kind
	Tags     []string
}

// CreateParams registers an asset that already exists in the asset store.
type CreateParams struct {
	OwnerID int
	// RateSubject identifies an anonymous caller for admission control; it is
	// ignored for authenticated owners.
	RateSubject string
	Asset       AssetDetails
}

// UpdateParams lists the mutable display fields. Nil means unchanged.
type UpdateParams struct {
	DisplayName *string
}

// UploadParams describes a caller upload that is stored remotely and indexed.
type UploadParams struct {
	OwnerID     int
	RateSubject string
	FileName    string
	Body        io.Reader
	Size        int64
}

// ReclaimResult is returned by the scheduled reclamation entry point.
type ReclaimResult struct {
	Success        bool   `json:"success"`
	ProcessedCount int    `json:"processed_count"`
	Error          string `json:"error,omitempty"`
}
