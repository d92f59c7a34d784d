package responses

import (
	"time"

	domain "media-studio/internal/domain/media"
	"media-studio/internal/domain/transform"
)

// MediaResponse is the public view of a media record.
type MediaResponse struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	URL            string    `json:"url"`
	StoragePath    string    `json:"storage_path,omitempty"`
	TransformedURL string    `json:"transformed_url,omitempty"`
	Kind           string    `json:"kind"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	AudioCodec     string    `json:"audio_codec,omitempty"`
	VideoCodec     string    `json:"video_codec,omitempty"`
	Status         string    `json:"status"`
	Temporary      bool      `json:"temporary"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BuildMediaResponse creates response from domain object
func BuildMediaResponse(rec *domain.MediaRecord) *MediaResponse {
	return &MediaResponse{
		ID:             rec.ID,
		DisplayName:    rec.DisplayName,
		URL:            rec.RemoteURL,
		StoragePath:    rec.StoragePath,
		TransformedURL: rec.TransformedURL,
		Kind:           string(rec.Kind),
		Width:          rec.Width,
		Height:         rec.Height,
		AudioCodec:     rec.AudioCodec,
		VideoCodec:     rec.VideoCodec,
		Status:         string(rec.Status),
		Temporary:      rec.Status == domain.StatusTemporary,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

// MediaListResponse wraps a page of media records.
type MediaListResponse struct {
	Object string           `json:"object"`
	Data   []*MediaResponse `json:"data"`
	Total  int              `json:"total"`
}

// BuildMediaListResponse creates the list envelope
func BuildMediaListResponse(records []*domain.MediaRecord) *MediaListResponse {
	data := make([]*MediaResponse, 0, len(records))
	for _, rec := range records {
		data = append(data, BuildMediaResponse(rec))
	}
	return &MediaListResponse{Object: "list", Data: data, Total: len(data)}
}

// DeleteMediaResponse confirms a delete.
type DeleteMediaResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// PreviewResponse carries an ephemeral render URL.
type PreviewResponse struct {
	Descriptor string            `json:"descriptor"`
	Tokens     []transform.Entry `json:"tokens"`
	URL        string            `json:"url"`
}

// BuildPreviewResponse creates preview response
func BuildPreviewResponse(set transform.Set, url string) *PreviewResponse {
	tokens := set.Entries()
	if tokens == nil {
		tokens = []transform.Entry{}
	}
	return &PreviewResponse{Descriptor: set.Serialize(), Tokens: tokens, URL: url}
}

// FontsResponse lists the overlay fonts and defaults.
type FontsResponse struct {
	Fonts             []string `json:"fonts"`
	DefaultFont       string   `json:"default_font"`
	DefaultFontSizePx int      `json:"default_font_size_px"`
	DefaultBackground string   `json:"default_background_color"`
}

// ReclaimResponse reports a reclamation run.
type ReclaimResponse = domain.ReclaimResult
