package requests

import (
	domain "media-studio/internal/domain/media"
	"media-studio/internal/domain/transform"
)

// RegisterMediaRequest records an asset the caller already uploaded to the
// asset store.
type RegisterMediaRequest struct {
	AssetID     string `json:"asset_id" binding:"required"`
	Name        string `json:"name" binding:"required,max=255"`
	URL         string `json:"url" binding:"required,url"`
	StoragePath string `json:"storage_path"`
	Kind        string `json:"kind" binding:"omitempty,oneof=image video"`
	Width       int    `json:"width" binding:"gte=0"`
	Height      int    `json:"height" binding:"gte=0"`
	AudioCodec  string `json:"audio_codec"`
	VideoCodec  string `json:"video_codec"`
}

// ToDomain converts request to domain model
func (r *RegisterMediaRequest) ToDomain(ownerID int, rateSubject string) domain.CreateParams {
	kind := domain.Kind(r.Kind)
	if kind == "" {
		kind = domain.KindImage
	}
	return domain.CreateParams{
		OwnerID:     ownerID,
		RateSubject: rateSubject,
		Asset: domain.AssetDetails{
			ID:          r.AssetID,
			Name:        r.Name,
			URL:         r.URL,
			StoragePath: r.StoragePath,
			Kind:        kind,
			Width:       r.Width,
			Height:      r.Height,
			AudioCodec:  r.AudioCodec,
			VideoCodec:  r.VideoCodec,
		},
	}
}

// UpdateMediaRequest changes the mutable display fields.
type UpdateMediaRequest struct {
	DisplayName *string `json:"display_name" binding:"required"`
}

// ToDomain converts request to domain model
func (r *UpdateMediaRequest) ToDomain() domain.UpdateParams {
	return domain.UpdateParams{DisplayName: r.DisplayName}
}

// OverlayRequest is one text layer of an edit.
type OverlayRequest struct {
	ID              string `json:"id" binding:"required"`
	Text            string `json:"text"`
	X               int    `json:"x"`
	Y               int    `json:"y"`
	BackgroundColor string `json:"background_color"`
	Font            string `json:"font"`
	FontSize        int    `json:"font_size" binding:"gte=0"`
}

// EffectsRequest holds the filter controls of an edit.
type EffectsRequest struct {
	Contrast    bool   `json:"contrast"`
	Sharpness   int    `json:"sharpness"`
	Grayscale   bool   `json:"grayscale"`
	Blur        int    `json:"blur" binding:"gte=0"`
	CropKeyword string `json:"crop_keyword"`
}

// TransformationRequest describes an edit as overlays, in order, followed by
// effects.
type TransformationRequest struct {
	Overlays []OverlayRequest `json:"overlays" binding:"omitempty,max=50,dive"`
	Effects  EffectsRequest   `json:"effects"`
}

// ToSet encodes the edit into a transformation set.
func (r *TransformationRequest) ToSet() (transform.Set, error) {
	overlays := make([]transform.OverlayOp, 0, len(r.Overlays))
	for _, o := range r.Overlays {
		overlays = append(overlays, transform.OverlayOp{
			ID:              o.ID,
			Text:            o.Text,
			XPx:             o.X,
			YPx:             o.Y,
			BackgroundColor: o.BackgroundColor,
			Font:            o.Font,
			FontSizePx:      o.FontSize,
		})
	}
	return transform.Build(overlays, transform.EffectState{
		Contrast:    r.Effects.Contrast,
		Sharpness:   r.Effects.Sharpness,
		Grayscale:   r.Effects.Grayscale,
		Blur:        r.Effects.Blur,
		CropKeyword: r.Effects.CropKeyword,
	})
}

// PreviewRequest builds an ephemeral render URL for any asset path.
type PreviewRequest struct {
	TransformationRequest
	AssetPath string `json:"asset_path" binding:"required,max=1024"`
	BustCache bool   `json:"bust_cache"`
}
