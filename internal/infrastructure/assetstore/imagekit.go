package assetstore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/metrics"
	"media-studio/internal/utils/httpclients"
	"media-studio/internal/utils/platformerrors"
)

const imageKitBackend = "imagekit"

// ImageKitStore talks to the ImageKit media library REST API. Requests are
// authenticated with the private key as the basic-auth user.
type ImageKitStore struct {
	client    *resty.Client
	apiURL    string
	uploadURL string
	folder    string
	log       zerolog.Logger
}

type imageKitFile struct {
	FileID     string `json:"fileId"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	FilePath   string `json:"filePath"`
	FileType   string `json:"fileType"`
	Mime       string `json:"mime"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	AudioCodec string `json:"audioCodec"`
	VideoCodec string `json:"videoCodec"`
}

func NewImageKitStore(cfg *config.Config, log zerolog.Logger) *ImageKitStore {
	logger := log.With().Str("component", "imagekit-store").Logger()
	client := httpclients.NewClient(imageKitBackend, cfg.AssetStoreTimeout, logger)
	client.SetBasicAuth(cfg.ImageKitPrivateKey, "")

	return &ImageKitStore{
		client:    client,
		apiURL:    strings.TrimSuffix(cfg.ImageKitAPIURL, "/"),
		uploadURL: strings.TrimSuffix(cfg.ImageKitUploadURL, "/"),
		folder:    cfg.ImageKitFolder,
		log:       logger,
	}
}

func (s *ImageKitStore) Upload(ctx context.Context, input domain.UploadInput) (*domain.AssetDetails, error) {
	start := time.Now()
	fields := map[string]string{
		"fileName":          input.Name,
		"useUniqueFileName": "true",
	}
	if s.folder != "" {
		fields["folder"] = s.folder
	}
	if len(input.Tags) > 0 {
		fields["tags"] = strings.Join(input.Tags, ",")
	}

	var file imageKitFile
	resp, err := s.client.R().
		SetContext(ctx).
		SetMultipartFormData(fields).
		SetFileReader("file", input.Name, input.Body).
		SetResult(&file).
		Post(s.uploadURL + "/api/v1/files/upload")
	if err := s.check(ctx, "upload", start, resp, err); err != nil {
		return nil, err
	}

	details := file.toDetails()
	if details.Kind == "" {
		details.Kind = input.Kind
	}
	return details, nil
}

func (s *ImageKitStore) FetchDetails(ctx context.Context, id string) (*domain.AssetDetails, error) {
	start := time.Now()
	var file imageKitFile
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("fileId", id).
		SetResult(&file).
		Get(s.apiURL + "/v1/files/{fileId}/details")
	if err := s.check(ctx, "details", start, resp, err); err != nil {
		return nil, err
	}
	return file.toDetails(), nil
}

func (s *ImageKitStore) Delete(ctx context.Context, id string) error {
	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("fileId", id).
		Delete(s.apiURL + "/v1/files/{fileId}")
	return s.check(ctx, "delete", start, resp, err)
}

// check records the call and maps failures onto platform error types:
// 404 is NOT_FOUND, 429/5xx and transport errors are REMOTE_UNAVAILABLE and
// any other 4xx is EXTERNAL.
func (s *ImageKitStore) check(ctx context.Context, operation string, start time.Time, resp *resty.Response, err error) error {
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordAssetStoreOperation(imageKitBackend, operation, "error", elapsed)
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRemoteUnavailable,
			fmt.Sprintf("imagekit %s request failed", operation), err, "2a6c8e0f-4b1d-4a7e-9c3f-5d7b9a1c3e80")
	}

	status := resp.StatusCode()
	metrics.RecordAssetStoreOperation(imageKitBackend, operation, strconv.Itoa(status), elapsed)
	if !resp.IsError() {
		return nil
	}

	cause := fmt.Errorf("imagekit status %d: %s", status, strings.TrimSpace(resp.String()))
	switch {
	case status == http.StatusNotFound:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
			"asset not found", cause, "3b7d9f1a-5c2e-4b8f-8d4a-6e8c0b2d4f91")
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRemoteUnavailable,
			fmt.Sprintf("imagekit %s unavailable", operation), cause, "4c8e0a2b-6d3f-4c9a-9e5b-7f9d1c3e5a02")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("imagekit %s rejected with status %d", operation, status), cause, "5d9f1b3c-7e4a-4dab-8f6c-8a0e2d4f6b13")
	}
}

func (f imageKitFile) toDetails() *domain.AssetDetails {
	return &domain.AssetDetails{
		ID:          f.FileID,
		Name:        f.Name,
		URL:         f.URL,
		StoragePath: f.FilePath,
		Kind:        kindOf(f.FileType, f.Mime),
		Width:       f.Width,
		Height:      f.Height,
		AudioCodec:  f.AudioCodec,
		VideoCodec:  f.VideoCodec,
	}
}

func kindOf(fileType, mime string) domain.Kind {
	switch {
	case fileType == "image" || strings.HasPrefix(mime, "image/"):
		return domain.KindImage
	case strings.HasPrefix(mime, "video/"):
		return domain.KindVideo
	}
	return ""
}
