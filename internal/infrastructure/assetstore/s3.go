package assetstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/webp"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/infrastructure/metrics"
	"media-studio/internal/utils/platformerrors"
	"media-studio/utils/mediaid"
)

const s3Backend = "s3"

// Object metadata keys. S3 lower-cases user metadata names.
const (
	metaName   = "display-name"
	metaKind   = "kind"
	metaWidth  = "width"
	metaHeight = "height"
	metaTags   = "tags"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps media in an S3-compatible bucket. The object key is the
// asset id, so the id doubles as the storage path handed to the renderer.
type S3Store struct {
	bucket    string
	client    s3API
	publicURL string
	log       zerolog.Logger
}

func NewS3Store(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*S3Store, error) {
	logger := log.With().Str("component", "s3-store").Logger()

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	publicURL := cfg.S3PublicEndpoint
	if publicURL == "" {
		publicURL = strings.TrimSuffix(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}

	return newS3Store(client, cfg.S3Bucket, publicURL, logger), nil
}

func newS3Store(client s3API, bucket, publicURL string, log zerolog.Logger) *S3Store {
	return &S3Store{
		bucket:    bucket,
		client:    client,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		log:       log,
	}
}

func (s *S3Store) Upload(ctx context.Context, input domain.UploadInput) (*domain.AssetDetails, error) {
	start := time.Now()
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeValidation,
			"failed to read upload", err, "6e0a2c4d-8f5b-4ebc-9a7d-9b1f3e5a7c24")
	}

	details := &domain.AssetDetails{
		ID:   mediaid.New(),
		Name: input.Name,
		Kind: input.Kind,
	}
	if input.Kind == domain.KindImage {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			details.Width = cfg.Width
			details.Height = cfg.Height
		} else {
			s.log.Debug().Err(err).Str("mime", input.MimeType).Msg("could not read image dimensions")
		}
	}
	details.StoragePath = details.ID
	details.URL = s.objectURL(details.ID)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(details.ID),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(input.MimeType),
		Metadata: map[string]string{
			metaName:   url.QueryEscape(input.Name),
			metaKind:   string(input.Kind),
			metaWidth:  strconv.Itoa(details.Width),
			metaHeight: strconv.Itoa(details.Height),
			metaTags:   strings.Join(input.Tags, ","),
		},
	})
	if err := s.check(ctx, "upload", start, err); err != nil {
		return nil, err
	}
	return details, nil
}

func (s *S3Store) FetchDetails(ctx context.Context, id string) (*domain.AssetDetails, error) {
	start := time.Now()
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err := s.check(ctx, "details", start, err); err != nil {
		return nil, err
	}

	details := &domain.AssetDetails{
		ID:          id,
		URL:         s.objectURL(id),
		StoragePath: id,
	}
	if name, err := url.QueryUnescape(out.Metadata[metaName]); err == nil {
		details.Name = name
	}
	details.Kind = domain.Kind(out.Metadata[metaKind])
	if details.Kind == "" && out.ContentType != nil {
		details.Kind = kindOf("", aws.ToString(out.ContentType))
	}
	details.Width, _ = strconv.Atoi(out.Metadata[metaWidth])
	details.Height, _ = strconv.Atoi(out.Metadata[metaHeight])
	return details, nil
}

// Delete removes the object. S3 deletes are idempotent, so an absent object
// is not an error here.
func (s *S3Store) Delete(ctx context.Context, id string) error {
	start := time.Now()
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	return s.check(ctx, "delete", start, err)
}

func (s *S3Store) objectURL(key string) string {
	return s.publicURL + "/" + url.PathEscape(key)
}

func (s *S3Store) check(ctx context.Context, operation string, start time.Time, err error) error {
	elapsed := time.Since(start).Seconds()
	if err == nil {
		metrics.RecordAssetStoreOperation(s3Backend, operation, "success", elapsed)
		return nil
	}
	metrics.RecordAssetStoreOperation(s3Backend, operation, "error", elapsed)

	status := 0
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		status = respErr.HTTPStatusCode()
	}
	code := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.ErrorCode()
	}

	switch {
	case status == http.StatusNotFound || code == "NotFound" || code == "NoSuchKey":
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound,
			"asset not found", err, "7f1b3d5e-9a6c-4fcd-8b8e-0c2a4f6b8d35")
	case status == 0, status == http.StatusTooManyRequests, status >= http.StatusInternalServerError,
		code == "SlowDown", code == "RequestTimeout":
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeRemoteUnavailable,
			fmt.Sprintf("s3 %s unavailable", operation), err, "8a2c4e6f-0b7d-4ade-9c9f-1d3b5a7c9e46")
	default:
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("s3 %s rejected with status %d", operation, status), err, "9b3d5f7a-1c8e-4bef-8dab-2e4c6b8d0f57")
	}
}
