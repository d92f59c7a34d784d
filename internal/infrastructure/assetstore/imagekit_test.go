package assetstore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-studio/internal/config"
	domain "media-studio/internal/domain/media"
	"media-studio/internal/utils/platformerrors"
)

func newTestImageKit(t *testing.T, handler http.HandlerFunc) *ImageKitStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewImageKitStore(&config.Config{
		ImageKitPrivateKey: "private_test",
		ImageKitAPIURL:     srv.URL,
		ImageKitUploadURL:  srv.URL,
		ImageKitFolder:     "/studio",
		AssetStoreTimeout:  200 * time.Millisecond,
	}, zerolog.Nop())
}

func TestImageKitUpload(t *testing.T) {
	store := newTestImageKit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/files/upload", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "private_test", user)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "anon-anon_123-cat.png", r.FormValue("fileName"))
		assert.Equal(t, "anonymous,temporary", r.FormValue("tags"))
		assert.Equal(t, "/studio", r.FormValue("folder"))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"fileId":   "ik_1",
			"name":     "anon-anon_123-cat_x1.png",
			"url":      "https://ik.example.io/demo/studio/anon-anon_123-cat_x1.png",
			"filePath": "/studio/anon-anon_123-cat_x1.png",
			"fileType": "image",
			"width":    640,
			"height":   480,
		})
	})

	details, err := store.Upload(context.Background(), domain.UploadInput{
		Name: "anon-anon_123-cat.png",
		Body: strings.NewReader("bytes"),
		Kind: domain.KindImage,
		Tags: []string{"anonymous", "temporary"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ik_1", details.ID)
	assert.Equal(t, "/studio/anon-anon_123-cat_x1.png", details.StoragePath)
	assert.Equal(t, domain.KindImage, details.Kind)
	assert.Equal(t, 640, details.Width)
}

func TestImageKitFetchDetailsVideo(t *testing.T) {
	store := newTestImageKit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/files/ik_9/details", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileId":"ik_9","fileType":"non-image","mime":"video/mp4","videoCodec":"h264","audioCodec":"aac","width":1920,"height":1080}`))
	})

	details, err := store.FetchDetails(context.Background(), "ik_9")
	require.NoError(t, err)
	assert.Equal(t, domain.KindVideo, details.Kind)
	assert.Equal(t, "h264", details.VideoCodec)
	assert.Equal(t, "aac", details.AudioCodec)
}

func TestImageKitErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected platformerrors.ErrorType
	}{
		{name: "missing", status: http.StatusNotFound, expected: platformerrors.ErrorTypeNotFound},
		{name: "throttled", status: http.StatusTooManyRequests, expected: platformerrors.ErrorTypeRemoteUnavailable},
		{name: "server error", status: http.StatusBadGateway, expected: platformerrors.ErrorTypeRemoteUnavailable},
		{name: "bad key", status: http.StatusUnauthorized, expected: platformerrors.ErrorTypeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestImageKit(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"raw remote text"}`))
			})

			err := store.Delete(context.Background(), "ik_1")
			require.Error(t, err)
			assert.True(t, platformerrors.IsErrorType(err, tt.expected), err.Error())
		})
	}
}

func TestImageKitTimeoutIsRemoteUnavailable(t *testing.T) {
	store := newTestImageKit(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})

	_, err := store.FetchDetails(context.Background(), "ik_1")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeRemoteUnavailable))
}
