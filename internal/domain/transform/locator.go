package transform

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"media-studio/internal/utils/platformerrors"
)

// VersionParam is the cache-busting query parameter understood by the render CDN.
const VersionParam = "updatedAt"

// Locator builds render URLs of the form
// <endpoint>/tr:<descriptor>/<assetPath>.
type Locator struct {
	endpoint string
	now      func() time.Time
}

// NewLocator returns a Locator for the render endpoint.
func NewLocator(endpoint string) *Locator {
	return &Locator{
		endpoint: strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		now:      time.Now,
	}
}

// WithClock replaces the time source used for cache busting.
func (l *Locator) WithClock(now func() time.Time) *Locator {
	return &Locator{endpoint: l.endpoint, now: now}
}

// Endpoint returns the normalized render endpoint.
func (l *Locator) Endpoint() string {
	return l.endpoint
}

// Build returns the render URL for assetPath with set applied. It refuses an
// empty set. When bustCache is true a version parameter carrying the current
// time is appended so caches fetch the freshly changed content.
func (l *Locator) Build(assetPath string, set Set, bustCache bool) (string, error) {
	if set.IsEmpty() {
		return "", platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"no transformation to apply", nil, "c3d4e5f6-a7b8-4c9d-8e0f-1a2b3c4d5e6f")
	}
	if l.endpoint == "" {
		return "", platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"render endpoint is not configured", nil, "d4e5f6a7-b8c9-4d0e-9f1a-2b3c4d5e6f7a")
	}
	path := escapePath(assetPath)
	if path == "" {
		return "", platformerrors.NewError(context.Background(), platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"asset path is required", nil, "e5f6a7b8-c9d0-4e1f-8a2b-3c4d5e6f7a8b")
	}

	var b strings.Builder
	b.WriteString(l.endpoint)
	b.WriteString("/tr:")
	b.WriteString(set.Serialize())
	b.WriteString("/")
	b.WriteString(path)

	if bustCache {
		q := url.Values{}
		q.Set(VersionParam, strconv.FormatInt(l.now().UnixMilli(), 10))
		b.WriteString("?")
		b.WriteString(q.Encode())
	}
	return b.String(), nil
}

func escapePath(p string) string {
	segments := strings.Split(strings.Trim(strings.TrimSpace(p), "/"), "/")
	escaped := segments[:0]
	for _, s := range segments {
		if s == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}
