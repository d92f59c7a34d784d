package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-studio/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authConfig() *config.Config {
	return &config.Config{
		AuthEnabled:         true,
		AuthIssuer:          "https://auth.example.io",
		AuthAudience:        "media-studio",
		AuthUserIDClaim:     "uid",
		AnonymousCookieName: "anonymous_id",
		AnonymousCookieTTL:  24 * time.Hour,
	}
}

func signedToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newRouter(cfg *config.Config, v *Validator) *gin.Engine {
	r := gin.New()
	r.Use(v.Middleware(), AnonymousIdentity(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": session.UserID, "authenticated": ok, "anonymous_id": AnonymousIDFromContext(c)})
	})
	r.GET("/private", RequireSession(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cfg := authConfig()
	v := NewValidatorWithKeyfunc(cfg, zerolog.Nop(), func(*jwt.Token) (any, error) { return &key.PublicKey, nil })
	router := newRouter(cfg, v)

	token := signedToken(t, key, jwt.MapClaims{
		"iss": cfg.AuthIssuer,
		"aud": cfg.AuthAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
		"uid": 42,
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":42,"authenticated":true,"anonymous_id":""}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	cfg := authConfig()
	v := NewValidatorWithKeyfunc(cfg, zerolog.Nop(), func(*jwt.Token) (any, error) { return &key.PublicKey, nil })
	router := newRouter(cfg, v)

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{name: "expired", claims: jwt.MapClaims{"iss": cfg.AuthIssuer, "aud": cfg.AuthAudience, "exp": time.Now().Add(-time.Hour).Unix(), "uid": 1}},
		{name: "wrong issuer", claims: jwt.MapClaims{"iss": "https://evil.example.io", "aud": cfg.AuthAudience, "exp": time.Now().Add(time.Hour).Unix(), "uid": 1}},
		{name: "missing uid", claims: jwt.MapClaims{"iss": cfg.AuthIssuer, "aud": cfg.AuthAudience, "exp": time.Now().Add(time.Hour).Unix()}},
		{name: "zero uid", claims: jwt.MapClaims{"iss": cfg.AuthIssuer, "aud": cfg.AuthAudience, "exp": time.Now().Add(time.Hour).Unix(), "uid": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+signedToken(t, key, tt.claims))
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAnonymousCallerGetsCookie(t *testing.T) {
	cfg := authConfig()
	cfg.AuthEnabled = false
	router := newRouter(cfg, NewValidatorWithKeyfunc(cfg, zerolog.Nop(), nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "anonymous_id", cookies[0].Name)
	assert.True(t, strings.HasPrefix(cookies[0].Value, "anon_"))
	assert.Equal(t, 86400, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.Contains(t, rec.Body.String(), cookies[0].Value)

	// an existing valid cookie is kept
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Result().Cookies())
	assert.Contains(t, rec.Body.String(), cookies[0].Value)
}

func TestUserIDHeaderWhenAuthDisabled(t *testing.T) {
	cfg := authConfig()
	cfg.AuthEnabled = false
	router := newRouter(cfg, NewValidatorWithKeyfunc(cfg, zerolog.Nop(), nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(UserIDHeader, "7")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(UserIDHeader, "abc")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
