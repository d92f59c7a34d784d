package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"media-studio/internal/config"
	"media-studio/internal/utils/platformerrors"
)

const (
	sessionContextKey = "auth_session"
	// UserIDHeader carries the caller id when token auth is disabled.
	UserIDHeader = "X-User-ID"
)

// Session is the authenticated caller.
type Session struct {
	UserID int
}

// Validator validates JWTs using JWKS and resolves the caller session.
type Validator struct {
	cfg     *config.Config
	log     zerolog.Logger
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if !cfg.AuthEnabled {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:     cfg,
		log:     log,
		keyfunc: jwks.Keyfunc,
		jwks:    jwks,
	}, nil
}

// NewValidatorWithKeyfunc builds a validator around a fixed key source.
func NewValidatorWithKeyfunc(cfg *config.Config, log zerolog.Logger, kf jwt.Keyfunc) *Validator {
	return &Validator{cfg: cfg, log: log, keyfunc: kf}
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Middleware resolves the session when credentials are present. Requests
// without credentials continue as anonymous callers; invalid credentials are
// rejected.
func (v *Validator) Middleware() gin.HandlerFunc {
	if !v.cfg.AuthEnabled {
		return func(c *gin.Context) {
			if raw := strings.TrimSpace(c.GetHeader(UserIDHeader)); raw != "" {
				userID, err := strconv.Atoi(raw)
				if err != nil || userID <= 0 {
					abortUnauthorized(c, "invalid user id header")
					return
				}
				c.Set(sessionContextKey, Session{UserID: userID})
			}
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		session, err := v.parse(tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("rejected bearer token")
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RequireSession rejects anonymous callers.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFromContext(c); !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(c *gin.Context) (Session, bool) {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return Session{}, false
	}
	session, ok := value.(Session)
	return session, ok
}

func (v *Validator) parse(tokenString string) (Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(v.cfg.AuthIssuer),
		jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.AuthAudience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.AuthAudience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyfunc, opts...)
	if err != nil {
		return Session{}, err
	}
	if !token.Valid {
		return Session{}, fmt.Errorf("token is not valid")
	}

	userID, err := userIDClaim(claims, v.cfg.AuthUserIDClaim)
	if err != nil {
		return Session{}, err
	}
	return Session{UserID: userID}, nil
}

func userIDClaim(claims jwt.MapClaims, name string) (int, error) {
	var userID int
	switch value := claims[name].(type) {
	case float64:
		userID = int(value)
		if float64(userID) != value {
			return 0, fmt.Errorf("claim %s is not an integer", name)
		}
	case string:
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("claim %s is not an integer", name)
		}
		userID = parsed
	default:
		return 0, fmt.Errorf("claim %s is missing", name)
	}
	if userID <= 0 {
		return 0, fmt.Errorf("claim %s must be positive", name)
	}
	return userID, nil
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  string(platformerrors.ErrorTypeUnauthorized),
		"error": message,
	})
}
