package auth

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"media-studio/internal/config"
)

const anonymousContextKey = "anonymous_id"

var anonymousIDPattern = regexp.MustCompile(`^anon_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// AnonymousIdentity gives callers without a session a stable anonymous id,
// kept in a cookie, that serves as their rate-limit subject.
func AnonymousIdentity(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.AnonymousCookieTTL.Seconds())
	return func(c *gin.Context) {
		if _, ok := SessionFromContext(c); ok {
			c.Next()
			return
		}

		id, err := c.Cookie(cfg.AnonymousCookieName)
		if err != nil || !anonymousIDPattern.MatchString(id) {
			id = "anon_" + uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.AnonymousCookieName, id, maxAge, "/", "", c.Request.TLS != nil, true)
		}
		c.Set(anonymousContextKey, id)
		c.Next()
	}
}

// AnonymousIDFromContext returns the anonymous caller id, if one was assigned.
func AnonymousIDFromContext(c *gin.Context) string {
	id, _ := c.Get(anonymousContextKey)
	value, _ := id.(string)
	return value
}
