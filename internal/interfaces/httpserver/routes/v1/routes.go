package v1

import (
	"github.com/gin-gonic/gin"

	"media-studio/internal/infrastructure/auth"
	"media-studio/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers  *handlers.Provider
	anonymous gin.HandlerFunc
}

func NewRoutes(provider *handlers.Provider, anonymous gin.HandlerFunc) *Routes {
	return &Routes{handlers: provider, anonymous: anonymous}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	open := group.Group("", r.anonymous)
	open.POST("/media/upload", r.handlers.Media.Upload)

	owned := group.Group("/media", auth.RequireSession())
	owned.POST("", r.handlers.Media.Register)
	owned.GET("", r.handlers.Media.List)
	owned.GET("/:id", r.handlers.Media.Get)
	owned.PATCH("/:id", r.handlers.Media.Update)
	owned.DELETE("/:id", r.handlers.Media.Delete)
	owned.PUT("/:id/transformation", r.handlers.Media.PersistTransformation)

	group.POST("/transformations/preview", r.handlers.Transform.Preview)
	group.GET("/transformations/fonts", r.handlers.Transform.Fonts)

	group.GET("/cron/reclaim-temporary", r.handlers.Cron.ReclaimTemporary)
	group.POST("/cron/reclaim-temporary", r.handlers.Cron.ReclaimTemporary)
}
