// Package api is the HTTP surface of the service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/notify"
	"github.com/lalith-99/skillswap/internal/observ"
	"github.com/lalith-99/skillswap/internal/session"
	"github.com/lalith-99/skillswap/internal/store"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Session       *session.Session
	Store         store.KV
	Hub           *notify.Hub
	Metrics       *observ.Metrics
	NotifierName  string
	JWTSecret     string
	MaxPhotoBytes int64
	RateLimitRPS  float64
	RateBurst     int
	Logger        *zap.Logger
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	var obs middleware.HTTPObserver
	if d.Metrics != nil {
		obs = d.Metrics
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(d.Logger, obs),
		middleware.OptionalIdentity(d.JWTSecret, d.Logger),
	)

	r.GET("/v1/health", func(c *gin.Context) {
		if d.Store != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx, d.Store); err != nil {
				d.Logger.Warn("store health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	profiles := NewProfileHandler(d.Session, d.MaxPhotoBytes, d.Logger)
	listings := NewListingHandler(d.Session, d.Logger)
	requests := NewRequestHandler(d.Session, d.Logger)
	messages := NewMessageHandler(d.Session, d.Logger)
	notifications := NewNotificationHandler(d.Session, d.NotifierName, d.Logger)
	views := NewViewHandler(d.Session, d.Logger)
	identity := NewIdentityHandler(d.JWTSecret, d.Logger)
	remote := NewRemoteListingHandler(d.Session)

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimit(d.RateLimitRPS, d.RateBurst))
	{
		v1.GET("/profile", profiles.Get)
		v1.PUT("/profile", profiles.Save)
		v1.POST("/profile/photo", profiles.UploadPhoto)
		v1.DELETE("/profile/photo", profiles.DeletePhoto)

		v1.GET("/listings", listings.Browse)
		v1.POST("/listings", listings.Create)
		v1.POST("/listings/:id/swap", listings.Swap)
		v1.GET("/tags", listings.Tags)

		v1.GET("/requests", requests.List)
		v1.POST("/requests", requests.Create)
		v1.GET("/categories", requests.Categories)

		v1.GET("/inbox", messages.Inbox)
		v1.GET("/threads", messages.Threads)
		v1.POST("/messages", messages.Send)

		v1.POST("/notifications/permission", notifications.RequestPermission)
		v1.GET("/views/:view", views.Get)
		v1.POST("/identity", identity.Issue)

		if d.Hub != nil {
			v1.GET("/ws", gin.WrapH(d.Hub))
		}
	}

	r.GET("/api/listings", remote.List)
	return r
}
