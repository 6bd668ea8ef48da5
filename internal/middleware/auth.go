package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/auth"
	"github.com/lalith-99/skillswap/internal/browse"
)

// ContextKeyUserID is where OptionalIdentity stores the caller's id.
const ContextKeyUserID = "user_id"

// OptionalIdentity reads a bearer token when one is sent. A valid token
// puts the user id on the gin context and the request context. A
// missing or bad token is not an error: the request simply goes on
// without an identity.
func OptionalIdentity(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || secret == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(parts[1], secret)
		if err != nil {
			logger.Debug("ignoring invalid identity token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		ctx := browse.WithIdentity(c.Request.Context(), &browse.Identity{ID: claims.UserID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetUserID returns the caller's id, or "" when anonymous.
func GetUserID(c *gin.Context) string {
	val, exists := c.Get(ContextKeyUserID)
	if !exists {
		return ""
	}
	id, ok := val.(string)
	if !ok {
		return ""
	}
	return id
}
