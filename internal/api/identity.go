package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/auth"
)

const identityTTL = 30 * 24 * time.Hour

// IdentityHandler issues identity tokens. The id is whatever the
// front-end uses to tell the user's own listings apart; nothing is
// verified, and no route requires a token.
type IdentityHandler struct {
	jwtSecret string
	logger    *zap.Logger
}

func NewIdentityHandler(jwtSecret string, logger *zap.Logger) *IdentityHandler {
	return &IdentityHandler{jwtSecret: jwtSecret, logger: logger}
}

type identityRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type identityResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue handles POST /v1/identity
func (h *IdentityHandler) Issue(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := auth.GenerateToken(req.UserID, h.jwtSecret, identityTTL)
	if errors.Is(err, auth.ErrNoSecret) {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "identity tokens are disabled"})
		return
	}
	if err != nil {
		h.logger.Error("failed to issue identity token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, identityResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(identityTTL).UTC(),
	})
}
