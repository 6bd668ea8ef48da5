package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/session"
)

type NotificationHandler struct {
	sess     *session.Session
	notifier string
	logger   *zap.Logger
}

// NewNotificationHandler takes the selected notifier's name for display.
func NewNotificationHandler(sess *session.Session, notifier string, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{sess: sess, notifier: notifier, logger: logger}
}

// RequestPermission handles POST /v1/notifications/permission
//
// Always 200: a denial is an answer, not an error.
func (h *NotificationHandler) RequestPermission(c *gin.Context) {
	granted, err := h.sess.RequestNotifications(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to store notify preference", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"granted":  granted,
		"notifier": h.notifier,
	})
}
