package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/session"
)

type MessageHandler struct {
	sess   *session.Session
	logger *zap.Logger
}

func NewMessageHandler(sess *session.Session, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{sess: sess, logger: logger}
}

type sendMessageRequest struct {
	ListingID     int    `json:"listingId"`
	To            string `json:"to"`
	Message       string `json:"message" binding:"required"`
	SimulateReply bool   `json:"simulateReply"`
}

// Send handles POST /v1/messages
//
// The recipient is a listing (listingId) or, when listingId is omitted,
// a bare name (to).
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	target := session.Target{ListingID: req.ListingID, Name: req.To}
	m, err := h.sess.SendMessage(c.Request.Context(), target, req.Message, req.SimulateReply)
	if err != nil {
		writeMessageError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Inbox handles GET /v1/inbox?before=<message id>&limit=50
//
// The raw log, newest first. Without parameters the whole log is
// returned. "before" pages to messages older than the given one; "limit"
// is capped at 100.
func (h *MessageHandler) Inbox(c *gin.Context) {
	inbox := h.sess.Inbox(c.Request.Context())

	if before := c.Query("before"); before != "" {
		i := indexOfMessage(inbox, before)
		if i < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'before' parameter"})
			return
		}
		inbox = inbox[i+1:]
	}

	if l := c.Query("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'limit' parameter"})
			return
		}
		if limit > 100 {
			limit = 100
		}
		if len(inbox) > limit {
			inbox = inbox[:limit]
		}
	}

	c.JSON(http.StatusOK, inbox)
}

// Threads handles GET /v1/threads
//
// Most recently active thread first; messages in a thread oldest first.
func (h *MessageHandler) Threads(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.Threads(c.Request.Context()))
}

func indexOfMessage(inbox []models.Message, id string) int {
	for i, m := range inbox {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func writeMessageError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyMessage), errors.Is(err, session.ErrNoRecipient):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
	case errors.Is(err, session.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shutting down"})
	default:
		logger.Error("failed to send message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
	}
}
