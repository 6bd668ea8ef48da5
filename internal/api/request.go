package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/session"
)

type RequestHandler struct {
	sess   *session.Session
	logger *zap.Logger
}

func NewRequestHandler(sess *session.Session, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{sess: sess, logger: logger}
}

// List handles GET /v1/requests?category=
func (h *RequestHandler) List(c *gin.Context) {
	category, ok := bindCategory(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sess.Requests(c.Request.Context(), category))
}

// Create handles POST /v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var form forms.RequestForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r, err := h.sess.PostRequest(c.Request.Context(), form)
	if errors.Is(err, forms.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed to post request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post request"})
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Categories handles GET /v1/categories
func (h *RequestHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, models.Categories())
}

// bindCategory reads the optional ?category= filter. An empty value
// means all categories; anything else must be a known category.
func bindCategory(c *gin.Context) (models.Category, bool) {
	category := models.Category(c.Query("category"))
	if category != "" && !category.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return "", false
	}
	return category, true
}
