package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/match"
	"github.com/lalith-99/skillswap/internal/middleware"
	"github.com/lalith-99/skillswap/internal/session"
)

type ListingHandler struct {
	sess   *session.Session
	logger *zap.Logger
}

func NewListingHandler(sess *session.Session, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{sess: sess, logger: logger}
}

// Browse handles GET /v1/listings?q=&tag=&nearby=&radius=
//
// radius defaults to match.DefaultRadiusKm and is clamped to
// [0, match.MaxRadiusKm].
func (h *ListingHandler) Browse(c *gin.Context) {
	criteria, ok := bindCriteria(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sess.Browse(c.Request.Context(), criteria))
}

// Tags handles GET /v1/tags
func (h *ListingHandler) Tags(c *gin.Context) {
	c.JSON(http.StatusOK, h.sess.Tags(c.Request.Context()))
}

// Create handles POST /v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var form forms.ListingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	l, err := h.sess.PostListing(c.Request.Context(), form, middleware.GetUserID(c))
	if errors.Is(err, forms.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("failed to post listing", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post listing"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

// Swap handles POST /v1/listings/:id/swap
//
// Sends the standard swap proposal to the listing's owner. A scripted
// reply lands in the inbox shortly after.
func (h *ListingHandler) Swap(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing ID"})
		return
	}

	m, err := h.sess.ProposeSwap(c.Request.Context(), id)
	if err != nil {
		writeMessageError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func bindCriteria(c *gin.Context) (match.Criteria, bool) {
	criteria := match.Criteria{RadiusKm: match.DefaultRadiusKm}
	if err := c.ShouldBindQuery(&criteria); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return match.Criteria{}, false
	}
	criteria.RadiusKm = match.ClampRadius(criteria.RadiusKm)
	return criteria, true
}
