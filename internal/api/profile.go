package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/media"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/session"
)

type ProfileHandler struct {
	sess          *session.Session
	maxPhotoBytes int64
	logger        *zap.Logger
}

func NewProfileHandler(sess *session.Session, maxPhotoBytes int64, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{sess: sess, maxPhotoBytes: maxPhotoBytes, logger: logger}
}

type profileResponse struct {
	models.Profile
	Completeness int `json:"completeness"`
}

func newProfileResponse(p models.Profile) profileResponse {
	return profileResponse{Profile: p, Completeness: p.Completeness()}
}

// Get handles GET /v1/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, newProfileResponse(h.sess.Profile(c.Request.Context())))
}

// Save handles PUT /v1/profile
//
// Lists may be sent as arrays or as the comma-separated text typed into
// the form. Coordinates follow the city when it is a known one.
func (h *ProfileHandler) Save(c *gin.Context) {
	var form forms.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.sess.SaveProfile(c.Request.Context(), form)
	if err != nil {
		h.logger.Error("failed to save profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save profile"})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}

// UploadPhoto handles POST /v1/profile/photo (multipart, field "photo")
//
// The image is stored inline on the profile as a data URI.
func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	fh, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	if h.maxPhotoBytes > 0 && fh.Size > h.maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": media.ErrTooLarge.Error()})
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read photo"})
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	uri, err := media.DataURI(ctx, f, h.maxPhotoBytes)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	case errors.Is(err, media.ErrNotImage):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	case errors.Is(err, media.ErrEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		// Client went away mid-upload; nothing to commit.
		h.logger.Debug("photo conversion abandoned", zap.Error(err))
		c.Status(http.StatusRequestTimeout)
		return
	}

	p, err := h.sess.SetPhoto(ctx, uri)
	if err != nil {
		h.logger.Error("failed to save photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save photo"})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}

// DeletePhoto handles DELETE /v1/profile/photo
func (h *ProfileHandler) DeletePhoto(c *gin.Context) {
	p, err := h.sess.SetPhoto(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("failed to remove photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove photo"})
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(p))
}
