package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/session"
	"github.com/lalith-99/skillswap/internal/view"
)

type ViewHandler struct {
	sess   *session.Session
	logger *zap.Logger
}

func NewViewHandler(sess *session.Session, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{sess: sess, logger: logger}
}

// Get handles GET /v1/views/:view
//
// Returns everything one tab needs in a single payload. The browse tab
// takes the same query as /v1/listings; the requests tab takes category.
func (h *ViewHandler) Get(c *gin.Context) {
	kind, err := view.Parse(c.Param("view"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var params view.Params
	switch kind {
	case view.Browse:
		criteria, ok := bindCriteria(c)
		if !ok {
			return
		}
		params.Criteria = criteria
	case view.Requests:
		category, ok := bindCategory(c)
		if !ok {
			return
		}
		params.Category = category
	}

	payload, err := view.Build(c.Request.Context(), kind, h.sess, params)
	if err != nil {
		h.logger.Error("failed to build view", zap.Stringer("view", kind), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build view"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": kind.String(), "data": payload})
}
