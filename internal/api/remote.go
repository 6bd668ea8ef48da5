package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lalith-99/skillswap/internal/browse"
	"github.com/lalith-99/skillswap/internal/session"
)

type RemoteListingHandler struct {
	sess *session.Session
}

func NewRemoteListingHandler(sess *session.Session) *RemoteListingHandler {
	return &RemoteListingHandler{sess: sess}
}

// List handles GET /api/listings?tag=&ownerId_ne=
//
// The listing browser's API, served from the local listing collection.
func (h *RemoteListingHandler) List(c *gin.Context) {
	listings := h.sess.Listings(c.Request.Context())
	out := make([]browse.RemoteListing, 0, len(listings))
	for _, l := range listings {
		out = append(out, browse.FromListing(l))
	}
	c.JSON(http.StatusOK, browse.Filter(out, c.Query("tag"), c.Query("ownerId_ne")))
}
