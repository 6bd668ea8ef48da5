package browse

import (
	"strconv"

	"github.com/lalith-99/skillswap/internal/models"
)

// RemoteListing is a listing as served by GET /api/listings.
type RemoteListing struct {
	ID        string   `json:"id"`
	OwnerID   string   `json:"ownerId"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags,omitempty"`
	Completed bool     `json:"completed,omitempty"`
}

// FromListing maps a local listing onto the API shape. The title is the
// poster's name, which is how listings are headed in the app.
func FromListing(l models.Listing) RemoteListing {
	return RemoteListing{
		ID:      strconv.Itoa(l.ID),
		OwnerID: l.OwnerID,
		Title:   l.Name,
		Tags:    l.Tags,
	}
}

// Filter keeps listings carrying tag exactly (when tag is set) and not
// owned by excludeOwner (when it is set). Both the server and the client
// apply it, so a server that ignores the query still yields the right
// list.
func Filter(in []RemoteListing, tag, excludeOwner string) []RemoteListing {
	out := make([]RemoteListing, 0, len(in))
	for _, l := range in {
		if excludeOwner != "" && l.OwnerID == excludeOwner {
			continue
		}
		if tag != "" && !contains(l.Tags, tag) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func contains(tags []string, want string) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}
