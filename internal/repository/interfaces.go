package repository

import (
	"context"

	"github.com/lalith-99/skillswap/internal/models"
)

// Every method takes ctx because the backing store may be remote
// (Redis, Postgres) even though the app itself is local.
//
// Implementations are not safe for concurrent use. The session
// serialises all calls, the same way the UI handles one event at a time.

// ProfileRepository holds the single user profile.
type ProfileRepository interface {
	// Get returns the current profile. Never fails: a missing or corrupt
	// stored profile reads as the default.
	Get(ctx context.Context) models.Profile

	// Save replaces the profile and persists it.
	Save(ctx context.Context, p models.Profile) error
}

// ListingRepository is the published listing collection, newest first.
type ListingRepository interface {
	List(ctx context.Context) []models.Listing

	// Add assigns the next id, prepends the listing and persists the
	// collection. There is no update or delete.
	Add(ctx context.Context, l models.Listing) (models.Listing, error)
}

// RequestRepository is the help-request collection, newest first.
type RequestRepository interface {
	List(ctx context.Context) []models.Request
	Add(ctx context.Context, r models.Request) (models.Request, error)
}

// MessageRepository is the append-only inbox log, newest first.
type MessageRepository interface {
	List(ctx context.Context) []models.Message
	Append(ctx context.Context, m models.Message) error
}
