package repository

import "github.com/lalith-99/skillswap/internal/models"

// NextID returns max(floor, ids...) + 1.
//
// Safe only with a single writer: two writers reading the same max would
// hand out the same id. The app has exactly one local user.
func NextID(floor int, ids ...int) int {
	max := floor
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// AddListing returns a new collection with l prepended under the next
// free id (floor 0, so an empty collection starts at 1). coll is not
// modified.
func AddListing(coll []models.Listing, l models.Listing) ([]models.Listing, int) {
	ids := make([]int, len(coll))
	for i, existing := range coll {
		ids[i] = existing.ID
	}
	l.ID = NextID(0, ids...)
	return prepend(coll, l), l.ID
}

// AddRequest is AddListing for help requests, with ids starting above
// models.RequestIDFloor.
func AddRequest(coll []models.Request, r models.Request) ([]models.Request, int) {
	ids := make([]int, len(coll))
	for i, existing := range coll {
		ids[i] = existing.ID
	}
	r.ID = NextID(models.RequestIDFloor, ids...)
	return prepend(coll, r), r.ID
}

func prepend[T any](coll []T, item T) []T {
	out := make([]T, 0, len(coll)+1)
	out = append(out, item)
	return append(out, coll...)
}
