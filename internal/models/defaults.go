package models

import (
	"time"

	"github.com/lalith-99/skillswap/internal/geo"
)

// The Default* functions return the values a fresh install starts with.
// They are also the fallback when a stored value is missing or corrupt,
// so each call returns a new copy the caller may mutate.

func DefaultProfile() Profile {
	p := Profile{
		Name:   "You",
		City:   "Saskatoon, SK",
		Offers: []string{"computer skills"},
		Wants:  []string{"pottery", "photography"},
		Tags:   []string{"tech", "art"},
		Bio:    "Testing features",
	}
	p.SetPoint(&geo.Point{Lat: 52.1332, Lng: -106.6700})
	return p
}

func DefaultListings() []Listing {
	seed := []Listing{
		{
			ID:     2,
			Name:   "Maya Lopez",
			City:   "Saskatoon, SK",
			Bio:    "Ceramicist, patient teacher, tea hoarder.",
			Offers: []string{"Wheel-thrown pottery", "Glazing 101"},
			Wants:  []string{"Basic web dev"},
			Tags:   []string{"art", "crafts", "ceramics"},
		},
		{
			ID:     3,
			Name:   "Devon Hart",
			City:   "Winnipeg, MB",
			Bio:    "Ex-barista & acoustics nerd.",
			Offers: []string{"Latte art", "Build a sound-dampening panel"},
			Wants:  []string{"Drone flying", "Public speaking"},
			Tags:   []string{"coffee", "diy", "audio"},
		},
		{
			ID:     4,
			Name:   "Asha K.",
			City:   "Calgary, AB",
			Bio:    "Birdwatcher who whistles back.",
			Offers: []string{"Bird ID", "Whistle like a bird"},
			Wants:  []string{"Sourdough rehab"},
			Tags:   []string{"nature", "food"},
		},
	}
	for i := range seed {
		if pt, ok := geo.CityCoords(seed[i].City); ok {
			seed[i].SetPoint(pt)
		}
	}
	return seed
}

func DefaultRequests() []Request {
	created := time.Date(2025, time.September, 1, 17, 0, 0, 0, time.UTC)
	return []Request{
		{
			ID:        102,
			Requester: "Jordan P.",
			City:      "Regina, SK",
			Category:  CategoryMusic,
			Title:     "Learn basic guitar chords",
			Details:   "Have a guitar, no idea what to do with it. Evenings work best.",
			Tags:      []string{"music", "guitar"},
			CreatedAt: created.Add(2 * time.Hour),
		},
		{
			ID:        101,
			Requester: "Sam R.",
			City:      "Saskatoon, SK",
			Category:  CategoryCooking,
			Title:     "Sourdough starter rescue",
			Details:   "My starter smells like nail polish. Help?",
			Tags:      []string{"food", "baking"},
			CreatedAt: created,
		},
	}
}

func DefaultInbox() []Message {
	return []Message{}
}
