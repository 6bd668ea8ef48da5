package match

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/lalith-99/skillswap/internal/geo"
	"github.com/lalith-99/skillswap/internal/models"
)

const (
	DefaultRadiusKm = 150
	MaxRadiusKm     = 300
)

// Criteria is the live browse filter.
type Criteria struct {
	Query    string  `form:"q" json:"q"`
	Tag      string  `form:"tag" json:"tag"`
	Nearby   bool    `form:"nearby" json:"nearby"`
	RadiusKm float64 `form:"radius" json:"radiusKm"`
}

// RankedListing is a listing enriched with its distance from the
// profile. DistanceKm is nil when either side has no coordinates, which
// the UI shows as "distance unknown" rather than "very far".
type RankedListing struct {
	models.Listing
	DistanceKm *float64 `json:"distanceKm"`
}

// FilterAndRank applies, in order: distance enrichment, text query, tag,
// nearby radius, and (nearby only) ascending distance sort. Without the
// nearby filter the input order is preserved.
//
// It never fails and never mutates its inputs.
func FilterAndRank(profile models.Profile, listings []models.Listing, c Criteria) []RankedListing {
	origin := profile.Point()
	query := strings.ToLower(c.Query)
	tag := strings.ToLower(c.Tag)

	out := make([]RankedListing, 0, len(listings))
	for _, l := range listings {
		r := RankedListing{Listing: l}
		if d := geo.DistanceKm(origin, l.Point()); !geo.Unknown(d) {
			r.DistanceKm = &d
		}

		if query != "" && !strings.Contains(searchText(l), query) {
			continue
		}
		if tag != "" && !hasTag(l.Tags, tag) {
			continue
		}
		if c.Nearby && (r.DistanceKm == nil || *r.DistanceKm > c.RadiusKm) {
			continue
		}
		out = append(out, r)
	}

	if c.Nearby {
		sort.SliceStable(out, func(i, j int) bool {
			return distanceOrInf(out[i]) < distanceOrInf(out[j])
		})
	}
	return out
}

// Tags returns every distinct tag across listings in first-seen order.
func Tags(listings []models.Listing) []string {
	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, l := range listings {
		for _, t := range l.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags
}

// ClampRadius keeps a user-supplied radius within [0, MaxRadiusKm].
// Non-numbers fall back to the default.
func ClampRadius(r float64) float64 {
	switch {
	case math.IsNaN(r):
		return DefaultRadiusKm
	case r < 0:
		return 0
	case r > MaxRadiusKm:
		return MaxRadiusKm
	}
	return r
}

// searchDoc fixes the field order of the serialized record the text
// query is matched against.
type searchDoc struct {
	Name   string   `json:"name"`
	City   string   `json:"city"`
	Bio    string   `json:"bio"`
	Offers []string `json:"offers"`
	Wants  []string `json:"wants"`
	Tags   []string `json:"tags"`
}

// searchText is the lower-cased JSON form of the searchable fields. The
// query must appear in it as one contiguous substring.
func searchText(l models.Listing) string {
	doc := searchDoc{
		Name:   l.Name,
		City:   l.City,
		Bio:    l.Bio,
		Offers: orEmpty(l.Offers),
		Wants:  orEmpty(l.Wants),
		Tags:   orEmpty(l.Tags),
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		// Strings and string slices always encode.
		return ""
	}
	return strings.ToLower(strings.TrimSuffix(buf.String(), "\n"))
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.ToLower(t) == want {
			return true
		}
	}
	return false
}

func distanceOrInf(r RankedListing) float64 {
	if r.DistanceKm == nil {
		return math.Inf(1)
	}
	return *r.DistanceKm
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
