package models

import (
	"time"

	"github.com/lalith-99/skillswap/internal/geo"
)

// Profile is the current user. There is exactly one per session; it is
// replaced wholesale on save and never deleted.
//
// Lat/Lng are pointers so "no coordinates" survives a JSON round trip
// instead of collapsing to (0, 0), which is a real place.
type Profile struct {
	Name   string   `json:"name"`
	City   string   `json:"city"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	Offers []string `json:"offers"`
	Wants  []string `json:"wants"`
	Tags   []string `json:"tags"`
	Bio    string   `json:"bio"`
	Photo  string   `json:"photo,omitempty"`
	Notify bool     `json:"notify"`
}

// Point returns the profile location, or nil if it has none.
func (p Profile) Point() *geo.Point {
	return geo.PointOf(p.Lat, p.Lng)
}

// SetPoint copies pt into Lat/Lng. A nil pt clears both.
func (p *Profile) SetPoint(pt *geo.Point) {
	p.Lat, p.Lng = coords(pt)
}

// Normalize replaces nil lists with empty ones so stored records with
// missing arrays read back as [] rather than null.
func (p *Profile) Normalize() {
	p.Offers = orEmpty(p.Offers)
	p.Wants = orEmpty(p.Wants)
	p.Tags = orEmpty(p.Tags)
}

// Completeness is the share of filled-in profile fields, 0..100.
// Purely cosmetic; nothing is gated on it.
func (p Profile) Completeness() int {
	filled := 0
	fields := []bool{
		p.Name != "",
		p.City != "",
		p.Bio != "",
		len(p.Offers) > 0,
		len(p.Wants) > 0,
		len(p.Tags) > 0,
		p.Photo != "",
	}
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// Listing is a published offer/want record.
//
// ID is assigned by the repository (max existing + 1) and is unique
// within the collection. OwnerID is the identity that posted it, when
// one was known.
type Listing struct {
	ID      int      `json:"id"`
	OwnerID string   `json:"ownerId,omitempty"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Bio     string   `json:"bio"`
	Offers  []string `json:"offers"`
	Wants   []string `json:"wants"`
	Tags    []string `json:"tags"`
	Photo   string   `json:"photo,omitempty"`
}

func (l Listing) Point() *geo.Point {
	return geo.PointOf(l.Lat, l.Lng)
}

func (l *Listing) SetPoint(pt *geo.Point) {
	l.Lat, l.Lng = coords(pt)
}

func (l *Listing) Normalize() {
	l.Offers = orEmpty(l.Offers)
	l.Wants = orEmpty(l.Wants)
	l.Tags = orEmpty(l.Tags)
}

// RequestIDFloor is the id floor for help requests: the first request
// gets RequestIDFloor+1. Listing and request ids are disjoint by
// convention only.
const RequestIDFloor = 100

// Request is a help-wanted post: someone wants to learn a skill.
type Request struct {
	ID        int       `json:"id"`
	Requester string    `json:"requester"`
	City      string    `json:"city"`
	Category  Category  `json:"category"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Request) Normalize() {
	r.Tags = orEmpty(r.Tags)
}

// Category is one of a fixed set of request categories.
type Category string

const (
	CategoryTech      Category = "tech"
	CategoryArts      Category = "arts-crafts"
	CategoryMusic     Category = "music"
	CategoryCooking   Category = "cooking"
	CategoryLanguages Category = "languages"
	CategoryFitness   Category = "fitness"
	CategoryHome      Category = "home-diy"
	CategoryOutdoors  Category = "outdoors"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{
		CategoryTech,
		CategoryArts,
		CategoryMusic,
		CategoryCooking,
		CategoryLanguages,
		CategoryFitness,
		CategoryHome,
		CategoryOutdoors,
		CategoryOther,
	}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MessageStatus says which side of the conversation a message is from.
type MessageStatus string

const (
	StatusSent     MessageStatus = "sent"
	StatusReceived MessageStatus = "received"
)

// Message is one entry in the inbox log. Messages are immutable and the
// log only grows.
//
// Summary is the thread key, computed once when the message is created.
// It is never recomputed, so renaming a participant later does not move
// old messages into a different thread.
type Message struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	ListingID int           `json:"listingId"`
	CreatedAt time.Time     `json:"createdAt"`
	Message   string        `json:"message"`
	Summary   string        `json:"summary"`
	Status    MessageStatus `json:"status"`
}

func coords(pt *geo.Point) (*float64, *float64) {
	if pt == nil {
		return nil, nil
	}
	lat, lng := pt.Lat, pt.Lng
	return &lat, &lng
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
