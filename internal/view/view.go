// Package view assembles the payload for each app tab.
package view

import (
	"context"
	"fmt"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/geo"
	"github.com/lalith-99/skillswap/internal/match"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/threads"
)

// Kind is one of the app's tabs.
type Kind int

const (
	Browse Kind = iota
	Post
	Requests
	Inbox
	Profile
)

var kindNames = [...]string{
	Browse:   "browse",
	Post:     "post",
	Requests: "requests",
	Inbox:    "inbox",
	Profile:  "profile",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every tab in display order.
func Kinds() []Kind {
	return []Kind{Browse, Post, Requests, Inbox, Profile}
}

// Parse maps a tab name to its Kind.
func Parse(s string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q", s)
}

// Source is the state a view reads from. *session.Session implements it.
type Source interface {
	Profile(ctx context.Context) models.Profile
	Browse(ctx context.Context, c match.Criteria) []match.RankedListing
	Tags(ctx context.Context) []string
	Requests(ctx context.Context, category models.Category) []models.Request
	Threads(ctx context.Context) []threads.Thread
}

// Params carries the per-tab inputs taken from the query string.
type Params struct {
	Criteria match.Criteria
	Category models.Category
}

type BrowsePayload struct {
	Criteria match.Criteria        `json:"criteria"`
	Tags     []string              `json:"tags"`
	Listings []match.RankedListing `json:"listings"`
}

type PostPayload struct {
	Form   forms.ListingForm `json:"form"`
	Cities []string          `json:"cities"`
}

type RequestsPayload struct {
	Category   models.Category   `json:"category,omitempty"`
	Categories []models.Category `json:"categories"`
	Requests   []models.Request  `json:"requests"`
}

type InboxPayload struct {
	Threads []threads.Thread `json:"threads"`
}

type ProfilePayload struct {
	Form         forms.ProfileForm `json:"form"`
	Photo        string            `json:"photo,omitempty"`
	Completeness int               `json:"completeness"`
	Cities       []string          `json:"cities"`
}

// Build returns the payload for kind.
func Build(ctx context.Context, kind Kind, src Source, p Params) (any, error) {
	switch kind {
	case Browse:
		c := p.Criteria
		c.RadiusKm = match.ClampRadius(c.RadiusKm)
		return BrowsePayload{
			Criteria: c,
			Tags:     src.Tags(ctx),
			Listings: src.Browse(ctx, c),
		}, nil
	case Post:
		return PostPayload{
			Form:   forms.ListingFormFrom(src.Profile(ctx)),
			Cities: geo.Cities(),
		}, nil
	case Requests:
		return RequestsPayload{
			Category:   p.Category,
			Categories: models.Categories(),
			Requests:   src.Requests(ctx, p.Category),
		}, nil
	case Inbox:
		return InboxPayload{Threads: src.Threads(ctx)}, nil
	case Profile:
		profile := src.Profile(ctx)
		return ProfilePayload{
			Form:         forms.ProfileFormFrom(profile),
			Photo:        profile.Photo,
			Completeness: profile.Completeness(),
			Cities:       geo.Cities(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown view %s", kind)
	}
}
