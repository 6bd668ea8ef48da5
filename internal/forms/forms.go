// Package forms holds the editable form state for profiles, listings and
// requests.
//
// Lists are typed ([]string) everywhere inside the app. The
// comma-separated text the user types is parsed only when a form is
// decoded and produced only when it is encoded for display.
package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lalith-99/skillswap/internal/models"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid form")

// List is an ordered list of short strings. It decodes from either a
// JSON array or a comma-separated JSON string.
type List []string

// Split parses "a, b,,c " into [a b c].
func Split(s string) List {
	out := List{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// String is the comma-joined display form.
func (l List) String() string {
	return strings.Join(l, ", ")
}

func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = List{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Split(s)
		return nil
	}

	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("list must be an array or a comma-separated string: %w", err)
	}
	out := List{}
	for _, it := range items {
		if t := strings.TrimSpace(it); t != "" {
			out = append(out, t)
		}
	}
	*l = out
	return nil
}

func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// ProfileForm is the body of a profile save.
type ProfileForm struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Bio    string `json:"bio"`
	Offers List   `json:"offers"`
	Wants  List   `json:"wants"`
	Tags   List   `json:"tags"`
	Notify *bool  `json:"notify"`
}

// ProfileFormFrom fills a form with the current profile, the way the
// profile tab opens pre-filled.
func ProfileFormFrom(p models.Profile) ProfileForm {
	notify := p.Notify
	return ProfileForm{
		Name:   p.Name,
		City:   p.City,
		Bio:    p.Bio,
		Offers: List(p.Offers),
		Wants:  List(p.Wants),
		Tags:   List(p.Tags),
		Notify: &notify,
	}
}

// Apply merges the form into base. Fields the form does not carry
// (coordinates, photo) are kept; Notify is kept when omitted.
func (f ProfileForm) Apply(base models.Profile) models.Profile {
	out := base
	out.Name = strings.TrimSpace(f.Name)
	out.City = strings.TrimSpace(f.City)
	out.Bio = f.Bio
	out.Offers = []string(orEmpty(f.Offers))
	out.Wants = []string(orEmpty(f.Wants))
	out.Tags = []string(orEmpty(f.Tags))
	if f.Notify != nil {
		out.Notify = *f.Notify
	}
	return out
}

// ListingForm is the body of a new listing.
type ListingForm struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Bio    string `json:"bio"`
	Offers List   `json:"offers"`
	Wants  List   `json:"wants"`
	Tags   List   `json:"tags"`
	Photo  string `json:"photo"`
}

// ListingFormFrom pre-fills a listing from the profile.
func ListingFormFrom(p models.Profile) ListingForm {
	return ListingForm{
		Name:   p.Name,
		City:   p.City,
		Bio:    p.Bio,
		Offers: List(p.Offers),
		Wants:  List(p.Wants),
		Tags:   List(p.Tags),
		Photo:  p.Photo,
	}
}

// Validate requires a name and at least one offer or want.
func (f ListingForm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if len(f.Offers) == 0 && len(f.Wants) == 0 {
		return fmt.Errorf("%w: add at least one offer or want", ErrInvalid)
	}
	return nil
}

func (f ListingForm) Listing() models.Listing {
	return models.Listing{
		Name:   strings.TrimSpace(f.Name),
		City:   strings.TrimSpace(f.City),
		Bio:    f.Bio,
		Offers: []string(orEmpty(f.Offers)),
		Wants:  []string(orEmpty(f.Wants)),
		Tags:   []string(orEmpty(f.Tags)),
		Photo:  f.Photo,
	}
}

// RequestForm is the body of a new help request.
type RequestForm struct {
	Requester string          `json:"requester"`
	City      string          `json:"city"`
	Category  models.Category `json:"category"`
	Title     string          `json:"title"`
	Details   string          `json:"details"`
	Tags      List            `json:"tags"`
}

func (f RequestForm) Validate() error {
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	if !f.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalid, f.Category)
	}
	return nil
}

func (f RequestForm) Request() models.Request {
	return models.Request{
		Requester: strings.TrimSpace(f.Requester),
		City:      strings.TrimSpace(f.City),
		Category:  f.Category,
		Title:     strings.TrimSpace(f.Title),
		Details:   f.Details,
		Tags:      []string(orEmpty(f.Tags)),
	}
}

func orEmpty(l List) List {
	if l == nil {
		return List{}
	}
	return l
}
