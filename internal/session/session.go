// Package session owns the app state for the single local user.
//
// Every operation runs under one mutex, to completion, before the next
// starts. The only deferred work is the scripted reply to a sent message,
// which becomes a no-op once the session is closed.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/geo"
	"github.com/lalith-99/skillswap/internal/match"
	"github.com/lalith-99/skillswap/internal/media"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/notify"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/lalith-99/skillswap/internal/threads"
)

const (
	DefaultReplyDelay = 1200 * time.Millisecond
	CannedReply       = "Sounds great! When are you free to swap?"
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrNoRecipient     = errors.New("message has no recipient")
	ErrListingNotFound = errors.New("listing not found")
	ErrClosed          = errors.New("session closed")
)

// Notifier is the part of notify.Gateway the session needs.
type Notifier interface {
	RequestPermission(ctx context.Context) bool
	Notify(ctx context.Context, n notify.Notification)
}

// Observer is told about every state change, e.g. to count it.
type Observer interface {
	ListingPosted()
	RequestPosted()
	MessageStored(status models.MessageStatus)
}

type nopObserver struct{}

func (nopObserver) ListingPosted()                     {}
func (nopObserver) RequestPosted()                     {}
func (nopObserver) MessageStored(models.MessageStatus) {}

// Repos groups the four state collections.
type Repos struct {
	Profiles repository.ProfileRepository
	Listings repository.ListingRepository
	Requests repository.RequestRepository
	Messages repository.MessageRepository
}

type Option func(*Session)

func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) { s.replyDelay = d }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithMaxPhotoBytes caps listing photos. Zero means media.DefaultMaxBytes.
func WithMaxPhotoBytes(n int64) Option {
	return func(s *Session) { s.maxPhotoBytes = n }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type Session struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc

	repos    Repos
	notifier Notifier
	logger   *zap.Logger
	observer Observer

	replyDelay    time.Duration
	maxPhotoBytes int64
	now           func() time.Time

	replies sync.WaitGroup
	timers  map[string]*time.Timer
}

func New(repos Repos, notifier Notifier, logger *zap.Logger, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ctx:        ctx,
		cancel:     cancel,
		repos:      repos,
		notifier:   notifier,
		logger:     logger,
		observer:   nopObserver{},
		replyDelay: DefaultReplyDelay,
		now:        time.Now,
		timers:     make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close cancels every pending reply and waits for any reply already
// running to finish. Safe to call more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.cancel()
	for id, t := range s.timers {
		if t.Stop() {
			s.replies.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()
	s.replies.Wait()
}

func (s *Session) Profile(ctx context.Context) models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos.Profiles.Get(ctx)
}

// SaveProfile merges the form into the current profile. A city from the
// known-city table also moves the coordinates; any other city keeps the
// previous ones.
func (s *Session) SaveProfile(ctx context.Context, f forms.ProfileForm) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := f.Apply(s.repos.Profiles.Get(ctx))
	if pt, ok := geo.CityCoords(next.City); ok {
		next.SetPoint(pt)
	}
	if err := s.repos.Profiles.Save(ctx, next); err != nil {
		return models.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("profile saved", zap.String("name", next.Name), zap.String("city", next.City))
	return s.repos.Profiles.Get(ctx), nil
}

// SetPhoto stores an already-encoded data URI as the profile photo. An
// empty string removes the photo.
func (s *Session) SetPhoto(ctx context.Context, dataURI string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	p := s.repos.Profiles.Get(ctx)
	p.Photo = dataURI
	if err := s.repos.Profiles.Save(ctx, p); err != nil {
		return models.Profile{}, fmt.Errorf("save photo: %w", err)
	}
	return p, nil
}

func (s *Session) Completeness(ctx context.Context) int {
	return s.Profile(ctx).Completeness()
}

// Browse filters and ranks listings for the current profile. The radius
// is clamped to the supported range.
func (s *Session) Browse(ctx context.Context, c match.Criteria) []match.RankedListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.RadiusKm = match.ClampRadius(c.RadiusKm)
	return match.FilterAndRank(s.repos.Profiles.Get(ctx), s.repos.Listings.List(ctx), c)
}

// Tags lists every tag in use, in first-seen order.
func (s *Session) Tags(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return match.Tags(s.repos.Listings.List(ctx))
}

func (s *Session) Listings(ctx context.Context) []models.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos.Listings.List(ctx)
}

// PostListing validates and publishes a listing. ownerID may be empty.
func (s *Session) PostListing(ctx context.Context, f forms.ListingForm, ownerID string) (models.Listing, error) {
	if err := f.Validate(); err != nil {
		return models.Listing{}, err
	}
	if f.Photo != "" {
		if err := media.Check(f.Photo, s.maxPhotoBytes); err != nil {
			return models.Listing{}, fmt.Errorf("%w: %w", forms.ErrInvalid, err)
		}
	}

	l := f.Listing()
	l.OwnerID = ownerID
	if pt, ok := geo.CityCoords(l.City); ok {
		l.SetPoint(pt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.repos.Listings.Add(ctx, l)
	if err != nil {
		return models.Listing{}, fmt.Errorf("post listing: %w", err)
	}
	s.observer.ListingPosted()
	s.logger.Info("listing posted", zap.Int("listing_id", saved.ID), zap.String("name", saved.Name))
	return saved, nil
}

// Requests lists help requests, newest first. An empty category means
// all of them.
func (s *Session) Requests(ctx context.Context, category models.Category) []models.Request {
	s.mu.Lock()
	all := s.repos.Requests.List(ctx)
	s.mu.Unlock()

	if category == "" {
		return all
	}
	out := make([]models.Request, 0, len(all))
	for _, r := range all {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// PostRequest validates and publishes a help request. Requester and city
// default to the profile's.
func (s *Session) PostRequest(ctx context.Context, f forms.RequestForm) (models.Request, error) {
	if err := f.Validate(); err != nil {
		return models.Request{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := f.Request()
	p := s.repos.Profiles.Get(ctx)
	if r.Requester == "" {
		r.Requester = p.Name
	}
	if r.City == "" {
		r.City = p.City
	}
	r.CreatedAt = s.now().UTC()

	saved, err := s.repos.Requests.Add(ctx, r)
	if err != nil {
		return models.Request{}, fmt.Errorf("post request: %w", err)
	}
	s.observer.RequestPosted()
	s.logger.Info("request posted", zap.Int("request_id", saved.ID), zap.String("category", string(saved.Category)))
	return saved, nil
}

// Inbox is the raw message log, newest first.
func (s *Session) Inbox(ctx context.Context) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repos.Messages.List(ctx)
}

func (s *Session) Threads(ctx context.Context) []threads.Thread {
	return threads.Build(s.Inbox(ctx))
}

// Target names who a message goes to: a listing by id, or a raw name
// when ListingID is zero.
type Target struct {
	ListingID int    `json:"listingId"`
	Name      string `json:"to"`
}

// SendMessage appends a sent message to the inbox. With simulateReply a
// canned reply from the recipient follows after the reply delay.
func (s *Session) SendMessage(ctx context.Context, to Target, text string, simulateReply bool) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return models.Message{}, ErrClosed
	}

	name := strings.TrimSpace(to.Name)
	if to.ListingID != 0 {
		l, ok := findListing(s.repos.Listings.List(ctx), to.ListingID)
		if !ok {
			return models.Message{}, fmt.Errorf("%w: %d", ErrListingNotFound, to.ListingID)
		}
		name = l.Name
	}
	if name == "" {
		return models.Message{}, ErrNoRecipient
	}

	me := s.repos.Profiles.Get(ctx).Name
	m := models.Message{
		ID:        newMessageID(),
		From:      me,
		To:        name,
		ListingID: to.ListingID,
		CreatedAt: s.now().UTC(),
		Message:   text,
		Summary:   threads.Key(me, name),
		Status:    models.StatusSent,
	}
	if err := s.repos.Messages.Append(ctx, m); err != nil {
		return models.Message{}, fmt.Errorf("send message: %w", err)
	}
	s.observer.MessageStored(m.Status)
	s.logger.Info("message sent",
		zap.String("message_id", m.ID),
		zap.String("thread", m.Summary),
	)

	if simulateReply {
		s.scheduleReply(m)
	}
	return m, nil
}

// ProposeSwap sends the standard opening line to a listing's owner and
// asks for a reply.
func (s *Session) ProposeSwap(ctx context.Context, listingID int) (models.Message, error) {
	s.mu.Lock()
	l, ok := findListing(s.repos.Listings.List(ctx), listingID)
	s.mu.Unlock()
	if !ok {
		return models.Message{}, fmt.Errorf("%w: %d", ErrListingNotFound, listingID)
	}

	text := fmt.Sprintf("Hey %s! I’m interested in swapping skills.", l.Name)
	return s.SendMessage(ctx, Target{ListingID: listingID}, text, true)
}

// RequestNotifications asks the notifier for permission. A grant turns
// on the profile's notify preference; a denial leaves it as it was.
func (s *Session) RequestNotifications(ctx context.Context) (bool, error) {
	granted := s.notifier.RequestPermission(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !granted {
		return false, nil
	}
	p := s.repos.Profiles.Get(ctx)
	if p.Notify {
		return true, nil
	}
	p.Notify = true
	if err := s.repos.Profiles.Save(ctx, p); err != nil {
		return true, fmt.Errorf("save notify preference: %w", err)
	}
	return true, nil
}

// scheduleReply must be called with s.mu held.
func (s *Session) scheduleReply(sent models.Message) {
	s.replies.Add(1)
	s.timers[sent.ID] = time.AfterFunc(s.replyDelay, func() {
		defer s.replies.Done()
		s.deliverReply(sent)
	})
}

func (s *Session) deliverReply(sent models.Message) {
	s.mu.Lock()
	delete(s.timers, sent.ID)
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}

	reply := models.Message{
		ID:        newMessageID(),
		From:      sent.To,
		To:        sent.From,
		ListingID: sent.ListingID,
		CreatedAt: s.now().UTC(),
		Message:   CannedReply,
		Summary:   sent.Summary,
		Status:    models.StatusReceived,
	}
	err := s.repos.Messages.Append(s.ctx, reply)
	wantsNotify := s.repos.Profiles.Get(s.ctx).Notify
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to store reply", zap.String("thread", sent.Summary), zap.Error(err))
		return
	}
	s.observer.MessageStored(reply.Status)

	if wantsNotify {
		s.notifier.Notify(s.ctx, notify.Notification{
			Title: "New message from " + reply.From,
			Body:  reply.Message,
		})
	}
}

func findListing(listings []models.Listing, id int) (models.Listing, bool) {
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	return models.Listing{}, false
}

// newMessageID returns a time-ordered UUID.
func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
