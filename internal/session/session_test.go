package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/forms"
	"github.com/lalith-99/skillswap/internal/match"
	"github.com/lalith-99/skillswap/internal/media"
	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/notify"
	"github.com/lalith-99/skillswap/internal/repository/kvstore"
	"github.com/lalith-99/skillswap/internal/store"
)

type recordingNotifier struct {
	mu      sync.Mutex
	granted bool
	sent    []notify.Notification
}

func (r *recordingNotifier) RequestPermission(context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.granted
}

func (r *recordingNotifier) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type countingObserver struct {
	mu       sync.Mutex
	listings int
	requests int
	messages map[models.MessageStatus]int
}

func (c *countingObserver) ListingPosted() { c.mu.Lock(); c.listings++; c.mu.Unlock() }
func (c *countingObserver) RequestPosted() { c.mu.Lock(); c.requests++; c.mu.Unlock() }
func (c *countingObserver) MessageStored(s models.MessageStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.messages == nil {
		c.messages = make(map[models.MessageStatus]int)
	}
	c.messages[s]++
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *recordingNotifier) {
	t.Helper()
	ctx := context.Background()
	kv := store.NewMemoryKV()
	log := zap.NewNop()
	repos := Repos{
		Profiles: kvstore.NewProfileStore(ctx, kv, log),
		Listings: kvstore.NewListingStore(ctx, kv, log),
		Requests: kvstore.NewRequestStore(ctx, kv, log),
		Messages: kvstore.NewMessageStore(ctx, kv, log),
	}
	n := &recordingNotifier{}
	s := New(repos, n, log, opts...)
	t.Cleanup(s.Close)
	return s, n
}

func TestSendMessage_SimulatedReply(t *testing.T) {
	s, n := newTestSession(t, WithReplyDelay(10*time.Millisecond))
	ctx := context.Background()

	sent, err := s.SendMessage(ctx, Target{ListingID: 2}, "Hi Maya", true)
	require.NoError(t, err)
	assert.Equal(t, "You", sent.From)
	assert.Equal(t, "Maya Lopez", sent.To)
	assert.Equal(t, models.StatusSent, sent.Status)
	assert.Equal(t, "Maya Lopez ⇄ You", sent.Summary)

	require.Eventually(t, func() bool { return len(s.Inbox(ctx)) == 2 }, time.Second, 5*time.Millisecond)

	inbox := s.Inbox(ctx)
	reply := inbox[0]
	assert.Equal(t, models.StatusReceived, reply.Status)
	assert.Equal(t, "Maya Lopez", reply.From)
	assert.Equal(t, "You", reply.To)
	assert.Equal(t, CannedReply, reply.Message)
	assert.Equal(t, sent.Summary, reply.Summary)
	assert.NotEqual(t, sent.ID, reply.ID)

	// Default profile has notify off.
	assert.Zero(t, n.count())

	th := s.Threads(ctx)
	require.Len(t, th, 1)
	assert.Len(t, th[0].Messages, 2)
}

func TestSendMessage_ReplyNotifiesWhenEnabled(t *testing.T) {
	s, n := newTestSession(t, WithReplyDelay(5*time.Millisecond))
	ctx := context.Background()
	n.granted = true

	granted, err := s.RequestNotifications(ctx)
	require.NoError(t, err)
	require.True(t, granted)
	require.True(t, s.Profile(ctx).Notify)

	_, err = s.SendMessage(ctx, Target{Name: "Asha K."}, "hello", true)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return n.count() == 1 }, time.Second, 5*time.Millisecond)
	n.mu.Lock()
	assert.Equal(t, "New message from Asha K.", n.sent[0].Title)
	assert.Equal(t, CannedReply, n.sent[0].Body)
	n.mu.Unlock()
}

func TestRequestNotifications_DeniedKeepsPreference(t *testing.T) {
	s, _ := newTestSession(t)
	granted, err := s.RequestNotifications(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
	assert.False(t, s.Profile(context.Background()).Notify)
}

func TestClose_DropsPendingReply(t *testing.T) {
	s, _ := newTestSession(t, WithReplyDelay(time.Hour))
	ctx := context.Background()

	_, err := s.SendMessage(ctx, Target{ListingID: 3}, "Hi Devon", true)
	require.NoError(t, err)

	s.Close()
	assert.Len(t, s.Inbox(ctx), 1)

	_, err = s.SendMessage(ctx, Target{ListingID: 3}, "again", false)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSendMessage_Validation(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.SendMessage(ctx, Target{ListingID: 2}, "   ", false)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = s.SendMessage(ctx, Target{ListingID: 999}, "hi", false)
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = s.SendMessage(ctx, Target{}, "hi", false)
	assert.ErrorIs(t, err, ErrNoRecipient)

	assert.Empty(t, s.Inbox(ctx))
}

func TestProposeSwap(t *testing.T) {
	s, _ := newTestSession(t, WithReplyDelay(time.Hour))
	ctx := context.Background()

	m, err := s.ProposeSwap(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Hey Asha K.! I’m interested in swapping skills.", m.Message)
	assert.Equal(t, 4, m.ListingID)

	_, err = s.ProposeSwap(ctx, 42)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestPostListing(t *testing.T) {
	obs := &countingObserver{}
	s, _ := newTestSession(t, WithObserver(obs))
	ctx := context.Background()

	_, err := s.PostListing(ctx, forms.ListingForm{Name: "Nobody"}, "")
	assert.Error(t, err)

	l, err := s.PostListing(ctx, forms.ListingForm{
		Name:   "Riley",
		City:   "Regina, SK",
		Offers: forms.List{"Bike repair"},
	}, "user-7")
	require.NoError(t, err)
	assert.Equal(t, 5, l.ID)
	assert.Equal(t, "user-7", l.OwnerID)
	require.NotNil(t, l.Point())
	assert.InDelta(t, 50.4452, l.Point().Lat, 1e-9)

	other, err := s.PostListing(ctx, forms.ListingForm{Name: "Kim", City: "Atlantis", Wants: forms.List{"Gills"}}, "")
	require.NoError(t, err)
	assert.Nil(t, other.Point())

	listings := s.Listings(ctx)
	assert.Equal(t, other.ID, listings[0].ID)
	assert.Equal(t, 2, obs.listings)
}

func TestPostListing_PhotoMustBeImage(t *testing.T) {
	s, _ := newTestSession(t, WithMaxPhotoBytes(64))
	ctx := context.Background()
	form := forms.ListingForm{Name: "Riley", Offers: forms.List{"Bike repair"}}

	form.Photo = "https://example.com/riley.png"
	_, err := s.PostListing(ctx, form, "")
	assert.ErrorIs(t, err, forms.ErrInvalid)
	assert.ErrorIs(t, err, media.ErrMalformed)

	form.Photo = "data:image/png;base64,aGVsbG8gd29ybGQ="
	_, err = s.PostListing(ctx, form, "")
	assert.ErrorIs(t, err, media.ErrNotImage)

	// GIF89a header, sniffed as image/gif.
	form.Photo = "data:image/gif;base64,R0lGODlhAQABAAAAACw="
	l, err := s.PostListing(ctx, form, "")
	require.NoError(t, err)
	assert.Equal(t, form.Photo, l.Photo)
	assert.Len(t, s.Listings(ctx), 4)
}

func TestPostRequest(t *testing.T) {
	fixed := time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC)
	s, _ := newTestSession(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	_, err := s.PostRequest(ctx, forms.RequestForm{Title: "x", Category: "astrology"})
	assert.Error(t, err)

	r, err := s.PostRequest(ctx, forms.RequestForm{Title: "Learn to knit", Category: models.CategoryArts})
	require.NoError(t, err)
	assert.Equal(t, 103, r.ID)
	assert.Equal(t, "You", r.Requester)
	assert.Equal(t, "Saskatoon, SK", r.City)
	assert.Equal(t, fixed, r.CreatedAt)

	assert.Len(t, s.Requests(ctx, ""), 3)
	arts := s.Requests(ctx, models.CategoryArts)
	require.Len(t, arts, 1)
	assert.Equal(t, 103, arts[0].ID)
	assert.Empty(t, s.Requests(ctx, models.CategoryFitness))
}

func TestSaveProfile_Coordinates(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	p, err := s.SaveProfile(ctx, forms.ProfileForm{Name: "Pat", City: "Regina, SK"})
	require.NoError(t, err)
	assert.Equal(t, "Pat", p.Name)
	assert.InDelta(t, 50.4452, *p.Lat, 1e-9)

	// Unknown city keeps the last known coordinates.
	p, err = s.SaveProfile(ctx, forms.ProfileForm{Name: "Pat", City: "Moose Jaw, SK"})
	require.NoError(t, err)
	assert.Equal(t, "Moose Jaw, SK", p.City)
	assert.InDelta(t, 50.4452, *p.Lat, 1e-9)
}

func TestSetPhotoAndCompleteness(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	assert.Equal(t, 85, s.Completeness(ctx))
	_, err := s.SetPhoto(ctx, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, 100, s.Completeness(ctx))
}

func TestBrowse_ClampsRadius(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	ids := func(rs []match.RankedListing) []int {
		out := make([]int, len(rs))
		for i, r := range rs {
			out[i] = r.ID
		}
		return out
	}

	// 1000 km clamps to 300, so Calgary (~525 km) and Winnipeg (~711 km)
	// stay out.
	assert.Equal(t, []int{2}, ids(s.Browse(ctx, match.Criteria{Nearby: true, RadiusKm: 1000})))
	assert.Equal(t, []int{2}, ids(s.Browse(ctx, match.Criteria{Nearby: true, RadiusKm: -5})))
	assert.Equal(t, []int{2, 3, 4}, ids(s.Browse(ctx, match.Criteria{})))

	assert.Equal(t, []string{"art", "crafts", "ceramics", "coffee", "diy", "audio", "nature", "food"}, s.Tags(ctx))
}
