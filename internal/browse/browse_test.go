package browse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/models"
)

var woodListings = []RemoteListing{
	{ID: "1", OwnerID: "me-123", Title: "My own listing", Tags: []string{"wood"}},
	{ID: "2", OwnerID: "u-999", Title: "Other person's listing", Tags: []string{"wood"}},
	{ID: "3", OwnerID: "u-555", Title: "Metal work", Tags: []string{"metal"}},
}

// listingServer ignores query parameters, so the client-side filter is
// what the tests observe.
type listingServer struct {
	mu      sync.Mutex
	queries []map[string]string
	status  int
	body    any
}

func (s *listingServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	q := map[string]string{}
	for k := range r.URL.Query() {
		q[k] = r.URL.Query().Get(k)
	}
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if r.URL.Path != ListingsPath {
		http.NotFound(w, r)
		return
	}
	if s.status != 0 {
		w.WriteHeader(s.status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.body)
}

func (s *listingServer) lastQuery() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[len(s.queries)-1]
}

func newBrowser(t *testing.T, srv *listingServer, me string) *Browser {
	t.Helper()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return New(NewClient(ts.URL, time.Second), Static(me), zap.NewNop())
}

func titles(ls []RemoteListing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Title
	}
	return out
}

func TestLoad_HidesOwnListings(t *testing.T) {
	srv := &listingServer{body: woodListings}
	b := newBrowser(t, srv, "me-123")

	res, ok := b.Load(context.Background(), Options{Tag: "wood"})
	require.True(t, ok)
	assert.Equal(t, StateReady, res.State)
	assert.Equal(t, []string{"Other person's listing"}, titles(res.Listings))
	assert.Equal(t, map[string]string{"tag": "wood", "ownerId_ne": "me-123"}, srv.lastQuery())
}

func TestLoad_ShowOwn(t *testing.T) {
	srv := &listingServer{body: woodListings}
	b := newBrowser(t, srv, "me-123")

	res, ok := b.Load(context.Background(), Options{Tag: "wood", ShowOwn: true})
	require.True(t, ok)
	assert.Equal(t, []string{"My own listing", "Other person's listing"}, titles(res.Listings))
	assert.Equal(t, map[string]string{"tag": "wood"}, srv.lastQuery())
}

func TestLoad_AnonymousSendsNoOwnerFilter(t *testing.T) {
	srv := &listingServer{body: woodListings}
	b := newBrowser(t, srv, "")

	res, ok := b.Load(context.Background(), Options{})
	require.True(t, ok)
	assert.Len(t, res.Listings, 3)
	assert.Empty(t, srv.lastQuery())
}

func TestLoad_ErrorIsNotEmpty(t *testing.T) {
	srv := &listingServer{status: http.StatusInternalServerError}
	b := newBrowser(t, srv, "me-123")

	res, ok := b.Load(context.Background(), Options{})
	require.True(t, ok)
	assert.Equal(t, StateError, res.State)
	assert.Contains(t, res.Err, "failed to load listings")
	assert.Empty(t, res.Listings)
}

func TestLoad_Empty(t *testing.T) {
	srv := &listingServer{body: []RemoteListing{}}
	b := newBrowser(t, srv, "")

	res, ok := b.Load(context.Background(), Options{Tag: "glass"})
	require.True(t, ok)
	assert.Equal(t, StateEmpty, res.State)
	assert.NotNil(t, res.Listings)
}

func TestLoad_CancelledIsDiscarded(t *testing.T) {
	srv := &listingServer{body: woodListings}
	b := newBrowser(t, srv, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := b.Load(ctx, Options{})
	assert.False(t, ok)
}

func TestFromListing(t *testing.T) {
	l := models.Listing{ID: 7, OwnerID: "u-1", Name: "Maya Lopez", Tags: []string{"art"}}
	assert.Equal(t, RemoteListing{ID: "7", OwnerID: "u-1", Title: "Maya Lopez", Tags: []string{"art"}}, FromListing(l))
}

func TestFilter_TagIsExact(t *testing.T) {
	got := Filter(woodListings, "Wood", "")
	assert.Empty(t, got)
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext.CurrentUser(context.Background()))
	ctx := WithIdentity(context.Background(), &Identity{ID: "u-1"})
	assert.Equal(t, "u-1", FromContext.CurrentUser(ctx).ID)
}

func TestRender(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Render(&sb, Loading()))
	require.NoError(t, Render(&sb, Result{State: StateError, Err: "boom"}))
	require.NoError(t, Render(&sb, Result{State: StateEmpty}))
	require.NoError(t, Render(&sb, Result{State: StateReady, Listings: woodListings[1:2]}))
	assert.Equal(t, "Loading…\nError: boom\nNo listings yet.\nOther person's listing  [wood]\n", sb.String())

	assert.Error(t, Render(&sb, Result{State: "bogus"}))
}
