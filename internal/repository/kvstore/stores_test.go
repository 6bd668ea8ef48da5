package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/store"
)

func TestListingStore_HydratesDefaultsAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()

	s := NewListingStore(ctx, kv, zap.NewNop())
	assert.Len(t, s.List(ctx), 3)

	added, err := s.Add(ctx, models.Listing{Name: "Kai", Offers: []string{"Knots"}})
	require.NoError(t, err)
	assert.Equal(t, 5, added.ID)
	assert.Equal(t, []string{}, added.Wants)

	// A second store over the same kv sees the write.
	again := NewListingStore(ctx, kv, zap.NewNop())
	list := again.List(ctx)
	require.Len(t, list, 4)
	assert.Equal(t, "Kai", list[0].Name)
}

func TestListingStore_CorruptFallsBackToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyListings, []byte("[{oops")))

	var fallbacks int
	s := NewListingStore(ctx, kv, zap.NewNop(), store.OnFallback(func(string, string) { fallbacks++ }))
	assert.Equal(t, models.DefaultListings(), s.List(ctx))
	assert.Equal(t, 1, fallbacks)
}

func TestListingStore_MalformedFieldKeepsCollection(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyListings, []byte(`[
		{"id":7,"name":"Mine","city":"Regina, SK","offers":["Pottery"],"wants":[],"tags":["x"]},
		{"id":6,"name":"Odd","city":"Saskatoon, SK","offers":["Chess"],"wants":[],"tags":"oops"},
		42
	]`)))

	var reasons []string
	s := NewListingStore(ctx, kv, zap.NewNop(), store.OnFallback(func(_, reason string) {
		reasons = append(reasons, reason)
	}))

	list := s.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Mine", list[0].Name)
	assert.Equal(t, []string{"x"}, list[0].Tags)
	assert.Equal(t, "Odd", list[1].Name)
	assert.Equal(t, []string{"Chess"}, list[1].Offers)
	assert.Equal(t, []string{}, list[1].Tags)
	assert.Equal(t, []string{store.ReasonCoerced}, reasons)

	added, err := s.Add(ctx, models.Listing{Name: "Kai"})
	require.NoError(t, err)
	assert.Equal(t, 8, added.ID)

	names := func(ls []models.Listing) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.Name
		}
		return out
	}
	assert.Equal(t, []string{"Kai", "Mine", "Odd"}, names(NewListingStore(ctx, kv, zap.NewNop()).List(ctx)))
}

func TestMessageStore_MalformedRecordSkipped(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyInbox, []byte(`[null,{"id":"m1","from":"You","to":"Asha K.","message":"hi","createdAt":"yesterday"}]`)))

	got := NewMessageStore(ctx, kv, zap.NewNop()).List(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "hi", got[0].Message)
	assert.True(t, got[0].CreatedAt.IsZero())
}

func TestListingStore_NullArraysNormalized(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, store.KeyListings, []byte(`[{"id":1,"name":"Bare"}]`)))

	s := NewListingStore(ctx, kv, zap.NewNop())
	l := s.List(ctx)[0]
	assert.Equal(t, []string{}, l.Offers)
	assert.Equal(t, []string{}, l.Tags)
}

func TestRequestStore_Add(t *testing.T) {
	ctx := context.Background()
	s := NewRequestStore(ctx, store.NewMemoryKV(), zap.NewNop())

	r, err := s.Add(ctx, models.Request{Title: "Learn to juggle", Category: models.CategoryOther})
	require.NoError(t, err)
	assert.Equal(t, 103, r.ID)
	assert.Equal(t, 103, s.List(ctx)[0].ID)
}

func TestMessageStore_AppendNewestFirst(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	s := NewMessageStore(ctx, kv, zap.NewNop())
	assert.Empty(t, s.List(ctx))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, s.Append(ctx, models.Message{ID: "a", CreatedAt: now}))
	require.NoError(t, s.Append(ctx, models.Message{ID: "b", CreatedAt: now}))

	got := NewMessageStore(ctx, kv, zap.NewNop()).List(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestProfileStore_SaveNormalizes(t *testing.T) {
	ctx := context.Background()
	s := NewProfileStore(ctx, store.NewMemoryKV(), zap.NewNop())
	assert.Equal(t, "You", s.Get(ctx).Name)

	require.NoError(t, s.Save(ctx, models.Profile{Name: "Ana"}))
	p := s.Get(ctx)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, []string{}, p.Offers)
}
