// Package kvstore implements the repositories on top of store.Value.
//
// Each store hydrates its key once at construction and keeps the value
// in memory. Every change writes the full value back. Collections load
// record by record, so one malformed record never costs the others.
package kvstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/lalith-99/skillswap/internal/models"
	"github.com/lalith-99/skillswap/internal/repository"
	"github.com/lalith-99/skillswap/internal/store"
)

type ProfileStore struct {
	value   *store.Value[models.Profile]
	current models.Profile
}

func NewProfileStore(ctx context.Context, kv store.KV, logger *zap.Logger, opts ...store.ValueOption) *ProfileStore {
	v := store.NewValue(kv, store.KeyProfile, models.DefaultProfile, logger, opts...)
	p := v.Load(ctx)
	p.Normalize()
	return &ProfileStore{value: v, current: p}
}

func (s *ProfileStore) Get(_ context.Context) models.Profile {
	return s.current
}

func (s *ProfileStore) Save(ctx context.Context, p models.Profile) error {
	p.Normalize()
	if err := s.value.Save(ctx, p); err != nil {
		return err
	}
	s.current = p
	return nil
}

type ListingStore struct {
	value *store.Value[[]models.Listing]
	items []models.Listing
}

func NewListingStore(ctx context.Context, kv store.KV, logger *zap.Logger, opts ...store.ValueOption) *ListingStore {
	v := store.NewValue(kv, store.KeyListings, models.DefaultListings, logger, opts...)
	items := store.LoadList(ctx, v)
	for i := range items {
		items[i].Normalize()
	}
	return &ListingStore{value: v, items: items}
}

func (s *ListingStore) List(_ context.Context) []models.Listing {
	out := make([]models.Listing, len(s.items))
	copy(out, s.items)
	return out
}

// Add keeps the in-memory collection unchanged when the write fails, so
// memory and disk do not drift apart.
func (s *ListingStore) Add(ctx context.Context, l models.Listing) (models.Listing, error) {
	l.Normalize()
	next, _ := repository.AddListing(s.items, l)
	if err := s.value.Save(ctx, next); err != nil {
		return models.Listing{}, err
	}
	s.items = next
	return next[0], nil
}

type RequestStore struct {
	value *store.Value[[]models.Request]
	items []models.Request
}

func NewRequestStore(ctx context.Context, kv store.KV, logger *zap.Logger, opts ...store.ValueOption) *RequestStore {
	v := store.NewValue(kv, store.KeyRequests, models.DefaultRequests, logger, opts...)
	items := store.LoadList(ctx, v)
	for i := range items {
		items[i].Normalize()
	}
	return &RequestStore{value: v, items: items}
}

func (s *RequestStore) List(_ context.Context) []models.Request {
	out := make([]models.Request, len(s.items))
	copy(out, s.items)
	return out
}

func (s *RequestStore) Add(ctx context.Context, r models.Request) (models.Request, error) {
	r.Normalize()
	next, _ := repository.AddRequest(s.items, r)
	if err := s.value.Save(ctx, next); err != nil {
		return models.Request{}, err
	}
	s.items = next
	return next[0], nil
}

type MessageStore struct {
	value *store.Value[[]models.Message]
	items []models.Message
}

func NewMessageStore(ctx context.Context, kv store.KV, logger *zap.Logger, opts ...store.ValueOption) *MessageStore {
	v := store.NewValue(kv, store.KeyInbox, models.DefaultInbox, logger, opts...)
	return &MessageStore{value: v, items: store.LoadList(ctx, v)}
}

func (s *MessageStore) List(_ context.Context) []models.Message {
	out := make([]models.Message, len(s.items))
	copy(out, s.items)
	return out
}

// Append prepends m: the inbox is stored newest first.
func (s *MessageStore) Append(ctx context.Context, m models.Message) error {
	next := make([]models.Message, 0, len(s.items)+1)
	next = append(next, m)
	next = append(next, s.items...)
	if err := s.value.Save(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

var (
	_ repository.ProfileRepository = (*ProfileStore)(nil)
	_ repository.ListingRepository = (*ListingStore)(nil)
	_ repository.RequestRepository = (*RequestStore)(nil)
	_ repository.MessageRepository = (*MessageStore)(nil)
)
