// Package store persists the app's state keys in a durable key-value
// backend.
//
// Each logical key (profile, listings, requests, inbox) holds one full
// JSON value and is written independently. There are no transactions
// across keys: a crash between two writes can leave them out of step,
// which is acceptable for a single local user.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is a minimal durable byte store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// The logical state keys.
const (
	KeyProfile  = "bas_profile"
	KeyListings = "bas_listings"
	KeyRequests = "bas_requests"
	KeyInbox    = "bas_inbox"
)

// Pinger is implemented by backends that live in another process.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks kv if it is remote; embedded backends are always healthy.
func Ping(ctx context.Context, kv KV) error {
	if p, ok := kv.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
