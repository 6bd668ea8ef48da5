// Package notify delivers local, best-effort notifications.
//
// One Notifier variant is chosen at startup by probing what the host
// offers: a native shell bridge, connected browser clients, or nothing.
// Callers only ever talk to a Gateway, which never fails: when the chosen
// variant cannot deliver, it falls back to a blocking alert.
package notify

import (
	"context"
	"errors"
)

// Notification is what the user sees.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ErrUndelivered means the channel accepted the call but nobody was
// listening.
var ErrUndelivered = errors.New("notification not delivered")

// Notifier is one delivery capability.
type Notifier interface {
	// Name identifies the variant in logs and metrics.
	Name() string

	// RequestPermission reports whether notifications can currently be
	// shown. It must not block for long and must not fail loudly.
	RequestPermission(ctx context.Context) bool

	Notify(ctx context.Context, n Notification) error
}

// NoopFallback is the variant used when the host offers nothing.
type NoopFallback struct{}

func (NoopFallback) Name() string                               { return "noop" }
func (NoopFallback) RequestPermission(context.Context) bool     { return false }
func (NoopFallback) Notify(context.Context, Notification) error { return nil }
