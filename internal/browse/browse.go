// Package browse loads other people's listings from the listings API.
package browse

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// State is where a load stands. A load that has not finished is
// StateLoading; it then ends in exactly one of the other three.
type State string

const (
	StateLoading State = "loading"
	StateError   State = "error"
	StateEmpty   State = "empty"
	StateReady   State = "ready"
)

// Result is what a list view renders.
type Result struct {
	State    State           `json:"state"`
	Listings []RemoteListing `json:"listings"`
	Err      string          `json:"error,omitempty"`
}

// Options for one load. The zero value hides the user's own listings.
type Options struct {
	Tag     string
	ShowOwn bool
}

type Browser struct {
	client   *Client
	identity Provider
	logger   *zap.Logger
}

func New(client *Client, identity Provider, logger *zap.Logger) *Browser {
	if identity == nil {
		identity = Static("")
	}
	return &Browser{client: client, identity: identity, logger: logger}
}

// Loading is the state a view shows before Load returns.
func Loading() Result {
	return Result{State: StateLoading, Listings: []RemoteListing{}}
}

// Load fetches and filters listings. When ctx is cancelled before the
// fetch completes the result is stale, and ok is false.
func (b *Browser) Load(ctx context.Context, opts Options) (res Result, ok bool) {
	start := time.Now()

	exclude := ""
	if !opts.ShowOwn {
		if me := b.identity.CurrentUser(ctx); me != nil {
			exclude = me.ID
		}
	}

	all, err := b.client.Listings(ctx, opts.Tag, exclude)
	if ctx.Err() != nil {
		b.logger.Debug("listing load discarded", zap.Error(ctx.Err()))
		return Result{}, false
	}
	if err != nil {
		b.logger.Warn("failed to load listings", zap.Error(err))
		return Result{State: StateError, Listings: []RemoteListing{}, Err: err.Error()}, true
	}

	listings := Filter(all, opts.Tag, exclude)
	b.logger.Debug("listings loaded",
		zap.Int("fetched", len(all)),
		zap.Int("shown", len(listings)),
		zap.Duration("took", time.Since(start)),
	)
	if len(listings) == 0 {
		return Result{State: StateEmpty, Listings: listings}, true
	}
	return Result{State: StateReady, Listings: listings}, true
}

// Render writes r the way the list view shows it.
func Render(w io.Writer, r Result) error {
	var err error
	switch r.State {
	case StateLoading:
		_, err = fmt.Fprintln(w, "Loading…")
	case StateError:
		_, err = fmt.Fprintf(w, "Error: %s\n", r.Err)
	case StateEmpty:
		_, err = fmt.Fprintln(w, "No listings yet.")
	case StateReady:
		for _, l := range r.Listings {
			line := l.Title
			if len(l.Tags) > 0 {
				line += "  [" + strings.Join(l.Tags, ", ") + "]"
			}
			if _, err = fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	default:
		err = fmt.Errorf("unknown state %q", r.State)
	}
	return err
}
