package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Outcomes passed to the gateway observer.
const (
	OutcomeDelivered = "delivered"
	OutcomeAlerted   = "alerted"
)

// Alert is the last-resort, synchronous way to get a message in front
// of the user.
type Alert interface {
	Alert(n Notification)
}

// WriterAlert prints alerts to w, one line each, and returns only when
// the write is done.
type WriterAlert struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterAlert(w io.Writer) *WriterAlert {
	return &WriterAlert{w: w}
}

func (a *WriterAlert) Alert(n Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "[alert] %s: %s\n", n.Title, n.Body)
}

// Probe checks for one capability and returns its notifier if present.
type Probe func(ctx context.Context) (Notifier, bool)

// ShellProbe is present when a Redis connection is available.
func ShellProbe(client *redis.Client, channel string) Probe {
	return func(ctx context.Context) (Notifier, bool) {
		if client == nil {
			return nil, false
		}
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, false
		}
		return NewNativeShellNotifier(client, channel), true
	}
}

// BrowserProbe is present when the WebSocket hub is being served.
func BrowserProbe(hub *Hub) Probe {
	return func(context.Context) (Notifier, bool) {
		if hub == nil {
			return nil, false
		}
		return NewBrowserNotifier(hub), true
	}
}

// Select runs probes in order and returns the first notifier found, or
// NoopFallback. Call it once at startup.
func Select(ctx context.Context, logger *zap.Logger, probes ...Probe) Notifier {
	for _, probe := range probes {
		if n, ok := probe(ctx); ok {
			logger.Info("notifier selected", zap.String("notifier", n.Name()))
			return n
		}
	}
	logger.Info("no notification capability found", zap.String("notifier", NoopFallback{}.Name()))
	return NoopFallback{}
}

// Gateway is what the rest of the app calls. It never returns errors and
// never retries.
type Gateway struct {
	notifier Notifier
	alert    Alert
	logger   *zap.Logger
	observe  func(notifier, outcome string)
}

type GatewayOption func(*Gateway)

// WithObserver reports every outcome, e.g. to metrics.
func WithObserver(fn func(notifier, outcome string)) GatewayOption {
	return func(g *Gateway) { g.observe = fn }
}

func NewGateway(n Notifier, alert Alert, logger *zap.Logger, opts ...GatewayOption) *Gateway {
	if n == nil {
		n = NoopFallback{}
	}
	g := &Gateway{notifier: n, alert: alert, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Notifier returns the variant selected at startup.
func (g *Gateway) Notifier() Notifier { return g.notifier }

func (g *Gateway) RequestPermission(ctx context.Context) bool {
	return g.notifier.RequestPermission(ctx)
}

// Notify delivers through the selected variant. Without permission, or
// when delivery fails, the notification becomes a blocking alert.
func (g *Gateway) Notify(ctx context.Context, n Notification) {
	name := g.notifier.Name()

	if g.notifier.RequestPermission(ctx) {
		err := g.notifier.Notify(ctx, n)
		if err == nil {
			g.report(name, OutcomeDelivered)
			return
		}
		g.logger.Debug("notification failed, falling back to alert",
			zap.String("notifier", name),
			zap.Error(err),
		)
	}

	if g.alert != nil {
		g.alert.Alert(n)
	}
	g.report(name, OutcomeAlerted)
}

func (g *Gateway) report(name, outcome string) {
	if g.observe != nil {
		g.observe(name, outcome)
	}
}
