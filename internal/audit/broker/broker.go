// Package broker fans newly persisted audit events out to every live stream
// listener.
package broker

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/YuriTheCoder/AuditCenter-API/internal/audit"
)

// Listener is one live subscription. It is owned by the broker's registry for
// its lifetime: the broker is the only writer to its event channel, and Done
// is closed exactly once when the listener leaves the registry for any reason
// (explicit unsubscribe, timeout, send failure, broker shutdown).
type Listener struct {
	events    chan audit.Event
	done      chan struct{}
	closeOnce sync.Once
}

// Events is the stream of published events for this listener.
func (l *Listener) Events() <-chan audit.Event {
	return l.events
}

// Done is closed when the listener has been removed from the registry. The
// event channel itself is never closed, so receivers must select on both.
func (l *Listener) Done() <-chan struct{} {
	return l.done
}

func (l *Listener) close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}

// Broker maintains the registry of live listeners. All operations are safe
// under concurrent Subscribe, Unsubscribe, and Publish.
type Broker struct {
	mu        sync.Mutex
	listeners map[*Listener]struct{}
	closed    bool

	buffer  int
	logger  *slog.Logger
	metrics Metrics
}

// Metrics receives broker lifecycle observations. A nil-free no-op default
// keeps the broker usable without wiring.
type Metrics interface {
	ListenerCount(n int)
	DeliverySucceeded()
	DeliveryFailed()
}

type noopMetrics struct{}

func (noopMetrics) ListenerCount(int)  {}
func (noopMetrics) DeliverySucceeded() {}
func (noopMetrics) DeliveryFailed()    {}

// Option configures a Broker.
type Option func(*Broker)

// WithLogger sets the broker's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) {
		b.logger = logger
	}
}

// WithMetrics sets the broker's metrics sink.
func WithMetrics(m Metrics) Option {
	return func(b *Broker) {
		b.metrics = m
	}
}

// New constructs a broker whose listeners buffer up to buffer events each.
func New(buffer int, opts ...Option) *Broker {
	if buffer <= 0 {
		buffer = 1
	}
	b := &Broker{
		listeners: make(map[*Listener]struct{}),
		buffer:    buffer,
		logger:    slog.Default(),
		metrics:   noopMetrics{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new listener and returns its handle. Subscribing to
// a closed broker returns a listener that is already done.
func (b *Broker) Subscribe() *Listener {
	l := &Listener{
		events: make(chan audit.Event, b.buffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		l.close()
		return l
	}
	b.listeners[l] = struct{}{}
	n := len(b.listeners)
	b.mu.Unlock()

	b.metrics.ListenerCount(n)
	b.logger.Debug("stream listener subscribed", "listeners", n)
	return l
}

// Unsubscribe removes a listener from the registry and signals its Done
// channel. It is idempotent: removing an already-removed listener is a no-op.
func (b *Broker) Unsubscribe(l *Listener) {
	if l == nil {
		return
	}

	b.mu.Lock()
	_, present := b.listeners[l]
	if present {
		delete(b.listeners, l)
	}
	n := len(b.listeners)
	b.mu.Unlock()

	l.close()
	if present {
		b.metrics.ListenerCount(n)
		b.logger.Debug("stream listener removed", "listeners", n)
	}
}

// Publish delivers event to every currently registered listener. Sends are
// isolated per listener: a listener whose buffer cannot accept the event is
// treated as failed and removed without affecting the others, and Publish
// never blocks on a slow consumer. Delivery is best-effort, at-most-once per
// listener, with no backlog for late subscribers.
func (b *Broker) Publish(event audit.Event) {
	b.mu.Lock()
	snapshot := make([]*Listener, 0, len(b.listeners))
	for l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.mu.Unlock()

	var g errgroup.Group
	for _, l := range snapshot {
		g.Go(func() error {
			select {
			case <-l.done:
				// Lost the race with a concurrent unsubscribe; nothing owed.
			case l.events <- event:
				b.metrics.DeliverySucceeded()
			default:
				b.metrics.DeliveryFailed()
				b.logger.Warn("stream listener not keeping up, dropping it",
					"event_id", event.ID,
				)
				b.Unsubscribe(l)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Len reports the current registry size.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

// Close removes every listener and rejects future subscriptions. Used on
// server shutdown so stream handlers unwind promptly.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	snapshot := make([]*Listener, 0, len(b.listeners))
	for l := range b.listeners {
		snapshot = append(snapshot, l)
	}
	b.listeners = make(map[*Listener]struct{})
	b.mu.Unlock()

	for _, l := range snapshot {
		l.close()
	}
	b.metrics.ListenerCount(0)
}
