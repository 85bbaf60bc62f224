package events

import (
	"sync"

	"github.com/sentinai-labs/server/internal/metrics"
)

// DefaultCapacity is the per-subscriber backlog capacity.
const DefaultCapacity = 100

// Bus is an in-process broadcast channel fanning domain events out to
// any number of subscribers. Publishing is non-blocking and best-effort:
// with no subscribers an event is dropped silently, and a subscriber
// whose backlog is full is detached rather than ever stalling a
// publisher.
//
// Each subscriber owns an independent bounded buffer, so one slow
// consumer cannot affect the bus or its peers. Events from a single
// publisher are observed by every active subscriber in publish order.
type Bus struct {
	mu       sync.Mutex
	subs     map[*Subscription]struct{}
	capacity int
	closed   bool
}

// Subscription is one subscriber's receiving endpoint. It observes every
// event published after the Subscribe call until it is closed, the bus
// shuts down, or it lags past its backlog capacity.
type Subscription struct {
	bus        *Bus
	ch         chan Event
	overflowed bool
	done       bool
}

func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		subs:     make(map[*Subscription]struct{}),
		capacity: capacity,
	}
}

// Publish delivers the event to every active subscriber without
// blocking. A subscriber whose buffer is full is marked overflowed and
// detached; its channel is closed so the consumer observes the gap as a
// terminal condition.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	metrics.EventsPublishedTotal.WithLabelValues(e.Type()).Inc()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			sub.overflowed = true
			b.detach(sub)
			metrics.BusSubscribersDroppedTotal.Inc()
		}
	}
}

// Subscribe registers a new independent subscriber. On a closed bus the
// returned subscription is already terminated.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{bus: b, ch: make(chan Event, b.capacity)}
	if b.closed {
		sub.done = true
		close(sub.ch)
		return sub
	}

	b.subs[sub] = struct{}{}
	metrics.BusSubscribers.Inc()
	return sub
}

// SubscriberCount reports the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close tears down the bus and terminates every subscriber. Publish and
// Subscribe become no-ops afterwards.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for sub := range b.subs {
		b.detach(sub)
	}
}

// detach removes a subscriber and closes its channel. Caller must hold
// b.mu; channel sends also happen under b.mu, so close cannot race a
// send.
func (b *Bus) detach(sub *Subscription) {
	if sub.done {
		return
	}
	sub.done = true
	delete(b.subs, sub)
	close(sub.ch)
	metrics.BusSubscribers.Dec()
}

// Events returns the receive channel. The channel is closed when the
// subscription terminates; check Overflowed to distinguish a lag drop
// from an orderly close.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Overflowed reports whether the subscription was terminated because it
// lagged past the backlog capacity.
func (s *Subscription) Overflowed() bool {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	return s.overflowed
}

// Close detaches the subscription from the bus. Safe to call more than
// once and after the bus has already terminated the subscription.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.bus.detach(s)
}
