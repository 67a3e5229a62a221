// Package broadcast fans scan events out to in-process subscribers.
//
// Delivery is fire-and-forget: Publish never blocks, every subscriber owns a
// bounded buffer, and when that buffer is full the oldest queued event is
// discarded to make room. Nothing is replayed to late or reconnecting
// subscribers.
package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("broadcaster closed")

// Publisher is anything scan events can be handed to: the local
// Broadcaster or a transport that forwards to other instances.
type Publisher interface {
	Publish(ctx context.Context, event domain.ScanEvent) error
}

// Filter selects the events a subscription receives. A nil Filter accepts
// everything.
type Filter func(domain.ScanEvent) bool

// ForSession accepts events addressed to one session.
func ForSession(id uuid.UUID) Filter {
	return func(e domain.ScanEvent) bool {
		return e.SessionID != nil && *e.SessionID == id
	}
}

// Broadcaster is an in-process fan-out hub.
type Broadcaster struct {
	mu         sync.RWMutex
	subs       map[uint64]*Subscription
	nextID     uint64
	bufferSize int
	closed     bool
	log        *slog.Logger
}

// New creates a Broadcaster whose subscribers buffer up to bufferSize events.
func New(log *slog.Logger, bufferSize int) *Broadcaster {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Broadcaster{
		subs:       make(map[uint64]*Subscription),
		bufferSize: bufferSize,
		log:        log.With("component", "broadcast"),
	}
}

// Publish delivers event to every matching subscriber without blocking.
func (b *Broadcaster) Publish(ctx context.Context, event domain.ScanEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(event) {
			continue
		}
		if sub.deliver(event) {
			b.log.DebugContext(ctx, "subscriber buffer full, dropped oldest event",
				slog.Uint64("subscription", sub.id),
				slog.Uint64("dropped_total", sub.Dropped()),
			)
		}
	}
	return nil
}

// Subscribe registers a new subscriber. On a closed Broadcaster the
// returned subscription's channel is already closed.
func (b *Broadcaster) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		ch:     make(chan domain.ScanEvent, b.bufferSize),
		filter: filter,
		hub:    b,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		sub.closeChannel()
		return sub
	}
	b.nextID++
	sub.id = b.nextID
	b.subs[sub.id] = sub
	return sub
}

// SubscriberCount returns the number of live subscriptions.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Publishing afterwards returns ErrClosed.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*Subscription)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.closeChannel()
	}
}

func (b *Broadcaster) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Subscription is one consumer's view of the event stream.
type Subscription struct {
	id      uint64
	ch      chan domain.ScanEvent
	filter  Filter
	hub     *Broadcaster
	dropped atomic.Uint64

	mu     sync.Mutex
	closed bool
}

// C returns the event channel. It is closed when the subscription or the
// broadcaster is closed.
func (s *Subscription) C() <-chan domain.ScanEvent { return s.ch }

// Dropped returns how many events were discarded because the buffer was full.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s.id)
	s.closeChannel()
}

func (s *Subscription) closeChannel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// deliver enqueues e, evicting the oldest queued events while the buffer is
// full. It reports whether anything was evicted.
func (s *Subscription) deliver(e domain.ScanEvent) (evicted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	for {
		select {
		case s.ch <- e:
			return evicted
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
			evicted = true
		default:
		}
	}
}

// LocalClaims grants every claim. It serves a single instance where the
// local broadcaster is the only event source.
type LocalClaims struct{}

// Claim always reports true.
func (LocalClaims) Claim(context.Context, domain.ScanEvent) (bool, error) { return true, nil }
