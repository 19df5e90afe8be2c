// Package realtime keeps cached queries fresh without polling: one channel
// per logical resource, scoped to the signed-in club, each event collapsing
// to an idempotent cache invalidation.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// EventType mirrors the database change feed.
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one row-change notification. The payload is carried for
// completeness but never merged locally; handlers only invalidate.
type Event struct {
	Resource string          `json:"resource"`
	Type     EventType       `json:"type"`
	ClubID   string          `json:"club_id"`
	Payload  json.RawMessage `json:"record,omitempty"`
}

// Channel names one subscription: a resource, optionally filtered
// server-side by club id. Globally-shared tables subscribe unfiltered.
type Channel struct {
	Resource   string
	ClubID     string
	Unfiltered bool
}

// Topic is the client-chosen channel name on the wire.
func (ch Channel) Topic() string {
	if ch.Unfiltered {
		return "realtime:" + ch.Resource
	}
	return "realtime:" + ch.Resource + ":" + ch.ClubID
}

// Transport opens channels against the hosted change-notification service.
type Transport interface {
	Subscribe(ctx context.Context, ch Channel) (*Subscription, error)
	Close() error
}

// Subscription is one open channel. Events() is closed by Close, which is
// safe to call more than once and safe against concurrent Deliver calls.
type Subscription struct {
	channel Channel
	lock    sync.Mutex
	events  chan Event
	closed  bool
	onClose func()
}

func NewSubscription(ch Channel, buffer int, onClose func()) *Subscription {
	return &Subscription{
		channel: ch,
		events:  make(chan Event, buffer),
		onClose: onClose,
	}
}

func (s *Subscription) Channel() Channel { return s.channel }
func (s *Subscription) Events() <-chan Event { return s.events }

// Deliver offers an event without blocking; a full buffer drops the event,
// which is tolerable because invalidation is idempotent and interval
// refresh backstops the queries that matter. Delivery after Close reports
// false rather than racing the channel close.
func (s *Subscription) Deliver(ev Event) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

func (s *Subscription) Close() {
	s.lock.Lock()
	if s.closed {
		s.lock.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.lock.Unlock()

	if s.onClose != nil {
		s.onClose()
	}
}
