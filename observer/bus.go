// observer/bus.go
package observer

import (
	"log/slog"
	"sync"
)

// EventType tags a domain event.
type EventType string

const (
	BookCreated  EventType = "book_created"
	BookUpdated  EventType = "book_updated"
	BookDeleted  EventType = "book_deleted"
	LoanCreated  EventType = "loan_created"
	LoanReturned EventType = "loan_returned"

	SystemError   EventType = "system_error"
	SystemWarning EventType = "system_warning"
)

// AllEvents lists every event type, for subscribers that want the firehose.
var AllEvents = []EventType{
	BookCreated, BookUpdated, BookDeleted,
	LoanCreated, LoanReturned,
	SystemError, SystemWarning,
}

// Payload carries event data as field name to value.
type Payload map[string]any

// Subscriber receives events it registered for. Handle is called
// synchronously on the publisher's goroutine.
type Subscriber interface {
	Handle(kind EventType, payload Payload)
}

// Bus fans events out to subscribers in registration order. Delivery is
// best-effort and in-process only: nothing is queued, retried or replayed,
// and a subscriber failure never reaches the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[EventType][]Subscriber
	log  *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{subs: make(map[EventType][]Subscriber), log: log}
}

// Subscribe registers sub for the given kinds. Registering twice for the
// same kind is a no-op.
func (b *Bus) Subscribe(sub Subscriber, kinds ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, kind := range kinds {
		if b.registered(kind, sub) {
			continue
		}
		b.subs[kind] = append(b.subs[kind], sub)
	}
}

// Unsubscribe removes sub from every kind it was registered for.
func (b *Bus) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for kind, list := range b.subs {
		for i, s := range list {
			if s == sub {
				b.subs[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to every current subscriber for kind. A
// panicking subscriber is logged and skipped; the remaining subscribers
// still get the event.
func (b *Bus) Publish(kind EventType, payload Payload) {
	if payload == nil {
		payload = Payload{}
	}
	b.mu.RLock()
	list := make([]Subscriber, len(b.subs[kind]))
	copy(list, b.subs[kind])
	b.mu.RUnlock()

	for _, sub := range list {
		b.deliver(sub, kind, payload)
	}
}

// SubscriberCount reports how many subscribers are registered for kind.
func (b *Bus) SubscriberCount(kind EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[kind])
}

func (b *Bus) deliver(sub Subscriber, kind EventType, payload Payload) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked", "event", string(kind), "panic", r)
		}
	}()
	sub.Handle(kind, payload)
}

func (b *Bus) registered(kind EventType, sub Subscriber) bool {
	for _, s := range b.subs[kind] {
		if s == sub {
			return true
		}
	}
	return false
}
