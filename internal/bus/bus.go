package bus

import (
	"context"
	"sync"

	"github.com/skywatch-ops/skywatch/internal/domain/safety"
	"github.com/skywatch-ops/skywatch/internal/logger"
)

// Handler consumes one event. Handlers for the same event type are invoked
// in subscription order; a panicking handler is isolated and logged without
// affecting delivery to the others.
type Handler func(ctx context.Context, event safety.Event)

// Subscription identifies one registered handler so it can be removed later.
type Subscription struct {
	// eventType is the type the handler was registered for.
	eventType safety.EventType
	// id is the registration sequence number, unique per bus.
	id uint64
}

// subscriber pairs a registered handler with its subscription id.
type subscriber struct {
	// id matches the Subscription handed out at registration.
	id uint64
	// handler is the registered callback.
	handler Handler
}

// Bus is the in-process typed publish/subscribe router connecting producers
// of domain events to consumers. It owns no domain state, only subscriber
// registrations.
type Bus struct {
	// mu protects subs, order and nextID.
	mu sync.Mutex
	// nextID is the registration sequence counter.
	nextID uint64
	// subs holds the registered handlers per event type, in subscription order.
	subs map[safety.EventType][]subscriber
	// order serializes dispatch per event type so delivery order within one
	// type matches publish order.
	order map[safety.EventType]*sync.Mutex
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		subs:  make(map[safety.EventType][]subscriber),
		order: make(map[safety.EventType]*sync.Mutex),
	}
}

// Subscribe registers the handler for the given event type and returns a
// handle for later removal.
func (b *Bus) Subscribe(eventType safety.EventType, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subs[eventType] = append(b.subs[eventType], subscriber{
		id:      b.nextID,
		handler: handler,
	})

	return Subscription{
		eventType: eventType,
		id:        b.nextID,
	}
}

// Unsubscribe removes exactly the handler behind the subscription.
// It is safe to call from within a handler during dispatch: the publish in
// flight already snapshotted its subscriber list, so the remaining handlers
// still receive the current event. Removing an unknown subscription is a no-op.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handlers := b.subs[sub.eventType]
	for i, s := range handlers {
		if s.id == sub.id {
			b.subs[sub.eventType] = append(handlers[:i:i], handlers[i+1:]...)

			return
		}
	}
}

// Publish delivers the event to every handler currently registered for its
// type, in subscription order. Publishing with zero subscribers is a no-op.
// The call returns once every handler has run; producers that must not wait
// publish from their own goroutine, as the scheduler's timers do.
//
// A handler must not publish the event type it is subscribed to: dispatch
// per type is serialized and such a publish would deadlock.
func (b *Bus) Publish(ctx context.Context, event safety.Event) {
	order := b.typeLock(event.Type)

	// Taking the order lock first makes publish order well defined for
	// concurrent publishers of the same type.
	order.Lock()
	defer order.Unlock()

	b.mu.Lock()
	snapshot := append([]subscriber(nil), b.subs[event.Type]...)
	b.mu.Unlock()

	for _, s := range snapshot {
		b.deliver(ctx, s, event)
	}
}

// typeLock returns the dispatch ordering lock for the event type,
// creating it on first use.
func (b *Bus) typeLock(eventType safety.EventType) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.order[eventType]
	if !ok {
		order = new(sync.Mutex)
		b.order[eventType] = order
	}

	return order
}

// deliver runs one handler, converting a panic into a diagnostic log entry
// so one failing subscriber never blocks delivery to the others or unwinds
// the publisher's call stack.
func (b *Bus) deliver(ctx context.Context, s subscriber, event safety.Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorKV(ctx, "Event handler panicked",
				"event_type", event.Type,
				"subscription_id", s.id,
				"panic", r)
		}
	}()

	s.handler(ctx, event)
}
