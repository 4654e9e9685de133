package events

import (
	"log/slog"
	"sync"
)

// Handler reacts to a dispatched event.
type Handler func(Event)

type subscriber struct {
	id   int
	fn   Handler
	once bool
}

// Bus is a synchronous publish/subscribe dispatcher keyed by event kind.
// Handlers for a kind run in registration order. Dispatch iterates a copy of
// the handler list, so a handler that subscribes or unsubscribes during
// delivery cannot corrupt the in-flight iteration. A panicking handler is
// recovered and logged and does not block later handlers.
//
// There is no queue: Publish returns only after every handler has run.
type Bus struct {
	mu       sync.Mutex
	handlers map[Kind][]subscriber
	nextID   int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]subscriber)}
}

// Subscribe registers a handler for the given kind and returns a function
// that removes it. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(kind Kind, fn Handler) func() {
	return b.subscribe(kind, fn, false)
}

// Once registers a handler that is removed after its first invocation.
// The returned function cancels it early.
func (b *Bus) Once(kind Kind, fn Handler) func() {
	return b.subscribe(kind, fn, true)
}

func (b *Bus) subscribe(kind Kind, fn Handler, once bool) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[kind] = append(b.handlers[kind], subscriber{id: id, fn: fn, once: once})
	return func() { b.remove(kind, id) }
}

func (b *Bus) remove(kind Kind, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[kind]
	for i, s := range subs {
		if s.id == id {
			b.handlers[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every handler registered for its kind at
// the moment of the call, synchronously and in registration order.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := b.handlers[ev.Kind()]
	snapshot := make([]subscriber, len(subs))
	copy(snapshot, subs)
	b.mu.Unlock()

	for _, s := range snapshot {
		if s.once {
			b.remove(ev.Kind(), s.id)
		}
		b.dispatch(s, ev)
	}
}

func (b *Bus) dispatch(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event handler panicked", "kind", ev.Kind(), "panic", r)
		}
	}()
	s.fn(ev)
}

// SubscriberCount returns the number of handlers registered for a kind.
func (b *Bus) SubscriberCount(kind Kind) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers[kind])
}

// Reset drops every registered handler.
func (b *Bus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[Kind][]subscriber)
}
