package session

import "sync"

// Bus is a same-process publish/subscribe channel signaling "the session may
// have changed".
//
// Signals carry no payload: subscribers re-read the [Store] on every signal.
// Handlers run synchronously, in subscription order, on the task that called
// [Bus.Publish]. There is no batching and no de-duplication; N publishes mean
// N handler runs.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers []busHandler
}

type busHandler struct {
	id int
	fn func()
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler invoked on every future publish and returns
// its unsubscribe function. Unsubscribing twice is safe.
func (b *Bus) Subscribe(fn func()) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, busHandler{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, h := range b.handlers {
			if h.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every subscribed handler, synchronously and in subscription
// order.
func (b *Bus) Publish() {
	b.mu.Lock()
	handlers := make([]busHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h.fn()
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
