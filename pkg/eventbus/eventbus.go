// Package eventbus implements the Event Bus (C9): synchronous in-process
// publish-subscribe with swallow-and-log handler error policy, per spec
// §4.9 and the §9 open-question resolution documented in DESIGN.md.
package eventbus

import (
	"log/slog"
	"sync"
)

// Event is one published message.
type Event struct {
	Topic   string
	Payload map[string]interface{}
}

// Handler processes one Event. A Handler that panics is recovered by the
// bus and never reaches the publisher.
type Handler func(e Event)

// Bus is a synchronous, in-process publish-subscribe topic registry.
// Publish delivers to every subscriber on the publisher's own goroutine, in
// registration order, before returning — required for semantic correctness
// (spec §5: "room-status updates after a checkout must be visible before
// the publisher returns").
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]Handler
	logger *slog.Logger
}

// New constructs an empty Bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{subs: make(map[string][]Handler), logger: logger}
}

// Subscribe registers handler under topic.
func (b *Bus) Subscribe(topic string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], handler)
}

// Unsubscribe removes every handler currently registered under topic. The
// core does not track individual handler identity beyond function value
// equality, which Go cannot compare reliably — callers needing selective
// removal should namespace topics instead.
func (b *Bus) Unsubscribe(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, topic)
}

// Publish delivers e to every subscriber of e.Topic synchronously.
// Subscriber panics and any future handler-error return are caught, logged,
// and never propagated to the publisher — the bus's mandated exception
// policy (spec §9).
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := append([]Handler{}, b.subs[e.Topic]...)
	b.mu.RUnlock()

	for i, h := range handlers {
		b.invoke(e, h, i)
	}
}

func (b *Bus) invoke(e Event, h Handler, index int) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("eventbus: subscriber panicked", "topic", e.Topic, "handler_index", index, "recovered", r)
		}
	}()
	h(e)
}

// GetSubscribers returns the number of handlers currently registered per
// topic, for introspection.
func (b *Bus) GetSubscribers() map[string]int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]int, len(b.subs))
	for topic, handlers := range b.subs {
		out[topic] = len(handlers)
	}
	return out
}
