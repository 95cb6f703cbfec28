package events

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handler receives published events.
type Handler func(Event)

// Publisher is the write side of the bus.
type Publisher interface {
	Publish(Event)
}

// Bus delivers events synchronously, in subscription order, to every handler
// of the event's topic. A panicking handler is logged and skipped.
type Bus struct {
	logger *zap.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

type subscription struct {
	id      uint64
	handler Handler
}

var _ Publisher = (*Bus)(nil)

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger: logger.Named("events"),
		subs:   make(map[Topic][]subscription),
	}
}

// Subscribe registers handler for topic and returns its unsubscribe func.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	if handler == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

// Publish delivers ev to the current subscribers of its topic.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[ev.Topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		b.deliver(sub.handler, ev)
	}
}

// Subscribers reports how many handlers are registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

func (b *Bus) deliver(handler Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("topic", string(ev.Topic)),
				zap.String("event_id", ev.ID),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	handler(ev)
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
}
