package events

import (
	"context"
	"sync"

	"github.com/priyabank/core-ledger/internal/logger"
)

// Broker fans one event stream out to any number of in-process subscribers.
// Slow subscribers lose events rather than stalling the rest; consumers that
// need a consistent picture re-read the store on every event they do see.
type Broker struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan Event)}
}

// Subscribe registers a buffered channel. The returned cancel func removes
// the subscription and closes the channel.
func (b *Broker) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Handle dispatches an event to all subscribers. It satisfies the stream
// subscriber's Handler signature.
func (b *Broker) Handle(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
			logger.Warn("event broker subscriber full, dropping event", logger.Fields{
				"eventId":   event.ID,
				"eventType": event.Type,
			})
		}
	}
	return nil
}
