// Package notify lets an Aggregate wake a Dispatcher as soon as it appends
// an event, instead of making it wait out its full polling_delay. It is an
// internal latency optimization, not part of the Stream Dispatcher
// algorithm itself: a Dispatcher with no Wake channel configured still
// polls correctly on its own, just with worse average latency.
package notify

import "sync"

// Broker fans a wake-up signal out to every subscriber. Subscribers never
// block a Broadcast: each subscriber channel is buffered to depth one and a
// full channel is simply left alone, since a dispatcher that hasn't drained
// its last wake-up is about to re-poll anyway.
type Broker struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]bool
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[chan struct{}]bool)}
}

// Subscribe returns a channel that receives a value after every Broadcast,
// and a cancel func that unsubscribes it.
func (b *Broker) Subscribe() (ch <-chan struct{}, cancel func()) {
	sub := make(chan struct{}, 1)

	b.mu.Lock()
	b.subscribers[sub] = true
	b.mu.Unlock()

	return sub, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[sub]; ok {
			delete(b.subscribers, sub)
			close(sub)
		}
	}
}

// Broadcast wakes every current subscriber.
func (b *Broker) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}
