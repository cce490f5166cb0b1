package pairing

import "sync"

// PeerConnected announces a completed pairing to the rest of the
// application.
type PeerConnected struct {
	PartnerID string
}

// Bus is a minimal publish/subscribe fanout for pairing events.
// Subscribers get buffered channels; a slow subscriber drops events rather
// than blocking the publisher.
type Bus struct {
	mu   sync.Mutex
	subs []chan PeerConnected
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel that receives future PeerConnected events.
func (b *Bus) Subscribe() <-chan PeerConnected {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan PeerConnected, 4)
	b.subs = append(b.subs, ch)
	return ch
}

// Publish delivers an event to every subscriber without blocking.
func (b *Bus) Publish(ev PeerConnected) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
