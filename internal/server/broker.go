package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/boardquiz/internal/game"
)

// Broker is an in-process pub/sub that fans session snapshots out to
// SSE and WebSocket subscribers.
type Broker struct {
	mu   sync.RWMutex
	subs map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded snapshots.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the subscribers.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// Publish sends snap to every subscriber. It never blocks, so it can be
// used as a game.Options.OnChange hook.
func (b *Broker) Publish(snap game.Snapshot) {
	data, _ := json.Marshal(snap)
	b.mu.RLock()
	for ch := range b.subs {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
