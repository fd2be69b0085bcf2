package server

import (
	"sync"

	"github.com/google/uuid"
)

// Message is one websocket frame.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Broadcaster fans battle events out to websocket subscribers.
type Broadcaster struct {
	mu sync.RWMutex
	// battle id -> subscriber id -> channel
	subscribers map[string]map[string]chan Message
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]map[string]chan Message),
	}
}

// Register opens a channel for one watcher of a battle and returns its id.
func (b *Broadcaster) Register(battleID string) (string, chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Message, 100)
	if b.subscribers[battleID] == nil {
		b.subscribers[battleID] = make(map[string]chan Message)
	}
	b.subscribers[battleID][id] = ch
	return id, ch
}

// Unregister closes the watcher's channel.
func (b *Broadcaster) Unregister(battleID, subscriberID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[battleID]
	if ch, ok := subs[subscriberID]; ok {
		close(ch)
		delete(subs, subscriberID)
	}
	if len(subs) == 0 {
		delete(b.subscribers, battleID)
	}
}

// Broadcast sends to every watcher of the battle. Slow watchers miss messages.
func (b *Broadcaster) Broadcast(battleID, msgType string, data any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg := Message{Type: msgType, Data: data}
	for _, ch := range b.subscribers[battleID] {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (b *Broadcaster) SubscriberCount(battleID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[battleID])
}
