// Package sse fans server-sent events out to per-user subscribers.
package sse

import (
	"log/slog"
	"sync"
)

// Event is one message for a single user's stream.
type Event struct {
	UserID string
	Event  string
	Data   interface{}
}

// Hub tracks subscribers by user id. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	buffer      int
	closed      bool
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a hub whose subscriber channels hold buffer events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 10
	}
	return &Hub{
		buffer:      buffer,
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for userID. The returned cleanup func
// unregisters and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subscribers[userID][ch]; !ok {
				// already closed by Close
				return
			}
			delete(h.subscribers[userID], ch)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every stream of userID and returns how many
// received it.
func (h *Hub) Publish(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
			slog.Warn("sse subscriber buffer full, dropping event", "user_id", userID, "event", event.Event)
		}
	}
	return delivered
}

// SubscriberCount returns the number of open streams for userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// Close ends every open stream. Later subscriptions get a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for userID, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, userID)
	}
	h.closed = true
}
