package chat

import (
	"sync"

	"github.com/rafidain/schoollink/core/school"
)

type pairKey struct{ a, b string }

// keyOf is the same for (a, b) and (b, a).
func keyOf(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Hub fans stored messages out to the subscribers of their conversation.
type Hub struct {
	mu   sync.Mutex
	subs map[pairKey]map[*Subscription]struct{}
}

var _ school.MessagePublisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{subs: make(map[pairKey]map[*Subscription]struct{})}
}

// Subscribe returns a subscription to the conversation between a and b.
func (h *Hub) Subscribe(a, b string) *Subscription {
	sub := &Subscription{hub: h, key: keyOf(a, b), c: make(chan struct{}, 1)}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[sub.key]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[sub.key] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Publish signals every subscriber of the message's conversation. It never blocks.
func (h *Hub) Publish(msg school.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[keyOf(msg.SenderID, msg.RecipientID)] {
		select {
		case sub.c <- struct{}{}:
		default: // a signal is already pending
		}
	}
}

// Subscribers returns the number of open subscriptions to the conversation between a and b.
func (h *Hub) Subscribers(a, b string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[keyOf(a, b)])
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.key]
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.key)
	}
	close(sub.c)
}

// Subscription receives a signal whenever its conversation may have changed.
// Signals coalesce: many publishes between two reads yield one signal.
type Subscription struct {
	hub *Hub
	key pairKey
	c   chan struct{}
}

// C is closed once the subscription is closed.
func (s *Subscription) C() <-chan struct{} { return s.c }

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() { s.hub.remove(s) }
