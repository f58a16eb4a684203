package service

import (
	"log"
	"sync"

	"anoa.com/dailyguessr/internal/entity"
)

const subscriberBuffer = 8

// Hub fans announcements out to in-process subscribers. A subscriber that
// is not keeping up misses posts instead of blocking the publisher.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan entity.Announcement]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan entity.Announcement]struct{})}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan entity.Announcement, func()) {
	ch := make(chan entity.Announcement, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Broadcast(a entity.Announcement) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for ch := range h.subscribers {
		select {
		case ch <- a:
			delivered++
		default:
			log.Printf("⚠️ Announcement subscriber is full, dropping %s", a.ID)
		}
	}
	return delivered
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
