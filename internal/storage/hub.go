package storage

import (
	"context"
	"sync"

	"github.com/julianstephens/daylog/internal/models"
)

// Hub fans settings changes out to in-process subscribers. Each subscriber
// holds at most one undelivered update; a newer update replaces it.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan models.UserSettings]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan models.UserSettings]struct{})}
}

// Subscribe registers a subscriber for userID. The returned channel is closed
// once ctx is done.
func (h *Hub) Subscribe(ctx context.Context, userID string) <-chan models.UserSettings {
	ch := make(chan models.UserSettings, 1)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan models.UserSettings]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[userID], ch)
		if len(h.subs[userID]) == 0 {
			delete(h.subs, userID)
		}
		close(ch)
	}()

	return ch
}

// Publish delivers settings to every subscriber of settings.UserID without blocking.
func (h *Hub) Publish(settings models.UserSettings) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[settings.UserID] {
		select {
		case ch <- settings:
			continue
		default:
		}
		// Drop the stale update so the latest one wins.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- settings:
		default:
		}
	}
}

// Subscribers returns the number of active subscribers for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
