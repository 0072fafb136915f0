// Package events is an in-process activity feed. Handlers publish a
// record event after each successful mutation; dashboard clients follow
// the feed over SSE to refresh without polling.
package events

import (
	"context"
	"sync"
	"time"
)

// Event describes one record mutation.
type Event struct {
	Type      string    `json:"type"` // e.g. "expense.create", "invoice.status"
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	CompanyID string    `json:"companyId"`
	Timestamp time.Time `json:"timestamp"`
}

// Feed fan-outs events to all active subscribers (SSE clients).
type Feed struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// New initialises an empty feed.
func New() *Feed {
	return &Feed{subs: make(map[int]chan Event)}
}

// Subscribe registers a subscriber and returns a channel which will
// receive events. The channel is closed when the provided context ends.
func (f *Feed) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 16)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs, id)
		close(ch)
		f.mu.Unlock()
	}()

	return ch
}

// Publish fan-outs the event to all subscribers.
func (f *Feed) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, ch := range f.subs {
		select {
		case ch <- evt:
		default:
			// Drop when subscriber is slow to avoid blocking.
		}
	}
}
