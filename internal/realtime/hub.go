// Package realtime delivers row change events to live subscribers, filtered by table, event
// type and row id.
package realtime

import (
	"sync"
	"sync/atomic"
)

const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
	EventAny    = "*"

	TableOrders = "orders"
)

// Event describes one change to one row.
type Event struct {
	Table  string      `json:"table"`
	Type   string      `json:"eventType"`
	ID     string      `json:"id"`
	Record interface{} `json:"new,omitempty"`
}

// Filter selects events. Empty fields and EventAny match everything.
type Filter struct {
	Table string
	Event string
	ID    string
}

func (f Filter) Matches(e Event) bool {
	if f.Table != "" && f.Table != e.Table {
		return false
	}
	if f.Event != "" && f.Event != EventAny && f.Event != e.Type {
		return false
	}
	if f.ID != "" && f.ID != e.ID {
		return false
	}
	return true
}

type subscription struct {
	filter Filter
	ch     chan Event
}

// Hub fans events out to subscribers. Publish never blocks: a subscriber whose buffer is full
// misses the event and is expected to refetch.
type Hub struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscription
	next    uint64
	dropped atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscription)}
}

// Subscribe registers a filter. The returned cancel func unregisters it and closes the channel;
// it is safe to call more than once.
func (h *Hub) Subscribe(filter Filter, buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscription{filter: filter, ch: make(chan Event, buffer)}

	h.mu.Lock()
	h.next++
	id := h.next
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

func (h *Hub) Publish(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.filter.Matches(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
