package services

import (
	"sync"
)

// Change feed event classes, mirroring the row store's insert/delete
// notifications.
const (
	TableDiscussions = "discussions"
	TableVotes       = "votes"

	EventInsert = "INSERT"
	EventDelete = "DELETE"
)

// ChangeEvent describes a single row-store mutation.
type ChangeEvent struct {
	Table string
	Event string
}

// Subscription is the handle returned by Subscribe. Releasing it is the
// caller's job; a leaked handle is a resource leak, not a correctness
// bug, since each subscription is independent.
type Subscription struct {
	id  uint64
	hub *ChangeHub
}

// Unsubscribe releases the subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.hub == nil {
		return
	}
	s.hub.mu.Lock()
	delete(s.hub.subs, s.id)
	s.hub.mu.Unlock()
}

type subscriber struct {
	table  string
	events map[string]bool
	fn     func(ChangeEvent)
}

// ChangeHub fans row-store change events out to subscribers. Callbacks
// run on their own goroutines and may fire at arbitrary times after
// subscription; callers must tolerate racing with a manual refresh
// (last write wins, no ordering guarantee).
type ChangeHub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]subscriber
}

var (
	changeHub     *ChangeHub
	changeHubOnce sync.Once
)

// GetChangeHub returns the process-wide hub.
func GetChangeHub() *ChangeHub {
	changeHubOnce.Do(func() {
		changeHub = NewChangeHub()
	})
	return changeHub
}

func NewChangeHub() *ChangeHub {
	return &ChangeHub{
		subs: make(map[uint64]subscriber),
	}
}

// Subscribe registers fn for the given table and event types and returns
// a handle for teardown.
func (h *ChangeHub) Subscribe(table string, events []string, fn func(ChangeEvent)) *Subscription {
	eventSet := make(map[string]bool, len(events))
	for _, e := range events {
		eventSet[e] = true
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = subscriber{table: table, events: eventSet, fn: fn}
	h.mu.Unlock()

	return &Subscription{id: id, hub: h}
}

// Publish delivers an event to every matching subscriber.
func (h *ChangeHub) Publish(event ChangeEvent) {
	h.mu.RLock()
	targets := make([]func(ChangeEvent), 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.table == event.Table && sub.events[event.Event] {
			targets = append(targets, sub.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range targets {
		go fn(event)
	}
}
