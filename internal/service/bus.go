package service

import "sync"

// EventBus fans resource change events out to SSE subscribers.
type EventBus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// Subscription receives events for the resources it asked for.
type Subscription struct {
	C         chan Event
	resources map[string]bool
}

func (s *Subscription) wants(resource string) bool {
	return len(s.resources) == 0 || s.resources[resource]
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[*Subscription]struct{})}
}

// Publish delivers e to every interested subscriber. Slow subscribers miss
// events rather than block the writer.
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(e.Resource) {
			continue
		}
		select {
		case sub.C <- e:
		default:
		}
	}
}

// Subscribe registers interest in the named resources, or in all of them
// when none are given.
func (b *EventBus) Subscribe(resources ...string) *Subscription {
	sub := &Subscription{C: make(chan Event, 16), resources: map[string]bool{}}
	for _, r := range resources {
		sub.resources[r] = true
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *EventBus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.C)
	}
	b.mu.Unlock()
}
