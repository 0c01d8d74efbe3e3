// Package events implements the per-node lifecycle event bus. One Bus is
// owned by each cluster node; events recorded by a node are observed in
// the order raised relative to that node's state transitions. No total
// order is guaranteed across nodes.
package events

import (
	"sync"
	"time"

	"github.com/overmesh/gridexec/pkg/notifier"
)

const observePollInterval = 10 * time.Millisecond

// Bus is an in-memory, ordered, append-only sink of lifecycle events with
// fan-out to listeners.
type Bus struct {
	mu     sync.RWMutex
	events []Event

	notifier *notifier.Notifier[Event]
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{
		notifier: notifier.NewNotifier[Event](),
	}
}

// Record appends an event and fans it out to listeners.
func (b *Bus) Record(ev Event) {
	b.mu.Lock()
	b.events = append(b.events, ev)
	b.mu.Unlock()

	b.notifier.Notify(ev)
}

// Query returns a snapshot of all recorded events in recording order.
func (b *Bus) Query() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	snapshot := make([]Event, len(b.events))
	copy(snapshot, b.events)
	return snapshot
}

// Listen registers a listener that receives every event recorded after
// the registration.
func (b *Bus) Listen() *notifier.Receiver[Event] {
	return b.notifier.NewReceiver()
}

// Observe polls the recorded events with a bounded wait until the
// predicate holds or the timeout expires. Verification code must use it
// instead of fixed sleeps, since events may arrive late relative to the
// observer.
func (b *Bus) Observe(pred func(events []Event) bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if pred(b.Query()) {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(observePollInterval)
	}
}

// Close releases the listener fan-out. Recorded events remain queryable.
func (b *Bus) Close() {
	b.notifier.Close()
}

// Types projects the event type of each recorded event, preserving order.
func Types(evs []Event) []Type {
	types := make([]Type, 0, len(evs))
	for _, ev := range evs {
		types = append(types, ev.Type)
	}
	return types
}

// ContainsAll reports whether every wanted type occurs in evs.
func ContainsAll(evs []Event, wanted ...Type) bool {
	seen := make(map[Type]struct{}, len(evs))
	for _, ev := range evs {
		seen[ev.Type] = struct{}{}
	}
	for _, tp := range wanted {
		if _, ok := seen[tp]; !ok {
			return false
		}
	}
	return true
}

// FirstOccurrences returns the order in which event types first occur.
func FirstOccurrences(evs []Event) []Type {
	seen := make(map[Type]struct{}, len(evs))
	var order []Type
	for _, ev := range evs {
		if _, ok := seen[ev.Type]; ok {
			continue
		}
		seen[ev.Type] = struct{}{}
		order = append(order, ev.Type)
	}
	return order
}
