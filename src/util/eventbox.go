package util

import "sync"

// EventType identifies a kind of event on an EventBox.
type EventType int

// Events maps an EventType to the latest value set for it since the last
// Clear. Multiple Sets of the same EventType before a Wait coalesce into
// one: only the most recent value survives, which is exactly the behavior
// the event loop needs for HeartBeat coalescing.
type Events map[EventType]any

// Clear empties the event map. Unsynchronized; only safe to call from
// within the callback passed to Wait.
func (e *Events) Clear() {
	for k := range *e {
		delete(*e, k)
	}
}

// EventBox is a coalescing, multi-producer / single-consumer mailbox.
// Grounded on github.com/junegunn/fzf's src/util/eventbox.go.
type EventBox struct {
	cond   *sync.Cond
	events Events
	ignore map[EventType]bool
}

// NewEventBox returns a ready-to-use EventBox.
func NewEventBox() *EventBox {
	return &EventBox{
		cond:   sync.NewCond(&sync.Mutex{}),
		events: make(Events),
		ignore: make(map[EventType]bool),
	}
}

// Wait blocks until at least one event is pending, then invokes callback
// with the pending events while holding the lock. The callback is
// responsible for calling events.Clear() before returning if it wants the
// events consumed.
func (b *EventBox) Wait(callback func(*Events)) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	if len(b.events) == 0 {
		b.cond.Wait()
	}
	callback(&b.events)
}

// WaitFor blocks until the given event type appears at least once.
func (b *EventBox) WaitFor(event EventType) {
	for {
		found := false
		b.Wait(func(events *Events) {
			if _, ok := (*events)[event]; ok {
				found = true
			}
		})
		if found {
			return
		}
	}
}

// Set records value under event and wakes any waiter, unless event is
// currently being ignored (see Unwatch).
func (b *EventBox) Set(event EventType, value any) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	b.events[event] = value
	if !b.ignore[event] {
		b.cond.Broadcast()
	}
}

// Peek reports whether event is currently pending, without consuming it.
func (b *EventBox) Peek(event EventType) bool {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	_, ok := b.events[event]
	return ok
}

// Watch resumes delivery of the given event types.
func (b *EventBox) Watch(events ...EventType) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	for _, e := range events {
		delete(b.ignore, e)
	}
}

// Unwatch suppresses wakeups for the given event types; Set still records
// the value, it just won't Broadcast.
func (b *EventBox) Unwatch(events ...EventType) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	for _, e := range events {
		b.ignore[e] = true
	}
}
