package realtime

import (
	"sync"
	"time"
)

type EventType string

const (
	EventConnected          EventType = "connected"
	EventOrderCreated       EventType = "order_created"
	EventOrderUpdated       EventType = "order_updated"
	EventOrderStatusUpdated EventType = "order_status_updated"
)

// Event is ephemeral: produced by the lifecycle engine and the settlement
// step, delivered to whoever is connected at emission time, lost otherwise.
type Event struct {
	Type EventType `json:"type"`
	TS   int64     `json:"ts"`
	Data any       `json:"data"`
}

type Subscriber func(Event)

// Bus is a process-scoped broadcast registry. It is handed to the engine and
// to each connection handler as a constructor dependency; there is no global
// instance. Delivery is synchronous per Publish call, so a single subscriber
// sees events in publish order. No buffering, no replay.
type Bus struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]Subscriber
	onCount func(int) // optional observer for subscriber-count changes
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]Subscriber)}
}

// OnSubscriberCount registers a callback invoked with the registry size after
// every subscribe/unsubscribe. Used to keep a metrics gauge current.
func (b *Bus) OnSubscriberCount(fn func(int)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onCount = fn
}

// Subscribe registers fn and returns its unsubscribe function. Unsubscribing
// twice is harmless.
func (b *Bus) Subscribe(fn Subscriber) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.notifyCountLocked()
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
		b.notifyCountLocked()
	}
}

// Publish delivers the event to every currently registered subscriber, in
// arbitrary order. A subscriber that panics is dropped from the registry so
// one dead connection cannot poison subsequent publishes.
func (b *Bus) Publish(eventType EventType, data any) {
	evt := Event{Type: eventType, TS: time.Now().UnixMilli(), Data: data}

	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	fns := make([]Subscriber, 0, len(b.subs))
	for id, fn := range b.subs {
		ids = append(ids, id)
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for i, fn := range fns {
		if ok := b.deliver(fn, evt); !ok {
			b.mu.Lock()
			delete(b.subs, ids[i])
			b.notifyCountLocked()
			b.mu.Unlock()
		}
	}
}

func (b *Bus) deliver(fn Subscriber, evt Event) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	fn(evt)
	return true
}

func (b *Bus) notifyCountLocked() {
	if b.onCount != nil {
		b.onCount(len(b.subs))
	}
}

// Len reports the current number of subscribers.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
