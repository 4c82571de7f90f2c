package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubscribeReceivesInPublishOrder(t *testing.T) {
	bus := NewBus()

	var got []EventType
	unsub := bus.Subscribe(func(e Event) { got = append(got, e.Type) })
	defer unsub()

	bus.Publish(EventOrderCreated, map[string]any{"id": "ORD-1"})
	bus.Publish(EventOrderStatusUpdated, map[string]any{"id": "ORD-1", "status": "preparing"})
	bus.Publish(EventOrderUpdated, map[string]any{"id": "ORD-1"})

	require.Equal(t, []EventType{EventOrderCreated, EventOrderStatusUpdated, EventOrderUpdated}, got)
}

func TestNothingBeforeSubscribeOrAfterUnsubscribe(t *testing.T) {
	bus := NewBus()

	bus.Publish(EventOrderCreated, nil) // nobody listening, lost

	var got int
	unsub := bus.Subscribe(func(Event) { got++ })

	bus.Publish(EventOrderUpdated, nil)
	unsub()
	bus.Publish(EventOrderUpdated, nil)

	assert.Equal(t, 1, got)
	assert.Equal(t, 0, bus.Len())
}

func TestAllSubscribersReceiveEveryEvent(t *testing.T) {
	bus := NewBus()

	counts := make([]int, 3)
	for i := range counts {
		i := i
		defer bus.Subscribe(func(Event) { counts[i]++ })()
	}

	bus.Publish(EventOrderCreated, nil)
	bus.Publish(EventOrderUpdated, nil)

	assert.Equal(t, []int{2, 2, 2}, counts)
}

func TestPanickingSubscriberIsDropped(t *testing.T) {
	bus := NewBus()

	var healthy int
	defer bus.Subscribe(func(Event) { healthy++ })()
	bus.Subscribe(func(Event) { panic("connection gone") })

	require.Equal(t, 2, bus.Len())

	bus.Publish(EventOrderCreated, nil)
	assert.Equal(t, 1, bus.Len())

	// second publish must not be poisoned by the dead subscriber
	bus.Publish(EventOrderUpdated, nil)
	assert.Equal(t, 2, healthy)
}

func TestUnsubscribeTwiceIsHarmless(t *testing.T) {
	bus := NewBus()
	unsub := bus.Subscribe(func(Event) {})
	unsub()
	unsub()
	assert.Equal(t, 0, bus.Len())
}

func TestOnSubscriberCount(t *testing.T) {
	bus := NewBus()

	var last int
	bus.OnSubscriberCount(func(n int) { last = n })

	unsub := bus.Subscribe(func(Event) {})
	assert.Equal(t, 1, last)
	unsub()
	assert.Equal(t, 0, last)
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewBus()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := bus.Subscribe(func(Event) {})
			for j := 0; j < 100; j++ {
				bus.Publish(EventOrderUpdated, j)
			}
			unsub()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, bus.Len())
}
