package session

import "testing"

func TestBusPublishRunsHandlersInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func() { order = append(order, "first") })
	bus.Subscribe(func() { order = append(order, "second") })
	bus.Subscribe(func() { order = append(order, "third") })

	bus.Publish()

	want := []string{"first", "second", "third"}
	if len(order) != len(want) {
		t.Fatalf("handlers run = %d, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestBusPublishIsNotDeduplicated(t *testing.T) {
	bus := NewBus()

	count := 0
	bus.Subscribe(func() { count++ })

	for range 5 {
		bus.Publish()
	}

	if count != 5 {
		t.Errorf("handler ran %d times, want 5", count)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	unsubscribe := bus.Subscribe(func() { count++ })
	kept := 0
	bus.Subscribe(func() { kept++ })

	bus.Publish()
	unsubscribe()
	bus.Publish()

	if count != 1 {
		t.Errorf("unsubscribed handler ran %d times, want 1", count)
	}
	if kept != 2 {
		t.Errorf("remaining handler ran %d times, want 2", kept)
	}
}

func TestBusUnsubscribeTwiceIsSafe(t *testing.T) {
	bus := NewBus()

	unsubscribe := bus.Subscribe(func() {})
	bus.Subscribe(func() {})

	unsubscribe()
	unsubscribe()

	if bus.Len() != 1 {
		t.Errorf("subscriptions = %d, want 1", bus.Len())
	}
}

func TestBusPublishWithNoSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish() // must not panic
}
