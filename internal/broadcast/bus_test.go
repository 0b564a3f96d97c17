package broadcast

import (
	"testing"
	"time"
)

const testTimeout = 500 * time.Millisecond

func expectMessage[T comparable](t *testing.T, c <-chan T, want T) {
	t.Helper()
	select {
	case got := <-c:
		if got != want {
			t.Fatalf("got %v, want %v", got, want)
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %v", want)
	}
}

func expectNoMessage[T any](t *testing.T, c <-chan T) {
	t.Helper()
	select {
	case got, ok := <-c:
		if ok {
			t.Fatalf("got unexpected message %v", got)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeReceivesPublishedValues(t *testing.T) {
	b := New[int]()
	defer b.Stop()

	sub := b.Subscribe()
	b.Publish(1)
	b.Publish(2)

	expectMessage(t, sub.C(), 1)
	expectMessage(t, sub.C(), 2)
}

func TestMultipleSubscribersEachGetACopy(t *testing.T) {
	b := New[string]()
	defer b.Stop()

	a := b.Subscribe()
	c := b.Subscribe()

	b.Publish("hello")

	expectMessage(t, a.C(), "hello")
	expectMessage(t, c.C(), "hello")
}

func TestClosedSubscriptionStopsReceiving(t *testing.T) {
	b := New[int]()
	defer b.Stop()

	sub := b.Subscribe()
	sub.Close()

	b.Publish(42)

	expectNoMessage(t, sub.C())
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := New[int]()
	defer b.Stop()

	b.Subscribe() // never drained
	fast := b.Subscribe()

	for i := 0; i < subscriberQueueSize+10; i++ {
		b.Publish(i)
	}

	// The fast subscriber (which we're about to drain) proves Publish
	// never blocked on the slow one that nobody is draining.
	drained := 0
	for {
		select {
		case <-fast.C():
			drained++
		case <-time.After(100 * time.Millisecond):
			if drained == 0 {
				t.Fatalf("fast subscriber received nothing")
			}
			return
		}
	}
}

func TestStopClosesAllSubscriptions(t *testing.T) {
	b := New[int]()
	sub := b.Subscribe()

	b.Stop()

	select {
	case _, ok := <-sub.C():
		if ok {
			t.Fatalf("expected channel closed after Stop")
		}
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for channel close")
	}
}
