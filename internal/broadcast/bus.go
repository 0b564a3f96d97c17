// Package broadcast implements a small fan-out event bus: any number of
// subscribers receive a copy of every event published, in publication
// order, without ever blocking the publisher.
//
// The shape is lifted directly from the teacher's registry/containerLog
// actor-loop idiom (harpoon-agent/registry.go, harpoon-agent/logs.go): one
// goroutine owns the subscriber set and serializes all adds, removes, and
// deliveries through a handful of command channels.
package broadcast

import "sync"

const subscriberQueueSize = 64

// Bus fans out values of type T to any number of subscribers. The zero
// value is not usable; construct one with New.
type Bus[T any] struct {
	subscribec   chan chan T
	unsubscribec chan chan T
	publishc     chan T
	quitc        chan struct{}

	wg sync.WaitGroup
}

// New starts a Bus's owning goroutine and returns it.
func New[T any]() *Bus[T] {
	b := &Bus[T]{
		subscribec:   make(chan chan T),
		unsubscribec: make(chan chan T),
		publishc:     make(chan T),
		quitc:        make(chan struct{}),
	}
	b.wg.Add(1)
	go b.loop()
	return b
}

// Subscription is a receive endpoint returned by Subscribe. Call Close
// when done to stop receiving and let the bus reclaim the queue.
type Subscription[T any] struct {
	bus *Bus[T]
	c   chan T
}

// C returns the channel events are delivered on.
func (s *Subscription[T]) C() <-chan T { return s.c }

// Close unsubscribes. After Close returns, no further events for this
// subscription are delivered.
func (s *Subscription[T]) Close() {
	select {
	case s.bus.unsubscribec <- s.c:
	case <-s.bus.quitc:
	}
}

// Subscribe returns a new Subscription that will observe every
// subsequent Publish call until it is Closed.
func (b *Bus[T]) Subscribe() *Subscription[T] {
	c := make(chan T, subscriberQueueSize)
	select {
	case b.subscribec <- c:
	case <-b.quitc:
	}
	return &Subscription[T]{bus: b, c: c}
}

// Publish hands a copy of event to every current subscriber. Delivery to
// a given subscriber preserves publish order; a subscriber whose queue is
// full is skipped for this event rather than blocking the publisher -
// the teacher's containerLog.insert does exactly this with its
// select/default pair.
func (b *Bus[T]) Publish(event T) {
	select {
	case b.publishc <- event:
	case <-b.quitc:
	}
}

// Stop shuts the bus down and closes every live subscriber channel.
func (b *Bus[T]) Stop() {
	close(b.quitc)
	b.wg.Wait()
}

func (b *Bus[T]) loop() {
	defer b.wg.Done()

	subscribers := map[chan T]struct{}{}

	for {
		select {
		case c := <-b.subscribec:
			subscribers[c] = struct{}{}

		case c := <-b.unsubscribec:
			if _, ok := subscribers[c]; ok {
				delete(subscribers, c)
				close(c)
			}

		case event := <-b.publishc:
			for c := range subscribers {
				select {
				case c <- event:
				default:
					// Slow subscriber; drop this event for it rather
					// than block every other subscriber and the
					// publisher.
				}
			}

		case <-b.quitc:
			for c := range subscribers {
				close(c)
			}
			return
		}
	}
}
