// Package event carries fire-and-forget domain events emitted after a
// successful checkout. Event handling never feeds back into the pipeline's
// success or failure.
package event

import (
	"log/slog"
	"sync"
)

// Event is a domain event.
type Event interface {
	Type() string
}

// OrderCreated is emitted once an order and its items are durably persisted.
type OrderCreated struct {
	OrderID       string
	OrderNumber   string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Total         float64
}

// Type implements Event.
func (OrderCreated) Type() string { return "order.created" }

// Dispatcher delivers events to interested handlers.
type Dispatcher interface {
	Dispatch(event Event) error
}

// Handler consumes a single event.
type Handler interface {
	Handle(event Event)
}

// AsyncDispatcher fans events out to handlers on a background goroutine so
// slow consumers (mail, messaging) never block a checkout response.
type AsyncDispatcher struct {
	log      *slog.Logger
	handlers []Handler
	events   chan Event
	wg       sync.WaitGroup
	closed   chan struct{}
}

// NewAsyncDispatcher creates a dispatcher delivering to the given handlers.
func NewAsyncDispatcher(log *slog.Logger, handlers ...Handler) *AsyncDispatcher {
	d := &AsyncDispatcher{
		log:      log,
		handlers: handlers,
		events:   make(chan Event, 64),
		closed:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for e := range d.events {
		for _, h := range d.handlers {
			h.Handle(e)
		}
	}
}

// Dispatch enqueues the event. If the buffer is full or the dispatcher is
// shut down, the event is dropped and logged; delivery is best-effort.
func (d *AsyncDispatcher) Dispatch(e Event) error {
	select {
	case <-d.closed:
		d.log.Warn("event dropped, dispatcher closed", "type", e.Type())
		return nil
	default:
	}

	select {
	case d.events <- e:
	default:
		d.log.Warn("event dropped, queue full", "type", e.Type())
	}
	return nil
}

// Close stops accepting events and waits for in-flight deliveries.
func (d *AsyncDispatcher) Close() {
	close(d.closed)
	close(d.events)
	d.wg.Wait()
}
