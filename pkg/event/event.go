// Package event provides an in-process event dispatcher.
//
//	d := event.NewDispatcher()
//	d.Listen("order.created", func(ctx context.Context, e event.Event) { ... })
//	d.Fire(ctx, "order.created", payload)
package event

import (
	"context"
	"sync"
)

// Event is one fired occurrence.
type Event struct {
	Name    string
	Payload any
}

// Handler receives fired events.
type Handler func(ctx context.Context, e Event)

// Dispatcher fans events out to the handlers listening on their name.
// The zero value is not usable; call NewDispatcher.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], h)
}

// Fire calls every listener synchronously, in registration order.
func (d *Dispatcher) Fire(ctx context.Context, name string, payload any) {
	e := Event{Name: name, Payload: payload}
	for _, h := range d.listeners(name) {
		h(ctx, e)
	}
}

// FireAsync calls every listener on its own goroutine and returns at once.
// Listeners get a context detached from ctx's cancellation.
func (d *Dispatcher) FireAsync(ctx context.Context, name string, payload any) {
	e := Event{Name: name, Payload: payload}
	bg := context.WithoutCancel(ctx)
	for _, h := range d.listeners(name) {
		go h(bg, e)
	}
}

func (d *Dispatcher) listeners(name string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[name]))
	copy(hs, d.handlers[name])
	return hs
}
