package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnbound is returned when no handler is bound to an event's kind
var ErrUnbound = errors.New("event: no binding for kind")

// Handler is a callback invoked for one event
type Handler func(Event) error

// Dispatcher: binding table plus a serialized dispatch path.
// Only one handler runs at a time.
type Dispatcher struct {
	bindings map[Kind]Handler
	bindMu   sync.RWMutex
	loopMu   sync.Mutex
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		bindings: make(map[Kind]Handler),
	}
}

// Bind: associates a handler with a kind, replacing any previous binding
func (d *Dispatcher) Bind(kind Kind, h Handler) {
	d.bindMu.Lock()
	defer d.bindMu.Unlock()

	d.bindings[kind] = h
}

// Dispatch: runs the handler bound to ev.Kind and returns once it is done
func (d *Dispatcher) Dispatch(ev Event) error {
	d.bindMu.RLock()
	h, ok := d.bindings[ev.Kind]
	d.bindMu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnbound, ev.Kind.Sequence())
	}

	d.loopMu.Lock()
	defer d.loopMu.Unlock()

	return h(ev)
}

// Run: event loop, dispatches events in arrival order until the channel
// closes or ctx is cancelled. Handler errors go to onErr when it is set.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event, onErr func(Event, error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := d.Dispatch(ev); err != nil && onErr != nil {
				onErr(ev, err)
			}
		}
	}
}
