package timeline

import (
	"context"
	"sync"
)

// Emitter is a payload-free broadcast. Listeners present when Fire runs are
// called synchronously in subscription order; there is no buffering, so
// late subscribers never see earlier events.
type Emitter struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]func()
	order     []uint64
}

// NewEmitter creates an emitter with no listeners.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[uint64]func())}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (e *Emitter) Subscribe(fn func()) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.order = append(e.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.listeners, id)
			for i, v := range e.order {
				if v == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Fire calls every current listener. Listeners run outside the emitter lock
// and may subscribe or unsubscribe re-entrantly.
func (e *Emitter) Fire() {
	e.mu.Lock()
	snapshot := make([]func(), 0, len(e.order))
	for _, id := range e.order {
		snapshot = append(snapshot, e.listeners[id])
	}
	e.mu.Unlock()

	for _, fn := range snapshot {
		fn()
	}
}

// Len returns the number of current listeners.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Channel adapts the emitter to a select loop. Events that arrive while a
// previous one is still unread are coalesced. The subscription ends when
// ctx is done; the channel is never closed. A ctx that can never be done
// keeps the subscription for the lifetime of the emitter.
func (e *Emitter) Channel(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	unsubscribe := e.Subscribe(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	if ctx.Done() == nil {
		return ch
	}
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return ch
}
