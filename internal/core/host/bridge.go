// Package host exposes the timeline service to out-of-process plugin hosts,
// which refer to their providers by integer handles they allocate themselves.
package host

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// ErrHandleInUse is returned when a handle is registered twice without an
// unregister in between.
var ErrHandleInUse = errors.New("provider handle already in use")

// Bridge maps caller-owned handles onto registry registrations.
type Bridge struct {
	service *timeline.Service

	mu      sync.Mutex
	handles map[int]*binding
}

// binding is a handle slot. reg is nil while the registration is in flight.
type binding struct {
	reg *timeline.Registration
}

// NewBridge creates a bridge bound to service.
func NewBridge(service *timeline.Service) *Bridge {
	return &Bridge{
		service: service,
		handles: make(map[int]*binding),
	}
}

// GetTimeline forwards to the service.
func (b *Bridge) GetTimeline(ctx context.Context, resource timeline.Resource, since time.Time) []timeline.Item {
	return b.service.GetTimeline(ctx, resource, since)
}

// RegisterProvider registers p and binds the resulting registration to handle.
// The handle is reserved before the service fires its change event, so
// listeners may call back into the bridge. An UnregisterProvider for the
// handle in that window revokes the new registration.
func (b *Bridge) RegisterProvider(handle int, p timeline.Provider) error {
	slot := &binding{}
	b.mu.Lock()
	if _, exists := b.handles[handle]; exists {
		b.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrHandleInUse, handle)
	}
	b.handles[handle] = slot
	b.mu.Unlock()

	reg, err := b.service.Register(p)

	b.mu.Lock()
	reserved := b.handles[handle] == slot
	if err != nil {
		if reserved {
			delete(b.handles, handle)
		}
		b.mu.Unlock()
		return err
	}
	if !reserved {
		b.mu.Unlock()
		reg.Revoke()
		util.LogDebugf("Bridge: handle %d released while registering provider %s", handle, reg.ID())
		return nil
	}
	slot.reg = reg
	b.mu.Unlock()

	util.LogDebugf("Bridge: handle %d bound to provider %s", handle, reg.ID())
	return nil
}

// UnregisterProvider revokes the registration bound to handle. Unknown
// handles are ignored.
func (b *Bridge) UnregisterProvider(handle int) {
	b.mu.Lock()
	slot, ok := b.handles[handle]
	delete(b.handles, handle)
	b.mu.Unlock()

	if !ok || slot.reg == nil {
		return
	}
	slot.reg.Revoke()
	util.LogDebugf("Bridge: handle %d released provider %s", handle, slot.reg.ID())
}

// Handles returns the bound handles in ascending order.
func (b *Bridge) Handles() []int {
	b.mu.Lock()
	defer b.mu.Unlock()

	handles := make([]int, 0, len(b.handles))
	for h, slot := range b.handles {
		if slot.reg == nil {
			continue
		}
		handles = append(handles, h)
	}
	sort.Ints(handles)
	return handles
}

// Close revokes every bound handle.
func (b *Bridge) Close() {
	for _, h := range b.Handles() {
		b.UnregisterProvider(h)
	}
}
