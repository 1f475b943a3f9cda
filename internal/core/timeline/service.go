package timeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-timeline/internal/util"
	"golang.org/x/sync/errgroup"
)

// ServiceConfig tunes the aggregation service. The zero value is usable.
type ServiceConfig struct {
	// Concurrency caps the number of provider calls in flight per query.
	// Zero or negative means one goroutine per provider.
	Concurrency int
}

// Service is the provider registry and the aggregation over it.
// It is safe for concurrent use.
type Service struct {
	mu        sync.RWMutex
	providers map[string]*entry
	nextSeq   uint64

	onDidChangeProviders *Emitter
	concurrency          int
}

type entry struct {
	provider Provider
	reg      *Registration
}

// Registration is the revocation handle returned by Register.
type Registration struct {
	service *Service
	id      string
	seq     uint64
}

// ID returns the id of the registered provider.
func (r *Registration) ID() string {
	return r.id
}

// Revoke removes the provider from the registry. Calling it again, or after
// another provider has taken over the same id, does nothing.
func (r *Registration) Revoke() {
	r.service.revoke(r)
}

// Active reports whether this registration is still the one in the registry.
func (r *Registration) Active() bool {
	r.service.mu.RLock()
	defer r.service.mu.RUnlock()
	e, ok := r.service.providers[r.id]
	return ok && e.reg == r
}

// Result is the outcome of one aggregated query.
type Result struct {
	QueryID   string
	Resource  Resource
	Since     time.Time
	Items     []Item
	Failures  []*ProviderQueryFailure
	Providers int
	Duration  time.Duration
}

type outcome struct {
	items    []Item
	failure  *ProviderQueryFailure
	duration time.Duration
}

// NewService creates an empty registry.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		providers:            make(map[string]*entry),
		onDidChangeProviders: NewEmitter(),
		concurrency:          cfg.Concurrency,
	}
}

// Register adds p to the registry and fires the providers-changed event.
// A second provider with an id already present is rejected with a
// *DuplicateProviderError and the existing provider is kept.
func (s *Service) Register(p Provider) (*Registration, error) {
	if p == nil {
		return nil, errors.New("timeline provider must not be nil")
	}
	id := p.ID()
	if id == "" {
		return nil, ErrEmptyProviderID
	}

	s.mu.Lock()
	if _, exists := s.providers[id]; exists {
		s.mu.Unlock()
		util.LogWarnf("TimelineService: rejected duplicate provider %s", id)
		return nil, &DuplicateProviderError{ID: id}
	}
	s.nextSeq++
	reg := &Registration{service: s, id: id, seq: s.nextSeq}
	s.providers[id] = &entry{provider: p, reg: reg}
	s.mu.Unlock()

	util.LogDebugf("TimelineService: registered provider %s", id)
	s.onDidChangeProviders.Fire()
	return reg, nil
}

// Unregister revokes reg. Nil and already revoked handles are ignored.
func (s *Service) Unregister(reg *Registration) {
	if reg == nil || reg.service != s {
		return
	}
	reg.Revoke()
}

func (s *Service) revoke(reg *Registration) {
	s.mu.Lock()
	e, ok := s.providers[reg.id]
	if !ok || e.reg != reg {
		s.mu.Unlock()
		return
	}
	delete(s.providers, reg.id)
	s.mu.Unlock()

	util.LogDebugf("TimelineService: unregistered provider %s", reg.id)
	s.onDidChangeProviders.Fire()
}

// OnDidChangeProviders subscribes fn to registry membership changes.
func (s *Service) OnDidChangeProviders(fn func()) (unsubscribe func()) {
	return s.onDidChangeProviders.Subscribe(fn)
}

// Changes delivers registry membership changes until ctx is done.
func (s *Service) Changes(ctx context.Context) <-chan struct{} {
	return s.onDidChangeProviders.Channel(ctx)
}

// Providers returns the registered ids in registration order.
func (s *Service) Providers() []string {
	snapshot := s.snapshot()
	ids := make([]string, len(snapshot))
	for i, e := range snapshot {
		ids[i] = e.reg.id
	}
	return ids
}

// snapshot copies the registry in registration order.
func (s *Service) snapshot() []*entry {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.providers))
	for _, e := range s.providers {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].reg.seq < entries[j].reg.seq
	})
	return entries
}

// GetTimeline queries every registered provider and returns their items
// merged and sorted by timestamp. Failing providers contribute nothing.
func (s *Service) GetTimeline(ctx context.Context, resource Resource, since time.Time) []Item {
	return s.Query(ctx, resource, since).Items
}

// Query fans out to the providers registered at the time of the call and
// waits for all of them. since and ctx are passed through unchanged.
//
// Items are ordered by timestamp; equal timestamps keep provider
// registration order and then the provider's own order.
func (s *Service) Query(ctx context.Context, resource Resource, since time.Time) *Result {
	start := time.Now()
	queryID := uuid.NewString()
	ctx = util.ContextWithQueryID(ctx, queryID)
	logger := util.Log().WithContext(ctx)

	snapshot := s.snapshot()
	logger.Debug("TimelineService: dispatching query",
		util.F("resource", resource.String()), util.F("providers", len(snapshot)))

	outcomes := make([]outcome, len(snapshot))
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, e := range snapshot {
		g.Go(func() error {
			outcomes[i] = invoke(ctx, e.provider, resource, since)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, o := range outcomes {
		total += len(o.items)
	}

	result := &Result{
		QueryID:   queryID,
		Resource:  resource,
		Since:     since,
		Items:     make([]Item, 0, total),
		Providers: len(snapshot),
	}

	for i, o := range outcomes {
		id := snapshot[i].reg.id
		if o.failure != nil {
			logger.Warn("TimelineService: provider failed",
				util.F("provider", id), util.F("error", o.failure.Err), util.F("panicked", o.failure.Panicked))
			result.Failures = append(result.Failures, o.failure)
			continue
		}
		logger.Debug("TimelineService: provider done",
			util.F("provider", id), util.F("items", len(o.items)), util.F("duration", o.duration))
		for _, item := range o.items {
			if item.Source == "" {
				item.Source = id
			}
			result.Items = append(result.Items, item)
		}
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].Timestamp.Before(result.Items[j].Timestamp)
	})

	result.Duration = time.Since(start)
	logger.Info("TimelineService: query complete",
		util.F("items", len(result.Items)), util.F("failures", len(result.Failures)),
		util.F("duration", result.Duration))
	return result
}

// invoke calls one provider, converting errors and panics into a failure.
func invoke(ctx context.Context, p Provider, resource Resource, since time.Time) (o outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			o = outcome{failure: &ProviderQueryFailure{
				Provider: p.ID(),
				Err:      fmt.Errorf("%v", r),
				Duration: time.Since(start),
				Panicked: true,
			}}
		}
	}()

	items, err := p.ProvideTimeline(ctx, resource, since)
	if err != nil {
		return outcome{failure: &ProviderQueryFailure{
			Provider: p.ID(),
			Err:      err,
			Duration: time.Since(start),
		}}
	}
	return outcome{items: items, duration: time.Since(start)}
}
