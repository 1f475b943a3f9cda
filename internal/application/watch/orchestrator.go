package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// Source is the part of the timeline service the watch loop needs.
type Source interface {
	Query(ctx context.Context, resource timeline.Resource, since time.Time) *timeline.Result
	Changes(ctx context.Context) <-chan struct{}
}

// Renderer draws one refresh. Errors stop the loop.
type Renderer func(result *timeline.Result) error

// Orchestrator re-renders a file's timeline whenever the file, the provider
// set or the configuration changes.
type Orchestrator struct {
	config   *WatchConfig
	source   Source
	render   Renderer
	resource timeline.Resource

	trigger chan struct{}

	mu      sync.Mutex
	watcher *FileWatcher
	renders int
}

func NewOrchestrator(config *WatchConfig, source Source, render Renderer) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Orchestrator{
		config:   config,
		source:   source,
		render:   render,
		resource: timeline.NewFileResource(config.Path),
		trigger:  make(chan struct{}, 1),
	}, nil
}

// Trigger requests a refresh from outside the loop, e.g. after a
// configuration reload. Requests made while one is pending are merged.
func (o *Orchestrator) Trigger() {
	select {
	case o.trigger <- struct{}{}:
	default:
	}
}

// Renders returns how many times the timeline has been drawn.
func (o *Orchestrator) Renders() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.renders
}

// Run renders once, then refreshes on changes until ctx is done.
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfof("Watching %s", o.config.Path)
	defer o.Close()

	watcher, err := NewFileWatcher(o.config.Path)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	o.mu.Lock()
	o.watcher = watcher
	o.mu.Unlock()

	changes := o.source.Changes(ctx)

	if err := o.refresh(ctx); err != nil {
		return err
	}

	debounce := time.NewTimer(o.config.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	var tick <-chan time.Time
	if o.config.RefreshInterval > 0 {
		ticker := time.NewTicker(o.config.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Stopping watch...")
			return nil

		case event := <-watcher.Events():
			util.LogDebugf("File changed: %s (%s)", event.Path, event.Operation)
			debounce.Reset(o.config.Debounce)

		case <-changes:
			util.LogDebug("Timeline providers changed")
			debounce.Reset(o.config.Debounce)

		case <-o.trigger:
			debounce.Reset(o.config.Debounce)

		case <-debounce.C:
			if err := o.refresh(ctx); err != nil {
				return err
			}

		case <-tick:
			if err := o.refresh(ctx); err != nil {
				return err
			}
		}
	}
}

func (o *Orchestrator) refresh(ctx context.Context) error {
	since := o.config.Since(time.Now())
	result := o.source.Query(ctx, o.resource, since)
	if err := o.render(result); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	o.mu.Lock()
	o.renders++
	o.mu.Unlock()
	return nil
}

// Close stops the file watcher.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	watcher := o.watcher
	o.watcher = nil
	o.mu.Unlock()

	if watcher != nil {
		if err := watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
	}
	return nil
}
