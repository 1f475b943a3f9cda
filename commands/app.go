package commands

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/penwyp/go-timeline/internal/config"
	"github.com/penwyp/go-timeline/internal/core/host"
	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/providers"
	"github.com/penwyp/go-timeline/internal/util"
)

// app wires configuration, providers and the timeline service for one
// command invocation.
type app struct {
	loader  *config.Loader
	service *timeline.Service
	bridge  *host.Bridge

	mu    sync.Mutex
	cfg   *config.Config
	bound []boundProvider
}

func newApp() (*app, error) {
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	if err := initRuntime(cfg); err != nil {
		return nil, err
	}
	util.LogDebugf("Loaded configuration from %s (%d providers)", loader.Path(), len(cfg.Providers))

	service := timeline.NewService(timeline.ServiceConfig{Concurrency: cfg.Concurrency})
	a := &app{
		loader:  loader,
		service: service,
		bridge:  host.NewBridge(service),
		cfg:     cfg,
	}
	if err := a.registerProviders(cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// initRuntime sets up logging and the display timezone
func initRuntime(cfg *config.Config) error {
	logLevel := cfg.Log.Level
	if debug {
		logLevel = "debug"
	}

	logFile := cfg.Log.File
	if logFile == "" {
		logFile = defaultLogFile
	}
	logFile = expandPath(logFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := util.InitLogger(logLevel, logFile, debug); err != nil {
		return err
	}
	return util.InitializeTimeProvider(timezone)
}

type boundProvider struct {
	handle   int
	provider timeline.Provider
}

// buildProviders creates every selected provider. A provider's handle is
// its index in the configuration.
func buildProviders(cfg *config.Config) ([]boundProvider, error) {
	var bound []boundProvider
	for i, pc := range cfg.Providers {
		if !selected(providerID(pc)) {
			continue
		}
		p, err := providers.Create(pc, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		bound = append(bound, boundProvider{handle: i, provider: p})
	}

	if len(providerFilter) > 0 && len(bound) == 0 {
		return nil, fmt.Errorf("no configured provider matches %v", providerFilter)
	}
	return bound, nil
}

func (a *app) registerProviders(cfg *config.Config) error {
	bound, err := buildProviders(cfg)
	if err != nil {
		return err
	}
	if err := a.bind(bound); err != nil {
		return err
	}
	a.bound = bound
	return nil
}

func (a *app) bind(bound []boundProvider) error {
	for _, b := range bound {
		if err := a.bridge.RegisterProvider(b.handle, b.provider); err != nil {
			return fmt.Errorf("failed to register provider %s: %w", b.provider.ID(), err)
		}
	}
	return nil
}

// reload swaps the registered providers for those in cfg. When cfg cannot
// be built or bound the previous providers stay registered.
func (a *app) reload(cfg *config.Config) error {
	bound, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.bridge.Close()
	if err := a.bind(bound); err != nil {
		a.bridge.Close()
		if rerr := a.bind(a.bound); rerr != nil {
			util.LogErrorf("Failed to restore previous providers: %v", rerr)
		}
		return err
	}
	a.cfg = cfg
	a.bound = bound
	util.LogInfof("Reloaded %d providers", len(bound))
	return nil
}

func (a *app) currentConfig() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

func (a *app) Close() {
	a.bridge.Close()
}

func providerID(pc providers.Config) string {
	if pc.ID != "" {
		return pc.ID
	}
	return pc.Type
}

func selected(id string) bool {
	return len(providerFilter) == 0 || slices.Contains(providerFilter, id)
}
