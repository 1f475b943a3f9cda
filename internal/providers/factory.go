package providers

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// ErrUnknownProviderType is returned by Create for an unsupported Type
var ErrUnknownProviderType = errors.New("unknown provider type")

// Create builds a provider from configuration, wrapping it with a cache
// when cfg.Cache is set.
func Create(cfg Config, cacheTTL time.Duration) (timeline.Provider, error) {
	id := cfg.ID
	if id == "" {
		id = cfg.Type
	}

	var provider timeline.Provider
	switch cfg.Type {
	case TypeGit:
		provider = NewGitProvider(id, cfg.GitBinary)
	case TypeFileStat:
		provider = NewFileStatProvider(id)
	case TypeJournal:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("provider %s: journal requires dir", id)
		}
		provider = NewJournalProvider(id, cfg.Dir, cfg.Pattern, runtime.NumCPU())
	case TypeCommand:
		if cfg.Command == "" {
			return nil, fmt.Errorf("provider %s: command requires command", id)
		}
		provider = NewCommandProvider(id, cfg.Command, cfg.Args, cfg.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProviderType, cfg.Type)
	}

	if cfg.Cache {
		util.LogDebugf("Enabling result cache for provider %s (ttl %v)", id, cacheTTL)
		return NewCachedProvider(provider, cacheTTL), nil
	}
	return provider, nil
}
