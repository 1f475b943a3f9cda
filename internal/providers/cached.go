package providers

import (
	"context"
	"sync"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// DefaultCacheTTL bounds how long a cached result is served
const DefaultCacheTTL = 5 * time.Minute

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonNotFound
	MissReasonExpired
	MissReasonSize
	MissReasonModTime
	MissReasonInode
	MissReasonFingerprint
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "hit"
	case MissReasonNotFound:
		return "not_found"
	case MissReasonExpired:
		return "expired"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "mod_time"
	case MissReasonInode:
		return "inode"
	case MissReasonFingerprint:
		return "fingerprint"
	default:
		return "unknown"
	}
}

type cacheKey struct {
	resource timeline.Resource
	since    int64
}

// fileStamp identifies a version of the resource file
type fileStamp struct {
	modTime     time.Time
	size        int64
	inode       uint64
	fingerprint string
}

type cacheEntry struct {
	items    []timeline.Item
	storedAt time.Time
	stamp    *fileStamp
}

// CachedProvider wraps another provider and memoizes its results per
// resource and cutoff. For file resources an entry is only served while the
// file's size, mtime, inode and tail fingerprint are unchanged.
type CachedProvider struct {
	provider timeline.Provider
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[cacheKey]*cacheEntry
}

// NewCachedProvider creates a caching decorator. A non-positive ttl uses
// DefaultCacheTTL.
func NewCachedProvider(provider timeline.Provider, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedProvider{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[cacheKey]*cacheEntry),
	}
}

// ID returns the wrapped provider's id so the decorator is transparent to
// the registry.
func (p *CachedProvider) ID() string { return p.provider.ID() }

func (p *CachedProvider) ProvideTimeline(ctx context.Context, resource timeline.Resource, since time.Time) ([]timeline.Item, error) {
	key := cacheKey{resource: resource, since: since.UnixNano()}
	if since.IsZero() {
		key.since = 0
	}
	stamp := stampResource(resource)

	p.mu.Lock()
	entry, found := p.entries[key]
	reason := MissReasonNotFound
	if found {
		reason = p.validate(entry, stamp)
		if reason != MissReasonNone {
			delete(p.entries, key)
		}
	}
	p.mu.Unlock()

	if reason == MissReasonNone {
		util.LogDebugf("CachedProvider %s: hit for %s", p.ID(), resource)
		return cloneItems(entry.items), nil
	}
	util.LogDebugf("CachedProvider %s: miss for %s (%s)", p.ID(), resource, reason)

	items, err := p.provider.ProvideTimeline(ctx, resource, since)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.entries[key] = &cacheEntry{items: cloneItems(items), storedAt: p.now(), stamp: stamp}
	p.mu.Unlock()

	return items, nil
}

// Invalidate drops every cached entry.
func (p *CachedProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = make(map[cacheKey]*cacheEntry)
}

func (p *CachedProvider) validate(entry *cacheEntry, current *fileStamp) CacheMissReason {
	if p.now().Sub(entry.storedAt) >= p.ttl {
		return MissReasonExpired
	}
	cached := entry.stamp
	if cached == nil && current == nil {
		return MissReasonNone
	}
	if cached == nil || current == nil {
		return MissReasonNotFound
	}
	if cached.inode != current.inode {
		return MissReasonInode
	}
	if cached.size != current.size {
		return MissReasonSize
	}
	if !cached.modTime.Equal(current.modTime) {
		return MissReasonModTime
	}
	if cached.fingerprint != current.fingerprint {
		return MissReasonFingerprint
	}
	return MissReasonNone
}

// stampResource returns nil for non-file or missing resources
func stampResource(resource timeline.Resource) *fileStamp {
	path, ok := resource.Path()
	if !ok {
		return nil
	}
	info, err := util.GetFileInfo(path)
	if err != nil {
		return nil
	}
	stamp := &fileStamp{modTime: info.ModTime, size: info.Size, inode: info.Inode}
	if fp, err := util.CalculateFileFingerprint(path); err == nil {
		stamp.fingerprint = fp
	}
	return stamp
}

func cloneItems(items []timeline.Item) []timeline.Item {
	if items == nil {
		return nil
	}
	out := make([]timeline.Item, len(items))
	copy(out, items)
	return out
}
