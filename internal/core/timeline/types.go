package timeline

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// Item is a single chronological event surfaced for a resource.
type Item struct {
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Source      string    `json:"source" yaml:"source"`
	Label       string    `json:"label" yaml:"label"`
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Detail      string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Resource identifies the subject of a timeline query as a URI.
type Resource string

// NewFileResource builds a file:// resource for a local path.
func NewFileResource(path string) Resource {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return Resource(u.String())
}

// ParseResource accepts either a URI with a scheme or a plain path.
func ParseResource(value string) Resource {
	if u, err := url.Parse(value); err == nil && len(u.Scheme) > 1 {
		return Resource(value)
	}
	return NewFileResource(value)
}

// Scheme returns the URI scheme, or "" when the resource does not parse.
func (r Resource) Scheme() string {
	u, err := url.Parse(string(r))
	if err != nil {
		return ""
	}
	return u.Scheme
}

// Path returns the local filesystem path of a file resource.
func (r Resource) Path() (string, bool) {
	u, err := url.Parse(string(r))
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// Matches reports whether ref names this resource, either as the same URI
// or as the same local path.
func (r Resource) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	if string(r) == ref {
		return true
	}
	path, ok := r.Path()
	if !ok {
		return false
	}
	if strings.Contains(ref, "://") {
		other, ok := Resource(ref).Path()
		return ok && filepath.Clean(other) == filepath.Clean(path)
	}
	return filepath.Clean(ref) == filepath.Clean(path)
}

func (r Resource) String() string {
	return string(r)
}

// Provider is a pluggable source of timeline items.
//
// ProvideTimeline returns the items for resource. The meaning of since is
// up to the provider. A nil or empty slice means "no data". Providers should
// stop early when ctx is done.
type Provider interface {
	ID() string
	ProvideTimeline(ctx context.Context, resource Resource, since time.Time) ([]Item, error)
}

// ProviderFunc adapts a plain function into a Provider.
type ProviderFunc struct {
	Name string
	Fn   func(ctx context.Context, resource Resource, since time.Time) ([]Item, error)
}

func (p ProviderFunc) ID() string { return p.Name }

func (p ProviderFunc) ProvideTimeline(ctx context.Context, resource Resource, since time.Time) ([]Item, error) {
	return p.Fn(ctx, resource, since)
}
