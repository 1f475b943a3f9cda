package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// FileStatProvider reports filesystem events for a file: its creation
// (where the filesystem records a birth time) and its last modification.
type FileStatProvider struct {
	id string
}

// NewFileStatProvider creates a filesystem metadata provider.
func NewFileStatProvider(id string) *FileStatProvider {
	return &FileStatProvider{id: id}
}

func (p *FileStatProvider) ID() string { return p.id }

func (p *FileStatProvider) ProvideTimeline(ctx context.Context, resource timeline.Resource, since time.Time) ([]timeline.Item, error) {
	path, ok := resource.Path()
	if !ok {
		return nil, nil
	}

	info, err := util.GetFileInfo(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	items := make([]timeline.Item, 0, 2)
	if !info.BirthTime.IsZero() {
		items = append(items, timeline.Item{
			Timestamp: info.BirthTime,
			Source:    p.id,
			Label:     "Created",
			ID:        "created",
		})
	}
	items = append(items, timeline.Item{
		Timestamp:   info.ModTime,
		Source:      p.id,
		Label:       "Modified",
		ID:          "modified",
		Description: fmt.Sprintf("%d bytes", info.Size),
	})

	return filterAfter(items, since), nil
}
