package providers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStatProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0644))
	mtime := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	p := NewFileStatProvider("fs")
	items, err := p.ProvideTimeline(context.Background(), timeline.NewFileResource(path), time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, items)

	modified := items[len(items)-1]
	assert.Equal(t, "Modified", modified.Label)
	assert.Equal(t, "fs", modified.Source)
	assert.Equal(t, "4 bytes", modified.Description)
	assert.True(t, modified.Timestamp.Equal(mtime))

	items, err = p.ProvideTimeline(context.Background(), timeline.NewFileResource(path), mtime)
	require.NoError(t, err)
	for _, item := range items {
		assert.NotEqual(t, "Modified", item.Label)
	}
}

func TestFileStatProviderMissingFile(t *testing.T) {
	items, err := NewFileStatProvider("fs").ProvideTimeline(context.Background(),
		timeline.NewFileResource(filepath.Join(t.TempDir(), "gone")), time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, items)
}
