package timeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResource(t *testing.T) {
	abs, err := filepath.Abs("docs/readme.md")
	assert.NoError(t, err)

	tests := []struct {
		name   string
		input  string
		scheme string
		path   string
	}{
		{name: "relative path", input: "docs/readme.md", scheme: "file", path: abs},
		{name: "absolute path", input: "/tmp/a b.txt", scheme: "file", path: "/tmp/a b.txt"},
		{name: "file uri", input: "file:///tmp/x.go", scheme: "file", path: "/tmp/x.go"},
		{name: "other scheme", input: "git://repo/main.go", scheme: "git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseResource(tt.input)
			assert.Equal(t, tt.scheme, r.Scheme())

			path, ok := r.Path()
			if tt.path == "" {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.path, path)
		})
	}
}

func TestResourceMatches(t *testing.T) {
	r := NewFileResource("/srv/app/main.go")

	assert.True(t, r.Matches("/srv/app/main.go"))
	assert.True(t, r.Matches("/srv/app/../app/main.go"))
	assert.True(t, r.Matches("file:///srv/app/main.go"))
	assert.False(t, r.Matches("/srv/app/other.go"))
	assert.False(t, r.Matches(""))
	assert.False(t, Resource("git://x/y").Matches("/x/y"))
}
