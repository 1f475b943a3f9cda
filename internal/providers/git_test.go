package providers

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitLog(t *testing.T) {
	out := "aaaa1111\x1faaaa\x1fAda\x1fada@example.com\x1f1700000000\x1fInitial import\n" +
		"garbage line\n" +
		"bbbb2222\x1fbbbb\x1fLinus\x1flinus@example.com\x1fnot-a-number\x1fBroken\n" +
		"cccc3333\x1fcccc\x1fGrace\x1fgrace@example.com\x1f1700000100\x1fFix: handle a\x1fb\n"

	items := parseGitLog(out, "git")
	require.Len(t, items, 2)

	assert.Equal(t, "Initial import", items[0].Label)
	assert.Equal(t, "aaaa", items[0].ID)
	assert.Equal(t, "Ada", items[0].Description)
	assert.Equal(t, "aaaa1111 Ada <ada@example.com>", items[0].Detail)
	assert.Equal(t, time.Unix(1700000000, 0), items[0].Timestamp)
	assert.Equal(t, "git", items[0].Source)

	// the subject is the last field and may contain the separator
	assert.Equal(t, "Fix: handle a\x1fb", items[1].Label)
}

func TestFilterAfter(t *testing.T) {
	base := time.Unix(1000, 0)
	items := []timeline.Item{
		{Timestamp: base.Add(-time.Second)},
		{Timestamp: base},
		{Timestamp: base.Add(time.Second)},
	}

	assert.Len(t, filterAfter(append([]timeline.Item(nil), items...), time.Time{}), 3)

	kept := filterAfter(append([]timeline.Item(nil), items...), base)
	require.Len(t, kept, 1)
	assert.Equal(t, base.Add(time.Second), kept[0].Timestamp)
}

func runGit(t *testing.T, dir string, date string, args ...string) {
	t.Helper()
	runGitDated(t, dir, date, date, args...)
}

func runGitDated(t *testing.T, dir string, authorDate, committerDate string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Tester", "GIT_AUTHOR_EMAIL=tester@example.com",
		"GIT_COMMITTER_NAME=Tester", "GIT_COMMITTER_EMAIL=tester@example.com",
		"GIT_AUTHOR_DATE="+authorDate, "GIT_COMMITTER_DATE="+committerDate,
		"GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}

func TestGitProviderHistory(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "main.go")
	runGit(t, dir, "2024-01-01T10:00:00Z", "init", "-q")

	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0644))
	runGit(t, dir, "2024-01-01T10:00:00Z", "add", "main.go")
	runGit(t, dir, "2024-01-01T10:00:00Z", "commit", "-q", "-m", "Add main")

	require.NoError(t, os.WriteFile(file, []byte("package main\n\nfunc main() {}\n"), 0644))
	runGit(t, dir, "2024-01-02T10:00:00Z", "commit", "-q", "-am", "Add func main")

	p := NewGitProvider("git", "")
	items, err := p.ProvideTimeline(context.Background(), timeline.NewFileResource(file), time.Time{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	labels := []string{items[0].Label, items[1].Label}
	assert.ElementsMatch(t, []string{"Add main", "Add func main"}, labels)
	for _, item := range items {
		assert.Equal(t, "Tester", item.Description)
		assert.NotEmpty(t, item.ID)
	}

	since := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	items, err = p.ProvideTimeline(context.Background(), timeline.NewFileResource(file), since)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Add func main", items[0].Label)
}

func TestGitProviderFiltersByAuthorDate(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "notes.txt")
	runGit(t, dir, "2024-01-01T10:00:00Z", "init", "-q")

	require.NoError(t, os.WriteFile(file, []byte("one\n"), 0644))
	runGit(t, dir, "2024-01-01T10:00:00Z", "add", "notes.txt")
	// authored after since, committed before it
	runGitDated(t, dir, "2024-03-01T10:00:00Z", "2024-01-15T10:00:00Z", "commit", "-q", "-m", "Skewed clock")

	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	items, err := NewGitProvider("git", "").ProvideTimeline(context.Background(), timeline.NewFileResource(file), since)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Skewed clock", items[0].Label)
	assert.True(t, items[0].Timestamp.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
}

func TestGitProviderOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	file := filepath.Join(dir, "loose.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	items, err := NewGitProvider("git", "").ProvideTimeline(context.Background(), timeline.NewFileResource(file), time.Time{})
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestGitProviderNonFileResource(t *testing.T) {
	items, err := NewGitProvider("git", "").ProvideTimeline(context.Background(), "https://example.com/x", time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, items)
}

func TestGitProviderMissingBinary(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := NewGitProvider("git", "definitely-not-git-binary").ProvideTimeline(
		context.Background(), timeline.NewFileResource(file), time.Time{})
	assert.Error(t, err)
}
