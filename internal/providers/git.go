package providers

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

const (
	gitFieldSep  = "\x1f"
	gitLogFormat = "%H%x1f%h%x1f%an%x1f%ae%x1f%at%x1f%s"
)

// GitProvider reports the commit history of a file.
type GitProvider struct {
	id     string
	binary string
}

// NewGitProvider creates a git history provider. An empty binary means "git".
func NewGitProvider(id, binary string) *GitProvider {
	if binary == "" {
		binary = "git"
	}
	return &GitProvider{id: id, binary: binary}
}

func (p *GitProvider) ID() string { return p.id }

// ProvideTimeline runs git log --follow for the file. Commits at or before
// since are dropped. Files outside a repository yield no data.
func (p *GitProvider) ProvideTimeline(ctx context.Context, resource timeline.Resource, since time.Time) ([]timeline.Item, error) {
	path, ok := resource.Path()
	if !ok {
		return nil, nil
	}

	// git's --since compares committer dates while items carry the author
	// date, so the cut is done by filterAfter alone.
	args := []string{"-C", filepath.Dir(path), "log", "--follow", "--format=" + gitLogFormat,
		"--", filepath.Base(path)}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") || strings.Contains(msg, "cannot change to") {
			util.LogDebugf("GitProvider: %s is not in a repository", path)
			return nil, nil
		}
		return nil, fmt.Errorf("git log failed: %w: %s", err, msg)
	}

	items := parseGitLog(stdout.String(), p.id)
	return filterAfter(items, since), nil
}

// parseGitLog converts gitLogFormat output into items, skipping malformed lines.
func parseGitLog(out, source string) []timeline.Item {
	var items []timeline.Item
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, gitFieldSep, 6)
		if len(fields) != 6 {
			util.LogDebugf("GitProvider: skip malformed log line %q", line)
			continue
		}
		sec, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			util.LogDebugf("GitProvider: skip line with bad timestamp %q", fields[4])
			continue
		}

		items = append(items, timeline.Item{
			Timestamp:   time.Unix(sec, 0),
			Source:      source,
			Label:       fields[5],
			ID:          fields[1],
			Description: fields[2],
			Detail:      fmt.Sprintf("%s %s <%s>", fields[0], fields[2], fields[3]),
		})
	}
	return items
}

// filterAfter keeps items strictly after since; a zero since keeps everything.
func filterAfter(items []timeline.Item, since time.Time) []timeline.Item {
	if since.IsZero() {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if item.Timestamp.After(since) {
			kept = append(kept, item)
		}
	}
	return kept
}
