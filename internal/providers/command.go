package providers

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline/internal/core/model"
	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/util"
)

// Environment passed to plugin commands
const (
	EnvResource = "TIMELINE_RESOURCE"
	EnvPath     = "TIMELINE_PATH"
	EnvSince    = "TIMELINE_SINCE"
)

// CommandProvider runs an external plugin program that prints one JSON
// event per line on stdout.
type CommandProvider struct {
	id      string
	command string
	args    []string
	timeout time.Duration
}

// NewCommandProvider creates a plugin provider. A zero timeout means the
// command runs until ctx is done.
func NewCommandProvider(id, command string, args []string, timeout time.Duration) *CommandProvider {
	return &CommandProvider{id: id, command: command, args: args, timeout: timeout}
}

func (p *CommandProvider) ID() string { return p.id }

// ProvideTimeline returns the plugin's events verbatim; since is handed to
// the plugin and interpreting it is the plugin's job. A non-zero exit is an
// error.
func (p *CommandProvider) ProvideTimeline(ctx context.Context, resource timeline.Resource, since time.Time) ([]timeline.Item, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	path, _ := resource.Path()
	sinceValue := ""
	if !since.IsZero() {
		sinceValue = since.UTC().Format(time.RFC3339)
	}

	cmd := exec.CommandContext(ctx, p.command, p.args...)
	cmd.Env = append(os.Environ(),
		EnvResource+"="+resource.String(),
		EnvPath+"="+path,
		EnvSince+"="+sinceValue,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.command, err)
	}

	items, parseErr := p.readItems(stdout)
	if parseErr != nil {
		// drain so the process can exit
		_, _ = io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s exited: %w: %s", p.command, err, strings.TrimSpace(stderr.String()))
	}
	if parseErr != nil {
		return nil, fmt.Errorf("read %s output: %w", p.command, parseErr)
	}
	return items, nil
}

func (p *CommandProvider) readItems(r io.Reader) ([]timeline.Item, error) {
	var items []timeline.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var event model.JournalEvent
		if err := sonic.Unmarshal(line, &event); err != nil {
			util.LogDebugf("CommandProvider %s: skip invalid line %d: %v", p.id, lineNo, err)
			continue
		}
		if item, ok := eventToItem(event, p.id); ok {
			items = append(items, item)
		}
	}
	return items, scanner.Err()
}
