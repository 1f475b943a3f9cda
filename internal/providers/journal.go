package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-timeline/internal/core/model"
	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/data/parser"
	"github.com/penwyp/go-timeline/internal/data/scanner"
	"github.com/penwyp/go-timeline/internal/util"
)

// JournalProvider surfaces events recorded in JSONL journals, such as
// deploy logs or review notes, that mention the queried resource.
type JournalProvider struct {
	id      string
	scanner *scanner.FileScanner
	parser  *parser.Parser
}

// NewJournalProvider creates a journal provider over dir. An empty pattern
// means *.jsonl.
func NewJournalProvider(id, dir, pattern string, concurrency int) *JournalProvider {
	s := scanner.NewFileScanner(dir)
	if pattern != "" {
		s = scanner.NewPatternScanner(dir, pattern)
	}
	return &JournalProvider{
		id:      id,
		scanner: s,
		parser:  parser.NewParser(concurrency),
	}
}

func (p *JournalProvider) ID() string { return p.id }

// ProvideTimeline returns the events for resource that are strictly after
// since. Unreadable journals are skipped; the query only fails when
// discovery itself fails or ctx is cancelled.
func (p *JournalProvider) ProvideTimeline(ctx context.Context, resource timeline.Resource, since time.Time) ([]timeline.Item, error) {
	files, err := p.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("scan journals: %w", err)
	}

	var items []timeline.Item
	for res := range p.parser.ParseFiles(ctx, files) {
		if res.Error != nil {
			util.LogDebugf("JournalProvider: skip %s: %v", res.File, res.Error)
			continue
		}
		for _, event := range res.Events {
			if !resource.Matches(event.Resource) {
				continue
			}
			if item, ok := eventToItem(event, p.id); ok {
				items = append(items, item)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return filterAfter(items, since), nil
}

func eventToItem(event model.JournalEvent, source string) (timeline.Item, bool) {
	ts, ok := event.Time()
	if !ok || event.Label == "" {
		return timeline.Item{}, false
	}
	return timeline.Item{
		Timestamp:   ts,
		Source:      source,
		Label:       event.Label,
		ID:          event.ID,
		Description: event.Description,
		Detail:      event.Detail,
	}, true
}
