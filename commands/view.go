package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/presentation/formatter"
	"github.com/penwyp/go-timeline/internal/presentation/layout"
	"github.com/penwyp/go-timeline/internal/util"
)

// view holds the rendering settings shared by the query and watch commands
type view struct {
	format  formatter.Formatter
	since   string
	limit   int
	reverse bool
}

func newView() (*view, error) {
	if _, err := util.ParseSince(since, time.Now()); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", limit)
	}

	f, err := formatter.New(outputFormat, formatter.Options{
		Location: util.GetTimeProvider().Location(),
		MaxWidth: layout.Stdout().GetMaxWidth(),
	})
	if err != nil {
		return nil, err
	}
	return &view{format: f, since: since, limit: limit, reverse: reverse}, nil
}

// sinceAt resolves the --since value relative to now; relative windows move
// with now.
func (v *view) sinceAt(now time.Time) time.Time {
	t, err := util.ParseSince(v.since, now)
	if err != nil {
		return time.Time{}
	}
	return t
}

// render writes the result to out and provider failures to errOut.
func (v *view) render(out, errOut io.Writer, result *timeline.Result) error {
	result.Items = applyView(result.Items, v.limit, v.reverse)
	if err := v.format.Format(out, result); err != nil {
		return err
	}
	for _, f := range result.Failures {
		fmt.Fprintln(errOut, util.FormatWarning(f.Error()))
	}
	return nil
}

// applyView keeps the limit most recent items of an ascending timeline and
// optionally reverses it.
func applyView(items []timeline.Item, limit int, reverse bool) []timeline.Item {
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	if !reverse {
		return items
	}
	reversed := make([]timeline.Item, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}
	return reversed
}
