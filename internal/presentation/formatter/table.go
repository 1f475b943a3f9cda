package formatter

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/penwyp/go-timeline/internal/presentation/layout"
	"github.com/penwyp/go-timeline/internal/util"
)

const (
	tableTimeLayout = "2006-01-02 15:04"
	minColumnWidth  = 8
)

// Columns that give up width first when the table is too wide
var shrinkOrder = []int{colDescription, colLabel, colSource}

const (
	colTime = iota
	colAge
	colSource
	colLabel
	colDescription
)

type TableFormatter struct {
	opts    Options
	headers []string
	sizer   *layout.Sizer
}

func NewTableFormatter(opts Options) *TableFormatter {
	return &TableFormatter{
		opts:    opts,
		headers: []string{"Time", "Age", "Source", "Event", "Description"},
		sizer:   layout.Stdout(),
	}
}

func (f *TableFormatter) Format(w io.Writer, result *timeline.Result) error {
	now := f.opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	loc := f.opts.location()

	rows := make([][]string, 0, len(result.Items))
	for _, item := range result.Items {
		rows = append(rows, []string{
			item.Timestamp.In(loc).Format(tableTimeLayout),
			util.FormatRelative(item.Timestamp, now),
			item.Source,
			item.Label,
			item.Description,
		})
	}

	summary := fmt.Sprintf("%d events", len(result.Items))
	providers := fmt.Sprintf("%d providers", result.Providers)
	if n := len(result.Failures); n > 0 {
		providers = fmt.Sprintf("%s, %d failed", providers, n)
	}
	footer := []string{"Total", "", "", summary, providers}

	widths := f.calculateColumnWidths(rows, footer)

	b := &strings.Builder{}
	f.writeBorder(b, widths, "top")
	f.writeRow(b, f.headers, widths)
	f.writeBorder(b, widths, "middle")
	for _, row := range rows {
		f.writeRow(b, row, widths)
	}
	f.writeBorder(b, widths, "middle")
	f.writeRow(b, footer, widths)
	f.writeBorder(b, widths, "bottom")

	_, err := io.WriteString(w, b.String())
	return err
}

// calculateColumnWidths sizes columns to content, then shrinks the text
// columns until the table fits MaxWidth.
func (f *TableFormatter) calculateColumnWidths(rows [][]string, footer []string) []int {
	widths := make([]int, len(f.headers))
	measure := func(values []string) {
		for i, value := range values {
			if w := f.sizer.DisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(f.headers)
	for _, row := range rows {
		measure(row)
	}
	measure(footer)

	if f.opts.MaxWidth <= 0 {
		return widths
	}

	excess := tableWidth(widths) - f.opts.MaxWidth
	for _, col := range shrinkOrder {
		if excess <= 0 {
			break
		}
		spare := widths[col] - minColumnWidth
		if spare <= 0 {
			continue
		}
		cut := min(spare, excess)
		widths[col] -= cut
		excess -= cut
	}
	return widths
}

// tableWidth is the rendered line width: one border per column plus the
// trailing one, and a space either side of each cell.
func tableWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	return total
}

func (f *TableFormatter) writeBorder(b *strings.Builder, widths []int, borderType string) {
	var left, middle, right string
	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	b.WriteString(left)
	for i, width := range widths {
		b.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			b.WriteString(middle)
		}
	}
	b.WriteString(right)
	b.WriteString("\n")
}

func (f *TableFormatter) writeRow(b *strings.Builder, values []string, widths []int) {
	b.WriteString("│")
	for i, value := range values {
		// Age is right-aligned
		leftAlign := i != colAge
		b.WriteString(" ")
		b.WriteString(f.sizer.Fit(value, widths[i], leftAlign))
		b.WriteString(" │")
	}
	b.WriteString("\n")
}
