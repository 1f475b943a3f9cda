package formatter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
)

// Output format names accepted by New
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatYAML  = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formatter renders a query result.
type Formatter interface {
	Format(w io.Writer, result *timeline.Result) error
}

type Options struct {
	// Location for rendered timestamps; nil means time.Local
	Location *time.Location
	// Now is the reference for relative ages in the table
	Now time.Time
	// MaxWidth bounds table lines; 0 means unbounded
	MaxWidth int
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// New returns the formatter for name.
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatTable, "":
		return NewTableFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	case FormatCSV:
		return NewCSVFormatter(opts), nil
	case FormatYAML, "yml":
		return NewYAMLFormatter(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// document is the structured form shared by the json and yaml formatters
type document struct {
	QueryID  string        `json:"query_id" yaml:"query_id"`
	Resource string        `json:"resource" yaml:"resource"`
	Since    string        `json:"since,omitempty" yaml:"since,omitempty"`
	Items    []itemView    `json:"items" yaml:"items"`
	Failures []failureView `json:"failures,omitempty" yaml:"failures,omitempty"`
}

type itemView struct {
	Timestamp   string `json:"timestamp" yaml:"timestamp"`
	Source      string `json:"source" yaml:"source"`
	Label       string `json:"label" yaml:"label"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Detail      string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

type failureView struct {
	Provider string `json:"provider" yaml:"provider"`
	Error    string `json:"error" yaml:"error"`
	Panicked bool   `json:"panicked,omitempty" yaml:"panicked,omitempty"`
}

func newDocument(result *timeline.Result, loc *time.Location) document {
	doc := document{
		QueryID:  result.QueryID,
		Resource: result.Resource.String(),
		Items:    make([]itemView, 0, len(result.Items)),
	}
	if !result.Since.IsZero() {
		doc.Since = result.Since.In(loc).Format(time.RFC3339)
	}
	for _, item := range result.Items {
		doc.Items = append(doc.Items, itemView{
			Timestamp:   item.Timestamp.In(loc).Format(time.RFC3339),
			Source:      item.Source,
			Label:       item.Label,
			ID:          item.ID,
			Description: item.Description,
			Detail:      item.Detail,
		})
	}
	for _, f := range result.Failures {
		doc.Failures = append(doc.Failures, failureView{
			Provider: f.Provider,
			Error:    f.Err.Error(),
			Panicked: f.Panicked,
		})
	}
	return doc
}
