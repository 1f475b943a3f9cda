package formatter

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/penwyp/go-timeline/internal/core/timeline"
)

type CSVFormatter struct {
	opts Options
}

func NewCSVFormatter(opts Options) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

func (f *CSVFormatter) Format(w io.Writer, result *timeline.Result) error {
	cw := csv.NewWriter(w)

	headers := []string{"Time", "Source", "Label", "ID", "Description", "Detail"}
	if err := cw.Write(headers); err != nil {
		return err
	}

	loc := f.opts.location()
	for _, item := range result.Items {
		record := []string{
			item.Timestamp.In(loc).Format(time.RFC3339),
			item.Source,
			item.Label,
			item.ID,
			item.Description,
			item.Detail,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
