package formatter

import (
	"io"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline/internal/core/timeline"
)

type JSONFormatter struct {
	opts Options
}

func NewJSONFormatter(opts Options) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

func (f *JSONFormatter) Format(w io.Writer, result *timeline.Result) error {
	data, err := sonic.ConfigStd.MarshalIndent(newDocument(result, f.opts.location()), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
