package formatter

import (
	"io"

	"github.com/penwyp/go-timeline/internal/core/timeline"
	"gopkg.in/yaml.v3"
)

type YAMLFormatter struct {
	opts Options
}

func NewYAMLFormatter(opts Options) *YAMLFormatter {
	return &YAMLFormatter{opts: opts}
}

func (f *YAMLFormatter) Format(w io.Writer, result *timeline.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newDocument(result, f.opts.location())); err != nil {
		return err
	}
	return encoder.Close()
}
