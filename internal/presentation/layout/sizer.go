package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/penwyp/go-timeline/internal/util"
	"golang.org/x/term"
)

const (
	minTerminalWidth = 60
	widthMargin      = 2
)

// Package-level singleton Sizer bound to stdout
var sharedSizer = NewSizer(int(os.Stdout.Fd()))

// Stdout returns the sizer for standard output.
func Stdout() *Sizer {
	return sharedSizer
}

type Sizer struct {
	fd int
}

func NewSizer(fd int) *Sizer {
	return &Sizer{fd: fd}
}

// DisplayWidth calculates the display width of s, counting wide runes twice
func (s *Sizer) DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads text to a display width
func (s *Sizer) PadString(text string, width int, leftAlign bool) string {
	actualWidth := s.DisplayWidth(text)
	if actualWidth >= width {
		return text
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return text + padding
	}
	return padding + text
}

// Fit truncates text to width and then pads it.
func (s *Sizer) Fit(text string, width int, leftAlign bool) string {
	return s.PadString(util.Truncate(text, width), width, leftAlign)
}

func (s *Sizer) IsTerminal() bool {
	return term.IsTerminal(s.fd)
}

// GetMaxWidth returns the usable terminal width, or 0 when the output is not
// a terminal and lines should not be truncated.
func (s *Sizer) GetMaxWidth() int {
	if !s.IsTerminal() {
		return 0
	}
	termWidth, _, err := term.GetSize(s.fd)
	if err != nil || termWidth < minTerminalWidth {
		termWidth = minTerminalWidth
	}

	maxWidth := termWidth - widthMargin
	util.LogDebugf("GetMaxWidth %d", maxWidth)
	return maxWidth
}
