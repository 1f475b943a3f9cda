package display

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-timeline/internal/util"
)

// TerminalDisplay draws full-screen frames for the watch command. On a
// terminal each frame replaces the previous one in the alternate screen
// buffer; otherwise frames are appended with a separator.
type TerminalDisplay struct {
	out         io.Writer
	interactive bool
	width       int

	mu                sync.Mutex
	inAlternateScreen bool
	previousFrame     string
	lastDraw          time.Time
}

func NewTerminalDisplay(out io.Writer, interactive bool, width int) *TerminalDisplay {
	return &TerminalDisplay{out: out, interactive: interactive, width: width}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.interactive || td.inAlternateScreen {
		return
	}
	io.WriteString(td.out, util.EnterAltScreen+util.ClearScreen+util.ClearScrollback+
		util.ResetScrollRegion+util.HideCursor+util.MoveCursorHome)
	td.inAlternateScreen = true
	td.previousFrame = ""
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	td.mu.Lock()
	defer td.mu.Unlock()
	if !td.inAlternateScreen {
		return
	}
	io.WriteString(td.out, util.ClearScreen+util.MoveCursorHome+util.ShowCursor+util.ExitAltScreen)
	td.inAlternateScreen = false
}

// Render draws frame unless it is identical to the previous one, so an
// idle watch does not flicker or lose the user's text selection.
func (td *TerminalDisplay) Render(frame string) (bool, error) {
	td.mu.Lock()
	defer td.mu.Unlock()

	if frame == td.previousFrame {
		return false, nil
	}

	var b strings.Builder
	switch {
	case td.inAlternateScreen:
		b.WriteString(util.ClearScreen + util.MoveCursorHome)
	case td.previousFrame != "":
		b.WriteString(util.FormatSectionSeparator(td.width))
		b.WriteString("\n")
	}
	b.WriteString(frame)

	if _, err := io.WriteString(td.out, b.String()); err != nil {
		return false, err
	}
	td.previousFrame = frame
	td.lastDraw = time.Now()
	return true, nil
}

// LastDraw returns when a frame was last written.
func (td *TerminalDisplay) LastDraw() time.Time {
	td.mu.Lock()
	defer td.mu.Unlock()
	return td.lastDraw
}
