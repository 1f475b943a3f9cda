package util

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
)

// FormatRelative renders the distance between t and now, e.g. "3h ago"
func FormatRelative(t, now time.Time) string {
	d := now.Sub(t)
	suffix := "ago"
	if d < 0 {
		d = -d
		suffix = "from now"
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm %s", int(d.Minutes()), suffix)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %s", int(d.Hours()), suffix)
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd %s", int(d.Hours()/24), suffix)
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo %s", int(d.Hours()/(24*30)), suffix)
	default:
		return fmt.Sprintf("%dy %s", int(d.Hours()/(24*365)), suffix)
	}
}

// Truncate shortens s to at most width display cells, marking the cut with "…"
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
