package watch

import (
	"errors"
	"time"
)

// WatchConfig contains configuration for the watch command
type WatchConfig struct {
	// File whose timeline is rendered
	Path string

	// Since computes the cutoff at each refresh so relative windows move
	// forward; nil means no cutoff
	Since func(now time.Time) time.Time

	// Quiet period after a file or provider change before re-querying
	Debounce time.Duration

	// Periodic refresh so relative ages stay current; 0 disables it
	RefreshInterval time.Duration
}

// Validate fills defaults and checks required fields
func (c *WatchConfig) Validate() error {
	if c.Path == "" {
		return errors.New("watch path is required")
	}
	if c.Debounce <= 0 {
		c.Debounce = 300 * time.Millisecond
	}
	if c.RefreshInterval < 0 {
		c.RefreshInterval = 0
	}
	if c.Since == nil {
		c.Since = func(time.Time) time.Time { return time.Time{} }
	}
	return nil
}
