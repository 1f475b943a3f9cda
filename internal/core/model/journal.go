package model

import "time"

// JournalEvent is one line of a JSONL event journal or of a plugin
// command's output. Either Timestamp (RFC3339) or TsUnixMs must be set;
// Timestamp wins when both are present. Resource is ignored for plugin output.
type JournalEvent struct {
	Timestamp   string `json:"timestamp,omitempty"`
	TsUnixMs    int64  `json:"ts_unix_ms,omitempty"`
	Resource    string `json:"resource"`
	Label       string `json:"label"`
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Time resolves the event timestamp.
func (e JournalEvent) Time() (time.Time, bool) {
	if e.Timestamp != "" {
		t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if e.TsUnixMs > 0 {
		return time.UnixMilli(e.TsUnixMs), true
	}
	return time.Time{}, false
}
