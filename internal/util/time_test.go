package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	t.Cleanup(func() {
		mu.Lock()
		globalTimeProvider = nil
		mu.Unlock()
	})

	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "local timezone", timezone: "Local"},
		{name: "empty means local", timezone: ""},
		{name: "UTC timezone", timezone: "UTC"},
		{name: "valid timezone Asia/Shanghai", timezone: "Asia/Shanghai"},
		{name: "invalid timezone", timezone: "Mars/Olympus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestTimeProviderFormat(t *testing.T) {
	tp := &TimeProvider{}
	require.NoError(t, tp.SetTimezone("UTC"))

	ts := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "2024-03-01 11:30", tp.Format(ts, "2006-01-02 15:04"))
}

func TestParseSince(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty", input: "", want: time.Time{}},
		{name: "hours", input: "12h", want: now.Add(-12 * time.Hour)},
		{name: "days", input: "7d", want: now.Add(-7 * 24 * time.Hour)},
		{name: "combined", input: "2w3d", want: now.Add(-17 * 24 * time.Hour)},
		{name: "month", input: "1m", want: now.Add(-30 * 24 * time.Hour)},
		{name: "rfc3339", input: "2024-01-02T03:04:05Z", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{name: "date", input: "2024-01-02", want: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", input: "yesterday", wantErr: true},
		{name: "trailing junk", input: "7dx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}
