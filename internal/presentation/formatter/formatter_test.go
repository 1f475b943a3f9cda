package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline/internal/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var refNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func sampleResult() *timeline.Result {
	return &timeline.Result{
		QueryID:  "q-1",
		Resource: "file:///srv/app/main.go",
		Since:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Items: []timeline.Item{
			{
				Timestamp:   time.Date(2024, 5, 9, 12, 0, 0, 0, time.UTC),
				Source:      "git",
				Label:       "Fix race in watcher",
				ID:          "abc123",
				Description: "Ada",
				Detail:      "abc123def Ada <ada@example.com>",
			},
			{
				Timestamp: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
				Source:    "filestat",
				Label:     "Modified",
			},
		},
		Failures: []*timeline.ProviderQueryFailure{
			{Provider: "tickets", Err: errors.New("connection refused")},
		},
		Providers: 3,
	}
}

func testOptions() Options {
	return Options{Location: time.UTC, Now: refNow}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"", "table", "json", "CSV", "yaml", "yml"} {
		f, err := New(name, testOptions())
		require.NoError(t, err, name)
		assert.NotNil(t, f)
	}

	_, err := New("xml", testOptions())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(testOptions()).Format(&buf, sampleResult()))

	out := buf.String()
	for _, want := range []string{
		"Time", "Age", "Source", "Event", "Description",
		"2024-05-09 12:00", "1d ago", "git", "Fix race in watcher", "Ada",
		"2024-05-10 09:00", "3h ago", "filestat", "Modified",
		"2 events", "3 providers, 1 failed",
	} {
		assert.Contains(t, out, want)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top, header, separator, two rows, separator, footer, bottom
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[7], "└"))

	width := NewTableFormatter(testOptions()).sizer.DisplayWidth(lines[0])
	for _, line := range lines {
		assert.Equal(t, width, NewTableFormatter(testOptions()).sizer.DisplayWidth(line))
	}
}

func TestTableFormatterMaxWidth(t *testing.T) {
	result := sampleResult()
	result.Items[0].Description = strings.Repeat("long description ", 10)

	opts := testOptions()
	opts.MaxWidth = 90
	f := NewTableFormatter(opts)

	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf, result))

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, f.sizer.DisplayWidth(line), 90)
	}
	assert.Contains(t, buf.String(), "…")
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := NewTableFormatter(testOptions()).Format(&buf, &timeline.Result{Resource: "file:///x"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0 events")
	assert.NotContains(t, buf.String(), "failed")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(testOptions()).Format(&buf, sampleResult()))

	var doc document
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "q-1", doc.QueryID)
	assert.Equal(t, "2024-05-01T00:00:00Z", doc.Since)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "2024-05-09T12:00:00Z", doc.Items[0].Timestamp)
	assert.Equal(t, "abc123", doc.Items[0].ID)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "tickets", doc.Failures[0].Provider)
	assert.Equal(t, "connection refused", doc.Failures[0].Error)

	assert.NotContains(t, buf.String(), `"detail": ""`)
}

func TestJSONFormatterEmptyItemsIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(testOptions()).Format(&buf, &timeline.Result{Resource: "file:///x"}))
	assert.Contains(t, buf.String(), `"items": []`)
	assert.NotContains(t, buf.String(), "since")
}

func TestJSONFormatterTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(Options{Location: loc}).Format(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "2024-05-09T14:00:00+02:00")
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVFormatter(testOptions()).Format(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Time", "Source", "Label", "ID", "Description", "Detail"}, records[0])
	assert.Equal(t, []string{
		"2024-05-09T12:00:00Z", "git", "Fix race in watcher", "abc123", "Ada", "abc123def Ada <ada@example.com>",
	}, records[1])
	assert.Equal(t, "Modified", records[2][2])
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(testOptions()).Format(&buf, sampleResult()))

	var doc document
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "file:///srv/app/main.go", doc.Resource)
	require.Len(t, doc.Items, 2)
	assert.Equal(t, "filestat", doc.Items[1].Source)
	require.Len(t, doc.Failures, 1)
}
