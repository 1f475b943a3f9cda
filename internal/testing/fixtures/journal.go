package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline/internal/core/model"
)

// JournalGenerator writes JSONL event journals for tests
type JournalGenerator struct {
	baseDir string
}

func NewJournalGenerator(baseDir string) *JournalGenerator {
	return &JournalGenerator{baseDir: baseDir}
}

func (g *JournalGenerator) BaseDir() string {
	return g.baseDir
}

// GenerateHistory writes n events for resource, step apart starting at
// start, labelled "Event 1" to "Event n".
func (g *JournalGenerator) GenerateHistory(name, resource string, start time.Time, n int, step time.Duration) ([]model.JournalEvent, error) {
	events := make([]model.JournalEvent, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, model.JournalEvent{
			Timestamp: start.Add(time.Duration(i) * step).UTC().Format(time.RFC3339Nano),
			Resource:  resource,
			Label:     fmt.Sprintf("Event %d", i+1),
			ID:        fmt.Sprintf("evt-%d", i+1),
		})
	}
	if _, err := g.WriteJournal(name, events); err != nil {
		return nil, err
	}
	return events, nil
}

// WriteJournal writes events to name under the base directory, one JSON
// object per line, and returns the file path.
func (g *JournalGenerator) WriteJournal(name string, events []model.JournalEvent) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	var data []byte
	for _, event := range events {
		line, err := sonic.Marshal(event)
		if err != nil {
			return "", err
		}
		data = append(data, line...)
		data = append(data, '\n')
	}
	return path, os.WriteFile(path, data, 0644)
}

// CreateEmptyJournal creates an empty journal file.
func (g *JournalGenerator) CreateEmptyJournal(name string) (string, error) {
	return g.WriteJournal(name, nil)
}
