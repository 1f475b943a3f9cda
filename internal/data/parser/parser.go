package parser

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-timeline/internal/core/model"
	"github.com/penwyp/go-timeline/internal/util"
)

// Parser parses JSONL journal files, remembering results until the file
// changes on disk.
type Parser struct {
	concurrency int
	mu          sync.Mutex
	cache       map[string]cachedFile
}

type cachedFile struct {
	modTime time.Time
	size    int64
	events  []model.JournalEvent
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File   string
	Events []model.JournalEvent
	Error  error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{
		concurrency: concurrency,
		cache:       make(map[string]cachedFile),
	}
}

// ParseFile parses the journal at path. Lines that are not valid JSON are
// skipped.
func (p *Parser) ParseFile(path string) ([]model.JournalEvent, error) {
	info, err := util.GetFileInfo(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if cached, ok := p.cache[path]; ok && cached.size == info.Size && cached.modTime.Equal(info.ModTime) {
		p.mu.Unlock()
		return cached.events, nil
	}
	p.mu.Unlock()

	util.LogDebug(fmt.Sprintf("Start parsing file: %s", path))

	file, err := os.Open(path)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Failed to open file: %s - %v", path, err))
		return nil, err
	}
	defer file.Close()

	var events []model.JournalEvent
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event model.JournalEvent
		if err := sonic.Unmarshal(line, &event); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %s:%d - %v", path, lineCount, err))
			continue
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		util.LogDebug(fmt.Sprintf("Error scanning file: %s - %v", path, err))
		return nil, err
	}

	p.mu.Lock()
	p.cache[path] = cachedFile{modTime: info.ModTime, size: info.Size, events: events}
	p.mu.Unlock()

	return events, nil
}

// ParseFiles parses files concurrently. The channel is closed once every
// file has been handled; files not yet started when ctx is done are
// reported with ctx.Err().
func (p *Parser) ParseFiles(ctx context.Context, files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebug(fmt.Sprintf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency))

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				results <- ParseResult{File: f, Error: ctx.Err()}
				return
			}
			defer func() { <-semaphore }()

			events, err := p.ParseFile(f)
			if err != nil {
				util.LogDebug(fmt.Sprintf("File parsing failed: %s - %v", f, err))
			}

			results <- ParseResult{File: f, Events: events, Error: err}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebug(fmt.Sprintf("Concurrent parsing finished, total duration: %v", time.Since(start)))
	}()

	return results
}
