// Package normalizer turns raw JSONL event logs into the ordered,
// deduplicated stream of canonical event records the sync engine consumes.
// Malformed lines are counted and skipped; they never abort a sync and never
// reach an aggregate.
package normalizer

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/clauderank/claude-rank/internal/core/model"
	"github.com/clauderank/claude-rank/internal/data/scanner"
	"github.com/clauderank/claude-rank/internal/util"
)

// rawEvent is the wire shape of one JSONL line.
type rawEvent struct {
	Uuid          string `json:"uuid"`
	Timestamp     string `json:"timestamp"` // RFC3339
	Kind          string `json:"kind"`
	Project       string `json:"project,omitempty"`
	SessionId     string `json:"sessionId"`
	ToolName      string `json:"toolName,omitempty"`
	ToolCallCount int    `json:"toolCallCount,omitempty"`
}

// Normalizer reads event log files from a directory.
type Normalizer struct {
	scanner     *scanner.FileScanner
	concurrency int

	mu    sync.Mutex
	cache map[string]fileCacheEntry // keyed by path
}

type fileCacheEntry struct {
	fingerprint string
	size        int64
	events      []model.EventRecord
}

// parseResult carries one file's parse outcome across the worker boundary.
type parseResult struct {
	file    string
	events  []model.EventRecord
	skipped int
	err     error
}

// New creates a Normalizer over the given event directory.
func New(dataDir string, concurrency int) *Normalizer {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Normalizer{
		scanner:     scanner.NewFileScanner(dataDir),
		concurrency: concurrency,
		cache:       make(map[string]fileCacheEntry),
	}
}

// EventsSince returns every event strictly after the cursor, sorted by
// (timestamp, uuid) and deduplicated by uuid. The caller gets a stream it
// can fold exactly once per cursor advance.
func (n *Normalizer) EventsSince(cursor model.Cursor) ([]model.EventRecord, error) {
	records, err := n.scanner.ScanWithFingerprints()
	if err != nil {
		return nil, fmt.Errorf("scan event files: %w", err)
	}

	start := time.Now()
	results := make(chan parseResult, len(records))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, n.concurrency)

	for _, record := range records {
		wg.Add(1)
		go func(rec scanner.FileRecord) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			events, skipped, err := n.parseFile(rec)
			results <- parseResult{file: rec.Path, events: events, skipped: skipped, err: err}
		}(record)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	seen := make(map[string]bool)
	var all []model.EventRecord
	totalSkipped := 0
	for result := range results {
		if result.err != nil {
			util.LogWarnf("Failed to parse %s: %v", result.file, result.err)
			continue
		}
		totalSkipped += result.skipped
		for _, event := range result.events {
			if seen[event.Uuid] {
				continue
			}
			seen[event.Uuid] = true
			if cursor.Before(&event) {
				all = append(all, event)
			}
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Timestamp != all[j].Timestamp {
			return all[i].Timestamp < all[j].Timestamp
		}
		return all[i].Uuid < all[j].Uuid
	})

	util.LogDebugf("Normalized %d events from %d files in %v (%d malformed lines skipped)",
		len(all), len(records), time.Since(start), totalSkipped)
	return all, nil
}

// parseFile reads one JSONL file, reusing the cached parse when the file's
// fingerprint and size are unchanged.
func (n *Normalizer) parseFile(rec scanner.FileRecord) ([]model.EventRecord, int, error) {
	n.mu.Lock()
	if cached, ok := n.cache[rec.Path]; ok && cached.fingerprint == rec.Fingerprint && cached.size == rec.Size {
		n.mu.Unlock()
		return cached.events, 0, nil
	}
	n.mu.Unlock()

	file, err := os.Open(rec.Path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var events []model.EventRecord
	skipped := 0
	lineCount := 0
	scan := bufio.NewScanner(file)
	scan.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for scan.Scan() {
		lineCount++
		event, err := normalizeLine(scan.Bytes())
		if err != nil {
			skipped++
			util.LogDebugf("Skip invalid event line %s:%d - %v", rec.Path, lineCount, err)
			continue
		}
		events = append(events, event)
	}
	if err := scan.Err(); err != nil {
		return nil, skipped, err
	}

	n.mu.Lock()
	n.cache[rec.Path] = fileCacheEntry{fingerprint: rec.Fingerprint, size: rec.Size, events: events}
	n.mu.Unlock()

	return events, skipped, nil
}

// normalizeLine validates one raw line and converts it to a canonical record.
func normalizeLine(line []byte) (model.EventRecord, error) {
	var raw rawEvent
	if err := sonic.Unmarshal(line, &raw); err != nil {
		return model.EventRecord{}, err
	}
	if !model.ValidKind(raw.Kind) {
		return model.EventRecord{}, fmt.Errorf("unknown event kind %q", raw.Kind)
	}
	if raw.SessionId == "" {
		return model.EventRecord{}, fmt.Errorf("missing sessionId")
	}
	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return model.EventRecord{}, fmt.Errorf("bad timestamp %q: %w", raw.Timestamp, err)
	}
	uuid := raw.Uuid
	if uuid == "" {
		// Stable synthetic identity for hooks that omit uuids.
		uuid = fmt.Sprintf("%s-%d-%s", raw.SessionId, ts.Unix(), raw.Kind)
	}
	return model.EventRecord{
		Uuid:          uuid,
		Timestamp:     ts.Unix(),
		Kind:          raw.Kind,
		ProjectId:     raw.Project,
		SessionId:     raw.SessionId,
		ToolName:      raw.ToolName,
		ToolCallCount: raw.ToolCallCount,
	}, nil
}
