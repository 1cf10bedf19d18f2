// Package checkpoint implements C8: per-provider processed/failed question
// tracking with batched, atomic saves (spec.md §4.8).
package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultBatchSize = 10

// state is the on-disk payload, one file per provider.
type state struct {
	ProcessedQuestions []string `json:"processed_questions"`
	FailedQuestions    []string `json:"failed_questions"`
	LastUpdated        string   `json:"last_updated"`
}

// Manager tracks one provider's processed/failed sets in memory and
// flushes them to disk in batches.
type Manager struct {
	mu        sync.Mutex
	path      string
	processed map[string]bool
	failed    map[string]bool
	batchSize int
	dirty     int
}

// New loads (or initializes) the checkpoint for provider under dir.
// batchSize <= 0 uses the default of 10.
func New(dir, provider string, batchSize int) (*Manager, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, provider+"_processed.json")

	m := &Manager{
		path:      path,
		processed: make(map[string]bool),
		failed:    make(map[string]bool),
		batchSize: batchSize,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	for _, q := range s.ProcessedQuestions {
		m.processed[q] = true
	}
	for _, q := range s.FailedQuestions {
		m.failed[q] = true
	}
	return m, nil
}

// IsProcessed reports whether qid has already been marked processed.
func (m *Manager) IsProcessed(qid string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processed[qid]
}

// MarkProcessed records qid as processed and removes it from the failed set
// in the same logical update, per spec.md §4.8's invariant. When batch is
// true, the change is held in memory until batchSize updates accumulate or
// Flush is called explicitly.
func (m *Manager) MarkProcessed(qid string, batch bool) error {
	m.mu.Lock()
	m.processed[qid] = true
	delete(m.failed, qid)
	m.dirty++
	shouldSave := !batch || m.dirty >= m.batchSize
	m.mu.Unlock()

	if shouldSave {
		return m.Flush()
	}
	return nil
}

// MarkFailed records qid as failed, following the same batching rule as
// MarkProcessed.
func (m *Manager) MarkFailed(qid string, batch bool) error {
	m.mu.Lock()
	m.failed[qid] = true
	m.dirty++
	shouldSave := !batch || m.dirty >= m.batchSize
	m.mu.Unlock()

	if shouldSave {
		return m.Flush()
	}
	return nil
}

// Flush persists the in-memory state unconditionally.
func (m *Manager) Flush() error {
	m.mu.Lock()
	s := state{
		ProcessedQuestions: keysOf(m.processed),
		FailedQuestions:    keysOf(m.failed),
		LastUpdated:        nowISO8601(),
	}
	m.dirty = 0
	path := m.path
	m.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

func nowISO8601() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z07:00")
}

// Reset clears both sets and flushes immediately.
func (m *Manager) Reset() error {
	m.mu.Lock()
	m.processed = make(map[string]bool)
	m.failed = make(map[string]bool)
	m.mu.Unlock()
	return m.Flush()
}

// Stats returns the current processed/failed counts.
func (m *Manager) Stats() (processed, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processed), len(m.failed)
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

