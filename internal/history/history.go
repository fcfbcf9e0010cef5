// Package history persists per-item usage counters used to boost ranking of
// frequently launched items. Reads and writes are best-effort: a missing or
// corrupt store simply means every item ranks with a zero count.
package history

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

type Store struct {
	counts  map[string]uint32
	mu      sync.RWMutex
	file    string
	maxSize int
}

// NewStore loads the usage counters persisted under dataDir. Load failures
// are logged and swallowed; the store starts empty in that case.
func NewStore(dataDir string, maxSize int) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		counts:  make(map[string]uint32),
		file:    filepath.Join(dataDir, "history.json"),
		maxSize: maxSize,
	}

	if err := s.load(); err != nil {
		log.Printf("[HISTORY] Failed to load usage data: %v", err)
	}

	return s, nil
}

// Count returns the usage counter for id, zero when unknown. Stale ids from
// catalogs of past sessions are simply never asked about.
func (s *Store) Count(id string) uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[id]
}

// RecordLaunch increments the counter for id and persists the store.
func (s *Store) RecordLaunch(id string) {
	if id == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[id]++

	if err := s.save(); err != nil {
		log.Printf("[HISTORY] Failed to save usage data: %v", err)
	}
}

// Snapshot returns a copy of all counters.
func (s *Store) Snapshot() map[string]uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]uint32, len(s.counts))
	for id, n := range s.counts {
		out[id] = n
	}
	return out
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var persisted struct {
		UsageCounts map[string]uint32 `json:"usage_counts"`
	}
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("failed to unmarshal usage data: %w", err)
	}
	if persisted.UsageCounts != nil {
		s.counts = persisted.UsageCounts
	}

	log.Printf("[HISTORY] Loaded %d usage records", len(s.counts))
	return nil
}

func (s *Store) save() error {
	s.trim()

	persisted := struct {
		UsageCounts map[string]uint32 `json:"usage_counts"`
	}{UsageCounts: s.counts}

	data, err := json.MarshalIndent(persisted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal usage data: %w", err)
	}

	tempFile := s.file + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp history file: %w", err)
	}
	return os.Rename(tempFile, s.file)
}

// trim drops the least used ids once the store exceeds its configured size.
func (s *Store) trim() {
	if s.maxSize <= 0 || len(s.counts) <= s.maxSize {
		return
	}

	type rec struct {
		id string
		n  uint32
	}
	recs := make([]rec, 0, len(s.counts))
	for id, n := range s.counts {
		recs = append(recs, rec{id, n})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].n != recs[j].n {
			return recs[i].n > recs[j].n
		}
		return recs[i].id < recs[j].id
	})
	for _, r := range recs[s.maxSize:] {
		delete(s.counts, r.id)
	}
}
