package usecase

import (
	"sync"

	"BackScan/internal/domain/models"
)

// ResultStore holds the growing list of per-symbol outcomes for the current
// run. Append-only while a run is active; Reset replaces everything when a
// new run starts. Readers always get a copy, so a snapshot taken mid-run
// stays stable while the runner keeps appending.
type ResultStore struct {
	mu      sync.RWMutex
	records []models.ResultRecord
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Add appends one record. No deduplication: a symbol dispatched twice yields
// two records.
func (s *ResultStore) Add(rec models.ResultRecord) {
	s.mu.Lock()
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// Snapshot returns a copy of all records in insertion order.
func (s *ResultStore) Snapshot() []models.ResultRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ResultRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the current record count.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Reset discards all records. Called only when a new run starts.
func (s *ResultStore) Reset() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}
