package domain

import "sync"

// RowPredicate selects rows for eviction.
type RowPredicate func(MetricsRow) bool

// UnfacetedOfKind matches the unfaceted rows of one origin kind.
// It is the purge predicate used when a source's example set is replaced.
func UnfacetedOfKind(kind OriginKind) RowPredicate {
	return func(r MetricsRow) bool { return r.Kind == kind && !r.IsFaceted() }
}

// OfKind matches every row of one origin kind, faceted or not.
func OfKind(kind OriginKind) RowPredicate {
	return func(r MetricsRow) bool { return r.Kind == kind }
}

// Faceted matches every row carrying facet values.
func Faceted() RowPredicate {
	return func(r MetricsRow) bool { return r.IsFaceted() }
}

// MetricsStore is the authoritative mapping from row key to MetricsRow.
// Rows are addressable only through Upsert and Evict, so every entry's key
// comes from DeriveKey and duplicate keys cannot occur. The store preserves
// insertion order for stable projection and is safe for concurrent use;
// fetch results settle on whichever goroutine ran the batch.
type MetricsStore struct {
	mu    sync.RWMutex
	rows  map[string]MetricsRow
	order []string
}

// NewMetricsStore returns an empty store.
func NewMetricsStore() *MetricsStore {
	return &MetricsStore{rows: make(map[string]MetricsRow)}
}

// Upsert inserts the row under its derived key, or reconciles it with the
// existing entry: ExampleIDs are replaced wholesale and Metrics are merged at
// the generator level, with incoming generator entries replacing existing
// ones as a whole. Applying the same row twice is idempotent.
func (s *MetricsStore) Upsert(row MetricsRow) {
	key := row.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.rows[key]
	if !ok {
		row.Metrics = cloneGeneratorMetrics(row.Metrics)
		s.rows[key] = row
		s.order = append(s.order, key)
		return
	}

	existing.ExampleIDs = row.ExampleIDs
	for generator, metrics := range row.Metrics {
		existing.Metrics[generator] = cloneMetricValues(metrics)
	}
	s.rows[key] = existing
}

// Evict removes every row matching the predicate and returns the number of
// rows removed. Insertion order of the surviving rows is preserved.
func (s *MetricsStore) Evict(match RowPredicate) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	kept := s.order[:0]
	for _, key := range s.order {
		if match(s.rows[key]) {
			delete(s.rows, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
	return removed
}

// Rows returns a snapshot of all rows in insertion order. Each row's
// Metrics maps are deep-copied so the snapshot never aliases store state;
// a projection can iterate it while a settling batch merges into the same
// row keys.
func (s *MetricsStore) Rows() []MetricsRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MetricsRow, len(s.order))
	for i, key := range s.order {
		row := s.rows[key]
		row.Metrics = cloneGeneratorMetrics(row.Metrics)
		out[i] = row
	}
	return out
}

// Len returns the number of rows currently stored.
func (s *MetricsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// cloneGeneratorMetrics deep-copies a generator->metrics mapping so stored
// rows never alias caller-owned maps.
func cloneGeneratorMetrics(in map[string]map[string]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(in))
	for generator, metrics := range in {
		out[generator] = cloneMetricValues(metrics)
	}
	return out
}

// cloneMetricValues copies one generator's metric values.
func cloneMetricValues(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for name, value := range in {
		out[name] = value
	}
	return out
}
