package domain

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datasetRow(t *testing.T, model, predKey, generator string, metrics map[string]float64) MetricsRow {
	t.Helper()
	return NewMetricsRow(model, predKey, DatasetOrigin(), []string{"ex1", "ex2"}, generator, metrics)
}

// TestMetricsStore_UpsertInsert verifies that a new key inserts a row and
// that stored rows do not alias the caller's metric maps.
func TestMetricsStore_UpsertInsert(t *testing.T) {
	store := NewMetricsStore()

	metrics := map[string]float64{"accuracy": 0.5}
	row := datasetRow(t, "model_a", "label", "classification", metrics)
	store.Upsert(row)

	require.Equal(t, 1, store.Len())
	stored := store.Rows()[0]
	assert.Equal(t, "model_a", stored.Model)
	assert.Equal(t, "dataset", stored.Group)
	assert.Equal(t, []string{"ex1", "ex2"}, stored.ExampleIDs)
	assert.Equal(t, map[string]float64{"accuracy": 0.5}, stored.Metrics["classification"])

	metrics["accuracy"] = 0.9
	assert.Equal(t, 0.5, store.Rows()[0].Metrics["classification"]["accuracy"],
		"stored metrics must not alias the input map")
}

// TestMetricsStore_UpsertIdempotent verifies that applying the same row
// twice leaves the store exactly as after the first application.
func TestMetricsStore_UpsertIdempotent(t *testing.T) {
	store := NewMetricsStore()
	row := datasetRow(t, "model_a", "label", "classification", map[string]float64{"accuracy": 0.5})

	store.Upsert(row)
	first := store.Rows()

	store.Upsert(row)
	second := store.Rows()

	require.Equal(t, 1, store.Len(), "re-upserting the same row must not add entries")
	assert.Equal(t, first, second)
}

// TestMetricsStore_UpsertMergesGenerators verifies generator-level merge
// semantics: new generators accumulate, existing generator entries are
// replaced wholesale, and example IDs are replaced on every upsert.
func TestMetricsStore_UpsertMergesGenerators(t *testing.T) {
	store := NewMetricsStore()

	store.Upsert(datasetRow(t, "model_a", "label", "classification",
		map[string]float64{"accuracy": 0.5, "f1": 0.4}))
	store.Upsert(datasetRow(t, "model_a", "label", "similarity",
		map[string]float64{"exact_match": 1}))

	require.Equal(t, 1, store.Len(), "same key must reconcile into one row")
	row := store.Rows()[0]
	assert.Len(t, row.Metrics, 2, "new generators must accumulate on the row")

	// Replacing a generator drops its previous metrics entirely.
	replacement := NewMetricsRow("model_a", "label", DatasetOrigin(), []string{"ex3"},
		"classification", map[string]float64{"accuracy": 0.75})
	store.Upsert(replacement)

	row = store.Rows()[0]
	assert.Equal(t, map[string]float64{"accuracy": 0.75}, row.Metrics["classification"],
		"existing generator entries are replaced wholesale, not merged per metric")
	assert.Equal(t, map[string]float64{"exact_match": 1}, row.Metrics["similarity"],
		"untouched generators must survive")
	assert.Equal(t, []string{"ex3"}, row.ExampleIDs,
		"example IDs are replaced wholesale on every upsert")
}

// TestMetricsStore_DistinctKeysCoexist verifies that rows differing in any
// key segment occupy distinct entries.
func TestMetricsStore_DistinctKeysCoexist(t *testing.T) {
	store := NewMetricsStore()

	store.Upsert(datasetRow(t, "model_a", "label", "classification", map[string]float64{"accuracy": 1}))
	store.Upsert(datasetRow(t, "model_b", "label", "classification", map[string]float64{"accuracy": 0}))
	store.Upsert(datasetRow(t, "model_a", "toxicity", "classification", map[string]float64{"accuracy": 0.5}))

	faceted, err := DatasetOrigin().Faceted(FacetMap{"language": "en"})
	require.NoError(t, err)
	store.Upsert(NewMetricsRow("model_a", "label", faceted, []string{"ex1"},
		"classification", map[string]float64{"accuracy": 0.25}))

	assert.Equal(t, 4, store.Len())
}

// TestMetricsStore_Evict verifies the named predicates against a mixed
// population of rows.
func TestMetricsStore_Evict(t *testing.T) {
	seed := func(t *testing.T) *MetricsStore {
		t.Helper()
		store := NewMetricsStore()

		store.Upsert(NewMetricsRow("m", "label", DatasetOrigin(), []string{"a"},
			"classification", map[string]float64{"accuracy": 1}))
		store.Upsert(NewMetricsRow("m", "label", SelectionOrigin(), []string{"a"},
			"classification", map[string]float64{"accuracy": 1}))

		slice, err := SliceOrigin("hard")
		require.NoError(t, err)
		store.Upsert(NewMetricsRow("m", "label", slice, []string{"a"},
			"classification", map[string]float64{"accuracy": 1}))

		facetedDataset, err := DatasetOrigin().Faceted(FacetMap{"lang": "en"})
		require.NoError(t, err)
		store.Upsert(NewMetricsRow("m", "label", facetedDataset, []string{"a"},
			"classification", map[string]float64{"accuracy": 1}))

		facetedSelection, err := SelectionOrigin().Faceted(FacetMap{"lang": "en"})
		require.NoError(t, err)
		store.Upsert(NewMetricsRow("m", "label", facetedSelection, []string{"a"},
			"classification", map[string]float64{"accuracy": 1}))

		require.Equal(t, 5, store.Len())
		return store
	}

	t.Run("unfaceted selection rows", func(t *testing.T) {
		store := seed(t)
		removed := store.Evict(UnfacetedOfKind(OriginSelection))
		assert.Equal(t, 1, removed)
		for _, row := range store.Rows() {
			assert.False(t, row.Kind == OriginSelection && !row.IsFaceted(),
				"unfaceted selection rows must be gone")
		}
	})

	t.Run("all faceted rows", func(t *testing.T) {
		store := seed(t)
		removed := store.Evict(Faceted())
		assert.Equal(t, 2, removed)
		for _, row := range store.Rows() {
			assert.False(t, row.IsFaceted(), "faceted rows must be gone")
		}
	})

	t.Run("all slice rows", func(t *testing.T) {
		store := seed(t)
		removed := store.Evict(OfKind(OriginSlice))
		assert.Equal(t, 1, removed)
		for _, row := range store.Rows() {
			assert.NotEqual(t, OriginSlice, row.Kind)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		store := seed(t)
		removed := store.Evict(func(MetricsRow) bool { return false })
		assert.Zero(t, removed)
		assert.Equal(t, 5, store.Len())
	})
}

// TestMetricsStore_InsertionOrder verifies that Rows returns entries in
// insertion order and that eviction preserves the survivors' order.
func TestMetricsStore_InsertionOrder(t *testing.T) {
	store := NewMetricsStore()
	for i := 0; i < 5; i++ {
		store.Upsert(datasetRow(t, fmt.Sprintf("model_%d", i), "label",
			"classification", map[string]float64{"accuracy": 1}))
	}

	rows := store.Rows()
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, fmt.Sprintf("model_%d", i), row.Model)
	}

	store.Evict(func(r MetricsRow) bool { return r.Model == "model_1" || r.Model == "model_3" })
	rows = store.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "model_0", rows[0].Model)
	assert.Equal(t, "model_2", rows[1].Model)
	assert.Equal(t, "model_4", rows[2].Model)
}

// TestMetricsStore_ConcurrentUpserts verifies the store tolerates settling
// results from many goroutines at once.
func TestMetricsStore_ConcurrentUpserts(t *testing.T) {
	store := NewMetricsStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				store.Upsert(NewMetricsRow(fmt.Sprintf("model_%d", n), "label",
					DatasetOrigin(), []string{"ex"}, "classification",
					map[string]float64{"accuracy": float64(j)}))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, store.Len(), "one row per model regardless of interleaving")
}

// TestMetricsStore_SnapshotDoesNotAliasMerges verifies that a Rows snapshot
// is detached from the store: generator merges landing after the snapshot
// was taken must not show through it.
func TestMetricsStore_SnapshotDoesNotAliasMerges(t *testing.T) {
	store := NewMetricsStore()
	store.Upsert(datasetRow(t, "model_a", "label",
		"classification", map[string]float64{"accuracy": 0.5}))

	snapshot := store.Rows()
	require.Len(t, snapshot, 1)

	store.Upsert(datasetRow(t, "model_a", "label",
		"classification", map[string]float64{"accuracy": 0.9}))
	store.Upsert(datasetRow(t, "model_a", "label",
		"similarity", map[string]float64{"exact_match": 1}))

	assert.Equal(t, 0.5, snapshot[0].Metrics["classification"]["accuracy"],
		"snapshot should keep the values it was taken with")
	assert.NotContains(t, snapshot[0].Metrics, "similarity",
		"generators merged after the snapshot should not appear in it")
}

// TestMetricsStore_ConcurrentReadDuringMerge verifies that snapshot readers
// and same-key generator merges can overlap, the situation a table
// projection races a settling batch into. Run under -race.
func TestMetricsStore_ConcurrentReadDuringMerge(t *testing.T) {
	store := NewMetricsStore()
	store.Upsert(datasetRow(t, "model_a", "label",
		"classification", map[string]float64{"accuracy": 0.5}))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			store.Upsert(datasetRow(t, "model_a", "label",
				"classification", map[string]float64{"accuracy": float64(i) / 200}))
			store.Upsert(datasetRow(t, "model_a", "label",
				"regression", map[string]float64{"mse": float64(i)}))
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, row := range store.Rows() {
				for _, metrics := range row.Metrics {
					for name, value := range metrics {
						_ = name
						_ = value
					}
				}
			}
		}
	}()

	wg.Wait()
	assert.Equal(t, 1, store.Len(), "all merges target one logical row")
}
