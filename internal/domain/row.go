package domain

// MetricsRow is one aggregation unit: the metrics computed for a
// (model, example group, prediction field) combination.
type MetricsRow struct {
	// Model identifies the scored model.
	Model string

	// Group is the human-readable label for the example group: "dataset",
	// "selection", a slice name, or any of those with a faceted marker.
	Group string

	// PredKey is the prediction field the metrics were computed against.
	PredKey string

	// ExampleIDs lists the examples currently contributing to the row.
	// It is replaced wholesale on every refresh, never appended to.
	ExampleIDs []string

	// Metrics maps a generator name to that generator's metric values.
	// Upsert merges at the generator level: a generator's entry is always
	// replaced as a whole, never merged metric by metric.
	Metrics map[string]map[string]float64

	// Kind records why the row exists.
	Kind OriginKind

	// Facets holds the row's facet values; nil for unfaceted rows.
	Facets FacetMap
}

// NewMetricsRow builds a row for one generator's field result.
// The caller supplies the generator name and its metric values; further
// generators for the same logical row accumulate through MetricsStore.Upsert.
func NewMetricsRow(model, predKey string, origin Origin, exampleIDs []string, generator string, metrics map[string]float64) MetricsRow {
	return MetricsRow{
		Model:      model,
		Group:      origin.Label(),
		PredKey:    predKey,
		ExampleIDs: exampleIDs,
		Metrics:    map[string]map[string]float64{generator: metrics},
		Kind:       origin.Kind(),
		Facets:     origin.Facets().Clone(),
	}
}

// Key returns the row's identity in the store, derived from the model, group
// label, prediction field, and facet signature.
func (r MetricsRow) Key() string {
	return DeriveKey(r.Model, r.Group, r.PredKey, r.Facets)
}

// IsFaceted reports whether the row carries facet values.
func (r MetricsRow) IsFaceted() bool { return len(r.Facets) > 0 }
