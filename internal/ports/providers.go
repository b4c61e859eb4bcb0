package ports

import "github.com/ahrav/go-scorecard/internal/domain"

// StateProvider exposes the workspace state the engine aggregates over.
// The engine never caches any of it; every (re)aggregation re-reads the
// current values, so providers must return consistent snapshots.
type StateProvider interface {
	// DatasetName returns the active dataset identifier.
	DatasetName() string

	// DatasetExamples returns the full example set of the active dataset.
	DatasetExamples() []domain.Example

	// SelectionExamples returns the currently selected examples.
	// An empty result means no selection is active.
	SelectionExamples() []domain.Example

	// ActiveModels returns the models metrics are computed for, one
	// scoring request each per batch.
	ActiveModels() []string
}

// SliceProvider exposes the named example slices of the workspace.
type SliceProvider interface {
	// SliceNames returns the slice names in display order.
	SliceNames() []string

	// SliceExamples returns the members of the named slice, or an empty
	// result when the slice does not exist.
	SliceExamples(name string) []domain.Example
}

// FacetSettings exposes the facet configuration controlling which derived
// row groups the engine maintains.
type FacetSettings interface {
	// FacetDimensions returns the selected facet feature names in display
	// order. An empty result disables faceted aggregation.
	FacetDimensions() []string

	// SliceFacetsEnabled reports whether per-slice rows are maintained.
	SliceFacetsEnabled() bool
}

// CalibrationProvider exposes per-model scoring calibration, for example
// classification margins. The config travels on every scoring request.
type CalibrationProvider interface {
	// CalibrationConfig returns the model's calibration config, or an
	// empty map when none is set.
	CalibrationConfig(model string) map[string]any
}

// Grouper partitions an example set into disjoint groups keyed by the
// cross-product of the given feature values. The engine uses it for faceted
// aggregation; the default is the pure domain implementation.
type Grouper interface {
	GroupByFeatures(examples []domain.Example, features []string) []domain.FacetGroup
}

// GrouperFunc adapts a plain partition function to the Grouper port.
type GrouperFunc func(examples []domain.Example, features []string) []domain.FacetGroup

// GroupByFeatures implements Grouper.
func (f GrouperFunc) GroupByFeatures(examples []domain.Example, features []string) []domain.FacetGroup {
	return f(examples, features)
}

// Verify interface compliance at compile time.
var _ Grouper = (GrouperFunc)(nil)
