package testutils

import (
	"context"
	"slices"
	"sync"

	"github.com/ahrav/go-scorecard/internal/application"
	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// Workspace is an in-memory implementation of the engine's provider ports
// with mutators that publish the matching workspace events. It stands in
// for the state layer in tests and example programs. Safe for concurrent
// use.
type Workspace struct {
	mu  sync.RWMutex
	bus *application.Bus

	datasetName string
	dataset     []domain.Example
	selection   []domain.Example
	models      []string

	sliceOrder []string
	slices     map[string][]domain.Example

	facetDims   []string
	sliceFacets bool

	calibration map[string]map[string]any
}

// NewWorkspace creates an empty workspace. The bus receives an event after
// each mutation; a nil bus disables publication, leaving the workspace a
// plain provider bundle.
func NewWorkspace(bus *application.Bus) *Workspace {
	return &Workspace{
		bus:         bus,
		slices:      make(map[string][]domain.Example),
		calibration: make(map[string]map[string]any),
	}
}

// Providers bundles the workspace's port implementations for engine
// construction.
func (w *Workspace) Providers() application.Providers {
	return application.Providers{
		State:       w,
		Slices:      w,
		Facets:      w,
		Calibration: w,
	}
}

// DatasetName implements ports.StateProvider.
func (w *Workspace) DatasetName() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.datasetName
}

// DatasetExamples implements ports.StateProvider.
func (w *Workspace) DatasetExamples() []domain.Example {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.dataset)
}

// SelectionExamples implements ports.StateProvider.
func (w *Workspace) SelectionExamples() []domain.Example {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.selection)
}

// ActiveModels implements ports.StateProvider.
func (w *Workspace) ActiveModels() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.models)
}

// SliceNames implements ports.SliceProvider.
func (w *Workspace) SliceNames() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.sliceOrder)
}

// SliceExamples implements ports.SliceProvider.
func (w *Workspace) SliceExamples(name string) []domain.Example {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.slices[name])
}

// FacetDimensions implements ports.FacetSettings.
func (w *Workspace) FacetDimensions() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.facetDims)
}

// SliceFacetsEnabled implements ports.FacetSettings.
func (w *Workspace) SliceFacetsEnabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.sliceFacets
}

// CalibrationConfig implements ports.CalibrationProvider. Models without
// calibration get an empty map.
func (w *Workspace) CalibrationConfig(model string) map[string]any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	cfg, ok := w.calibration[model]
	if !ok {
		return map[string]any{}
	}
	out := make(map[string]any, len(cfg))
	for k, v := range cfg {
		out[k] = v
	}
	return out
}

// SetModels replaces the active model set. Model changes publish no event;
// they take effect on the next triggered aggregation.
func (w *Workspace) SetModels(models ...string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.models = slices.Clone(models)
}

// SetDataset replaces the active dataset and publishes the dataset replaced
// event.
func (w *Workspace) SetDataset(ctx context.Context, name string, examples []domain.Example) {
	w.mu.Lock()
	w.datasetName = name
	w.dataset = slices.Clone(examples)
	w.mu.Unlock()

	w.publish(ctx, application.EventDatasetReplaced)
}

// SetSelection replaces the current selection, empty included, and
// publishes the selection replaced event.
func (w *Workspace) SetSelection(ctx context.Context, examples []domain.Example) {
	w.mu.Lock()
	w.selection = slices.Clone(examples)
	w.mu.Unlock()

	w.publish(ctx, application.EventSelectionReplaced)
}

// SetSlice inserts or replaces the named slice and publishes the slice set
// changed event. New slices append to the display order.
func (w *Workspace) SetSlice(ctx context.Context, name string, examples []domain.Example) {
	w.mu.Lock()
	if _, ok := w.slices[name]; !ok {
		w.sliceOrder = append(w.sliceOrder, name)
	}
	w.slices[name] = slices.Clone(examples)
	w.mu.Unlock()

	w.publish(ctx, application.EventSliceSetChanged)
}

// RemoveSlice deletes the named slice and publishes the slice set changed
// event. Removing an unknown slice still publishes; the handlers re-read
// state either way.
func (w *Workspace) RemoveSlice(ctx context.Context, name string) {
	w.mu.Lock()
	delete(w.slices, name)
	w.sliceOrder = slices.DeleteFunc(w.sliceOrder, func(n string) bool { return n == name })
	w.mu.Unlock()

	w.publish(ctx, application.EventSliceSetChanged)
}

// SetFacetDimensions replaces the selected facet dimensions and publishes
// the facet dimensions changed event.
func (w *Workspace) SetFacetDimensions(ctx context.Context, dims ...string) {
	w.mu.Lock()
	w.facetDims = slices.Clone(dims)
	w.mu.Unlock()

	w.publish(ctx, application.EventFacetDimensionsChanged)
}

// SetSliceFacets flips the slice facet toggle and publishes the toggle
// event.
func (w *Workspace) SetSliceFacets(ctx context.Context, enabled bool) {
	w.mu.Lock()
	w.sliceFacets = enabled
	w.mu.Unlock()

	w.publish(ctx, application.EventSliceFacetsToggled)
}

// SetCalibration replaces the model's calibration config and publishes the
// calibration changed event. A nil config clears the model's calibration.
func (w *Workspace) SetCalibration(ctx context.Context, model string, config map[string]any) {
	w.mu.Lock()
	if config == nil {
		delete(w.calibration, model)
	} else {
		copied := make(map[string]any, len(config))
		for k, v := range config {
			copied[k] = v
		}
		w.calibration[model] = copied
	}
	w.mu.Unlock()

	w.publish(ctx, application.EventCalibrationChanged)
}

func (w *Workspace) publish(ctx context.Context, event application.Event) {
	if w.bus == nil {
		return
	}
	w.bus.Publish(ctx, event)
}

// Verify interface compliance at compile time.
var (
	_ ports.StateProvider       = (*Workspace)(nil)
	_ ports.SliceProvider       = (*Workspace)(nil)
	_ ports.FacetSettings       = (*Workspace)(nil)
	_ ports.CalibrationProvider = (*Workspace)(nil)
)
