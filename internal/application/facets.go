package application

import (
	"context"

	"github.com/ahrav/go-scorecard/internal/domain"
)

// UpdateFacetedMetrics partitions the examples by the currently selected
// facet dimensions and issues one batch per non-empty group, each carrying
// that group's facet values. The origin is derived from selectionSource:
// false aggregates as dataset groups, true as selection groups. With no
// facet dimension selected there is nothing to partition and the call is a
// no-op.
func (e *Engine) UpdateFacetedMetrics(ctx context.Context, examples []domain.Example, selectionSource bool) {
	dims := e.facets.FacetDimensions()
	if len(dims) == 0 {
		return
	}

	base := domain.DatasetOrigin()
	if selectionSource {
		base = domain.SelectionOrigin()
	}

	for _, group := range e.grouper.GroupByFeatures(examples, dims) {
		origin, err := base.Faceted(group.Facets)
		if err != nil {
			// Groups without facet values cannot aggregate; a grouper
			// honoring its contract never produces one.
			e.logger.Debug("skipping facet group", "error", err)
			continue
		}
		e.AddMetrics(ctx, group.Examples, origin)
	}
}

// UpdateAllFacetedMetrics synchronously evicts every faceted row, then,
// only when at least one facet dimension is selected, re-aggregates the
// full dataset per facet group and, when non-empty, the current selection.
// With no dimension selected the store ends up with zero faceted rows.
func (e *Engine) UpdateAllFacetedMetrics(ctx context.Context) {
	e.store.Evict(domain.Faceted())

	if len(e.facets.FacetDimensions()) == 0 {
		return
	}

	e.UpdateFacetedMetrics(ctx, e.state.DatasetExamples(), false)
	if selection := e.state.SelectionExamples(); len(selection) > 0 {
		e.UpdateFacetedMetrics(ctx, selection, true)
	}
}

// UpdateSliceMetrics synchronously evicts every slice row, then, when the
// slice facet toggle is enabled, re-aggregates each named slice with a
// non-empty member set under a slice origin carrying the slice name.
func (e *Engine) UpdateSliceMetrics(ctx context.Context) {
	e.store.Evict(domain.OfKind(domain.OriginSlice))

	if !e.facets.SliceFacetsEnabled() {
		return
	}

	for _, name := range e.slices.SliceNames() {
		members := e.slices.SliceExamples(name)
		if len(members) == 0 {
			continue
		}

		origin, err := domain.SliceOrigin(name)
		if err != nil {
			e.logger.Debug("skipping slice", "name", name, "error", err)
			continue
		}
		e.AddMetrics(ctx, members, origin)
	}
}
