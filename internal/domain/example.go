// Package domain provides the pure, dependency-free data model for the
// metrics scorecard: examples, row origins, metrics rows, the keyed row
// store, facet grouping, and the tabular projection of stored rows.
// Nothing in this package performs I/O or talks to a scoring backend;
// those concerns live behind ports and in the infrastructure layer.
package domain

// Example is a single datapoint under evaluation.
// Data carries the example's fields: inputs, gold labels, and any cached
// per-model outputs. Field names are dataset-defined; the local scoring
// backend resolves a model's cached prediction for field F under the
// "model:F" key by convention.
type Example struct {
	// ID uniquely identifies the example within its dataset.
	ID string `json:"id"`

	// Data maps field names to field values.
	Data map[string]any `json:"data"`
}

// Field returns the named field value and whether it is present.
func (e Example) Field(name string) (any, bool) {
	v, ok := e.Data[name]
	return v, ok
}

// ExampleIDs returns the identifiers of the given examples in order.
// The result is a fresh slice; callers may retain it across store updates.
func ExampleIDs(examples []Example) []string {
	if len(examples) == 0 {
		return nil
	}
	ids := make([]string, len(examples))
	for i, ex := range examples {
		ids[i] = ex.ID
	}
	return ids
}

// FacetMap maps a feature name to that feature's display value for one
// partition group. An empty or nil map means no facet filter applies.
type FacetMap map[string]string

// Clone returns an independent copy of the facet map.
// A nil map clones to nil so "no facets" survives round trips.
func (f FacetMap) Clone() FacetMap {
	if f == nil {
		return nil
	}
	out := make(FacetMap, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FacetGroup is one cell of the cross-product partition of an example set:
// the facet values identifying the group and the members that share them.
type FacetGroup struct {
	// Facets holds one value per selected facet dimension.
	Facets FacetMap

	// Examples are the group members, in input order.
	Examples []Example
}
