package domain

// OriginKind identifies why a metrics row exists: it was aggregated over the
// full dataset, the current selection, or a named slice.
type OriginKind int

const (
	// OriginDataset marks rows aggregated over the full dataset.
	OriginDataset OriginKind = iota

	// OriginSelection marks rows aggregated over the current selection.
	OriginSelection

	// OriginSlice marks rows aggregated over a named slice.
	OriginSlice
)

// String returns the lowercase display form of the kind, which doubles as
// the default group label for dataset and selection rows.
func (k OriginKind) String() string {
	switch k {
	case OriginDataset:
		return "dataset"
	case OriginSelection:
		return "selection"
	case OriginSlice:
		return "slice"
	default:
		return "unknown"
	}
}

// facetedSuffix is appended to the group label of rows carrying facets.
const facetedSuffix = " (faceted)"

// Origin describes the example group a metrics row aggregates over.
// Values are constructed only through DatasetOrigin, SelectionOrigin,
// SliceOrigin, and Faceted, which keeps illegal combinations (a slice
// carrying facets, a faceted row without facet values) unrepresentable.
// The zero value is a dataset origin.
type Origin struct {
	kind   OriginKind
	slice  string
	facets FacetMap
}

// DatasetOrigin returns the origin for rows covering the full dataset.
func DatasetOrigin() Origin { return Origin{kind: OriginDataset} }

// SelectionOrigin returns the origin for rows covering the current selection.
func SelectionOrigin() Origin { return Origin{kind: OriginSelection} }

// SliceOrigin returns the origin for rows covering the named slice.
// The slice name becomes the row's group label.
func SliceOrigin(name string) (Origin, error) {
	if name == "" {
		return Origin{}, ErrEmptySliceName
	}
	return Origin{kind: OriginSlice, slice: name}, nil
}

// Faceted derives a faceted origin from a dataset or selection origin.
// Slice origins cannot be faceted; an empty facet map is rejected because a
// faceted row without facet values would alias its unfaceted counterpart.
func (o Origin) Faceted(facets FacetMap) (Origin, error) {
	if o.kind == OriginSlice {
		return Origin{}, ErrFacetedSlice
	}
	if len(facets) == 0 {
		return Origin{}, ErrEmptyFacets
	}
	return Origin{kind: o.kind, facets: facets.Clone()}, nil
}

// Kind returns the origin's kind.
func (o Origin) Kind() OriginKind { return o.kind }

// SliceName returns the slice name for slice origins and "" otherwise.
func (o Origin) SliceName() string { return o.slice }

// Facets returns the origin's facet values, nil when unfaceted.
func (o Origin) Facets() FacetMap { return o.facets }

// IsFaceted reports whether the origin carries facet values.
func (o Origin) IsFaceted() bool { return len(o.facets) > 0 }

// Label returns the human-readable group label shown in the projected table:
// the slice name for slice origins, otherwise the kind's string form, with a
// faceted marker appended when facet values are present.
func (o Origin) Label() string {
	label := o.kind.String()
	if o.kind == OriginSlice {
		label = o.slice
	}
	if o.IsFaceted() {
		label += facetedSuffix
	}
	return label
}
