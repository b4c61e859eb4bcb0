package domain

import "errors"

// Common domain errors returned by origin construction.
var (
	// ErrEmptySliceName indicates a slice origin was requested without a name.
	ErrEmptySliceName = errors.New("slice name cannot be empty")

	// ErrFacetedSlice indicates an attempt to attach facets to a slice origin.
	ErrFacetedSlice = errors.New("slice origins cannot carry facets")

	// ErrEmptyFacets indicates a faceted origin was requested with no facet
	// values; such a row would alias its unfaceted counterpart.
	ErrEmptyFacets = errors.New("faceted origin requires at least one facet value")
)
