package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupByFeatures partitions examples into disjoint groups keyed by the
// cross-product of the given feature values. Only combinations that actually
// occur produce a group, so every group is non-empty; groups appear in
// first-seen order and members keep their input order. With no features
// selected there is nothing to partition and the result is nil.
func GroupByFeatures(examples []Example, features []string) []FacetGroup {
	if len(features) == 0 || len(examples) == 0 {
		return nil
	}

	index := make(map[string]int)
	var groups []FacetGroup
	for _, ex := range examples {
		facets := make(FacetMap, len(features))
		for _, name := range features {
			facets[name] = facetValue(ex, name)
		}

		sig := facetSignature(facets)
		i, ok := index[sig]
		if !ok {
			i = len(groups)
			index[sig] = i
			groups = append(groups, FacetGroup{Facets: facets})
		}
		groups[i].Examples = append(groups[i].Examples, ex)
	}
	return groups
}

// facetValue renders an example's feature value for display and grouping.
// Examples missing the feature group together under the empty value.
func facetValue(ex Example, feature string) string {
	v, ok := ex.Field(feature)
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case []string:
		return strings.Join(t, "|")
	default:
		return fmt.Sprint(t)
	}
}
