package domain

import (
	"sort"
	"strings"
)

// Key derivation constants. Segments are joined with keySeparator and facet
// pairs with facetSeparator; escaping below guarantees no input can forge
// either separator, so distinct semantic inputs always yield distinct keys.
const (
	keySeparator   = ":"
	facetSeparator = ","
	facetAssign    = "="
	keyEscape      = "\\"
)

// keyEscaper neutralizes every character with structural meaning in a key.
// Escaping the escape character first keeps the encoding reversible.
var keyEscaper = strings.NewReplacer(
	keyEscape, keyEscape+keyEscape,
	keySeparator, keyEscape+keySeparator,
	facetSeparator, keyEscape+facetSeparator,
	facetAssign, keyEscape+facetAssign,
)

// DeriveKey maps a (model, group label, prediction field, facet set) tuple to
// the row's store key. The function is pure and deterministic: semantically
// equal inputs always produce identical keys, and distinct inputs never
// collide, which is what makes MetricsStore.Upsert idempotent per logical
// row. Facet pairs are encoded name=value in sorted name order so that map
// iteration order cannot leak into the key, and names are included so two
// dimensions sharing a value remain distinguishable.
func DeriveKey(model, group, predKey string, facets FacetMap) string {
	var b strings.Builder
	b.WriteString(keyEscaper.Replace(model))
	b.WriteString(keySeparator)
	b.WriteString(keyEscaper.Replace(group))
	b.WriteString(keySeparator)
	b.WriteString(keyEscaper.Replace(predKey))
	b.WriteString(keySeparator)
	b.WriteString(facetSignature(facets))
	return b.String()
}

// facetSignature renders a facet map as its canonical key segment.
// An empty or nil map contributes an empty segment.
func facetSignature(facets FacetMap) string {
	if len(facets) == 0 {
		return ""
	}

	names := make([]string, 0, len(facets))
	for name := range facets {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, len(names))
	for i, name := range names {
		pairs[i] = keyEscaper.Replace(name) + facetAssign + keyEscaper.Replace(facets[name])
	}
	return strings.Join(pairs, facetSeparator)
}
