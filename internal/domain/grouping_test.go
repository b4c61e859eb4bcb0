package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGroupByFeatures_CrossProduct verifies partitioning by two dimensions
// over four examples split evenly into two combinations.
func TestGroupByFeatures_CrossProduct(t *testing.T) {
	examples := []Example{
		{ID: "a", Data: map[string]any{"language": "en", "length": "short"}},
		{ID: "b", Data: map[string]any{"language": "en", "length": "short"}},
		{ID: "c", Data: map[string]any{"language": "de", "length": "long"}},
		{ID: "d", Data: map[string]any{"language": "de", "length": "long"}},
	}

	groups := GroupByFeatures(examples, []string{"language", "length"})
	require.Len(t, groups, 2, "two occurring combinations must yield two groups")

	assert.Equal(t, FacetMap{"language": "en", "length": "short"}, groups[0].Facets)
	assert.Equal(t, []string{"a", "b"}, ExampleIDs(groups[0].Examples))

	assert.Equal(t, FacetMap{"language": "de", "length": "long"}, groups[1].Facets)
	assert.Equal(t, []string{"c", "d"}, ExampleIDs(groups[1].Examples))
}

// TestGroupByFeatures_OnlyOccurringCombinations verifies that combinations
// absent from the data produce no groups.
func TestGroupByFeatures_OnlyOccurringCombinations(t *testing.T) {
	examples := []Example{
		{ID: "a", Data: map[string]any{"language": "en", "length": "short"}},
		{ID: "b", Data: map[string]any{"language": "de", "length": "long"}},
	}

	groups := GroupByFeatures(examples, []string{"language", "length"})
	assert.Len(t, groups, 2, "en/long and de/short never occur and must not appear")
}

// TestGroupByFeatures_Edges covers empty inputs and missing features.
func TestGroupByFeatures_Edges(t *testing.T) {
	t.Run("no features selected", func(t *testing.T) {
		examples := []Example{{ID: "a", Data: map[string]any{"x": 1}}}
		assert.Nil(t, GroupByFeatures(examples, nil))
	})

	t.Run("no examples", func(t *testing.T) {
		assert.Nil(t, GroupByFeatures(nil, []string{"language"}))
	})

	t.Run("missing feature groups under empty value", func(t *testing.T) {
		examples := []Example{
			{ID: "a", Data: map[string]any{"language": "en"}},
			{ID: "b", Data: map[string]any{}},
			{ID: "c", Data: map[string]any{}},
		}

		groups := GroupByFeatures(examples, []string{"language"})
		require.Len(t, groups, 2)
		assert.Equal(t, FacetMap{"language": "en"}, groups[0].Facets)
		assert.Equal(t, FacetMap{"language": ""}, groups[1].Facets)
		assert.Len(t, groups[1].Examples, 2)
	})
}

// TestGroupByFeatures_ValueFormatting verifies display formatting of
// non-string feature values.
func TestGroupByFeatures_ValueFormatting(t *testing.T) {
	examples := []Example{
		{ID: "a", Data: map[string]any{"stars": 3, "score": 0.25, "flagged": true}},
	}

	groups := GroupByFeatures(examples, []string{"stars", "score", "flagged"})
	require.Len(t, groups, 1)
	assert.Equal(t, FacetMap{"stars": "3", "score": "0.25", "flagged": "true"}, groups[0].Facets)
}

// TestGroupByFeatures_FirstSeenOrder verifies that groups appear in the
// order their combination first occurs in the input.
func TestGroupByFeatures_FirstSeenOrder(t *testing.T) {
	examples := []Example{
		{ID: "a", Data: map[string]any{"split": "test"}},
		{ID: "b", Data: map[string]any{"split": "train"}},
		{ID: "c", Data: map[string]any{"split": "test"}},
	}

	groups := GroupByFeatures(examples, []string{"split"})
	require.Len(t, groups, 2)
	assert.Equal(t, "test", groups[0].Facets["split"])
	assert.Equal(t, "train", groups[1].Facets["split"])
	assert.Equal(t, []string{"a", "c"}, ExampleIDs(groups[0].Examples))
}
