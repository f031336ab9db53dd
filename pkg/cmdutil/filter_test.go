package cmdutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-go-golems/geodetic-tools/pkg/catalog"
)

func TestFilterItemsIgnoresCase(t *testing.T) {
	grids := catalog.Builtin().Grids.Entries()

	code := func(e catalog.Entry) string { return e.Code }
	coverage := func(e catalog.Entry) string { return e.Attr(catalog.AttrCoverage) }

	got := FilterItems(grids, []string{"ntv2"}, code, coverage)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "NTV2", got[0].Code)
	}

	got = FilterItems(grids, []string{"ALBERTA"}, code, coverage)
	assert.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, "Alberta", e.Attr(catalog.AttrCoverage))
	}
}

func TestFilterItemsWithoutSelectors(t *testing.T) {
	items := []string{"a", "b"}
	assert.Equal(t, items, FilterItems(items, nil, func(s string) string { return s }))
	assert.Equal(t, items, FilterItems(items, []string{" ", ""}, func(s string) string { return s }))
	assert.Empty(t, FilterItems(items, []string{"c"}, func(s string) string { return s }))
}

func TestBuildSelectorSet(t *testing.T) {
	assert.Equal(t, map[string]struct{}{"utm14": {}, "nb": {}}, BuildSelectorSet([]string{"UTM14", " nb ", ""}))
}
