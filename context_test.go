package mustache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStringifiesScalars(t *testing.T) {
	ctx := NewContext()
	ctx.Set("s", "text")
	ctx.Set("b", false)
	ctx.Set("i", -7)
	ctx.Set("u", uint16(7))
	ctx.Set("f", 2.25)

	for key, want := range map[string]string{
		"s": "text", "b": "false", "i": "-7", "u": "7", "f": "2.25",
	} {
		got, ok := ctx.fetchVariable([]string{key})
		require.True(t, ok, "key %s", key)
		assert.Equal(t, want, got)
	}
}

func TestSetEvictsOtherStore(t *testing.T) {
	ctx := NewContext()
	ctx.Set("k", map[string]string{"a": "1"})
	ctx.Set("k", "plain")

	_, isVar := ctx.fetchVariable([]string{"k"})
	assert.True(t, isVar)
	assert.Nil(t, ctx.fetchSection([]string{"k"}))

	ctx.Set("k", func(s string) string { return s })
	_, isVar = ctx.fetchVariable([]string{"k"})
	assert.False(t, isVar)
	assert.NotNil(t, ctx.fetchSection([]string{"k"}))
}

func TestVariableLookupAscendsParentChain(t *testing.T) {
	ctx := NewContext()
	ctx.Set("shared", "root")
	child := ctx.AddSubContext("items")

	got, ok := child.fetchVariable([]string{"shared"})
	require.True(t, ok)
	assert.Equal(t, "root", got)
}

func TestChildShadowsParentVariable(t *testing.T) {
	ctx := NewContext()
	ctx.Set("v", "outer")
	child := ctx.AddSubContext("items")
	child.Set("v", "inner")

	got, _ := child.fetchVariable([]string{"v"})
	assert.Equal(t, "inner", got)
	got, _ = ctx.fetchVariable([]string{"v"})
	assert.Equal(t, "outer", got)
}

func TestAddSubContextAppends(t *testing.T) {
	ctx := NewContext()
	first := ctx.AddSubContext("items")
	second := ctx.AddSubContext("items")

	lv, ok := ctx.fetchSection([]string{"items"}).(*listValue)
	require.True(t, ok)
	require.Len(t, lv.items, 2)
	assert.Same(t, first, lv.items[0])
	assert.Same(t, second, lv.items[1])
}

func TestSectionLookupNormalizesEmpties(t *testing.T) {
	ctx := NewContext()
	ctx.Set("emptyMap", map[string]string{})
	ctx.Set("emptyLambda", (func(string) string)(nil))

	assert.Nil(t, ctx.fetchSection([]string{"emptyMap"}))
	assert.Nil(t, ctx.fetchSection([]string{"emptyLambda"}))
	assert.Nil(t, ctx.fetchSection([]string{"missing"}))

	ctx.UseSection("flag")
	assert.NotNil(t, ctx.fetchSection([]string{"flag"}))
}

func TestDottedSectionLookup(t *testing.T) {
	ctx := NewContext()
	a := ctx.AddSubContext("a")
	a.AddSubContext("b").Set("name", "deep")

	sv := ctx.fetchSection([]string{"a", "b"})
	lv, ok := sv.(*listValue)
	require.True(t, ok)
	require.Len(t, lv.items, 1)

	got, ok := ctx.fetchVariable([]string{"a", "b", "name"})
	require.True(t, ok)
	assert.Equal(t, "deep", got)
}

func TestDottedLookupDoesNotAscendFromSiblings(t *testing.T) {
	// The first segment ascends the parent chain; later segments only
	// descend within the matched subtree.
	ctx := NewContext()
	ctx.Set("name", "toplevel")
	ctx.AddSubContext("a").AddSubContext("b")

	_, ok := ctx.fetchVariable([]string{"a", "b", "name"})
	assert.False(t, ok)
}

func TestDisplayStringStringer(t *testing.T) {
	ctx := NewContext()
	ctx.Set("d", testStringer{})
	got, _ := ctx.fetchVariable([]string{"d"})
	assert.Equal(t, "stringer", got)
}

type testStringer struct{}

func (testStringer) String() string { return "stringer" }
