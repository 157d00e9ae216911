package typai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reoring/typai"
)

func TestPath_Render(t *testing.T) {
	root := typai.Path{}
	assert.Equal(t, "/", root.Pointer())
	assert.Equal(t, "$", root.String())

	p := root.Field("items").Index(2).Field("price")
	assert.Equal(t, "/items/2/price", p.Pointer())
	assert.Equal(t, "items[2].price", p.String())
	assert.Equal(t, []any{"items", 2, "price"}, p.Elements())

	// RFC 6901 escaping
	assert.Equal(t, "/a~1b/c~0d", root.Field("a/b").Field("c~d").Pointer())
}

func TestPath_ExtendDoesNotAlias(t *testing.T) {
	base := typai.Path{}.Field("a")
	x := base.Field("x")
	y := base.Field("y")
	assert.Equal(t, "a.x", x.String())
	assert.Equal(t, "a.y", y.String())
	assert.Len(t, base, 1)
}
