package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogLookup(t *testing.T) {
	c := COCOCatalog()

	assert.Equal(t, 80, c.Len())
	assert.Equal(t, "person", c.Lookup(0))
	assert.Equal(t, "car", c.Lookup(2))
	assert.Equal(t, "toothbrush", c.Lookup(79))
	assert.Equal(t, "class_80", c.Lookup(80))
	assert.Equal(t, "class_999", c.Lookup(999))
	assert.Equal(t, "class_-1", c.Lookup(-1))
}

func TestCatalogImmutable(t *testing.T) {
	src := []string{"a", "b"}
	c := NewCatalog(src)
	src[0] = "changed"

	names := c.Names()
	names[1] = "changed"

	assert.Equal(t, []string{"a", "b"}, c.Names())
}
