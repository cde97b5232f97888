package feature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func pointFeature(x, y float64, attrs map[string]string) *Feature {
	return &Feature{Geom: geom.NewPointFlat(geom.XY, []float64{x, y}), Attrs: attrs}
}

func TestDeduplicateUniqueUnchanged(t *testing.T) {
	c := NewCollection("EPSG:4326")
	for i := 0; i < 5; i++ {
		c.Append(pointFeature(float64(i), float64(i), nil))
	}

	out, removed, err := Deduplicate(c, DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	require.Equal(t, 5, out.Len())
	for i, f := range out.Features {
		assert.Same(t, c.Features[i], f, "order must be preserved")
	}
}

func TestDeduplicateCollapsesIdenticalLocations(t *testing.T) {
	c := NewCollection("EPSG:4326")
	for i := 0; i < 7; i++ {
		c.Append(pointFeature(-95.4001, 29.7002, map[string]string{"claim": fmt.Sprintf("%d", i)}))
	}

	out, removed, err := Deduplicate(c, DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 6, removed)
	require.Equal(t, 1, out.Len())
	// First record wins.
	assert.Equal(t, "0", out.Features[0].Attrs["claim"])
}

func TestDeduplicateRoundsToPrecision(t *testing.T) {
	c := NewCollection("EPSG:4326")
	c.Append(pointFeature(1.000001, 2.000001, nil))
	c.Append(pointFeature(1.000004, 2.000004, nil)) // same cell at 1e-5
	c.Append(pointFeature(1.00002, 2.00002, nil))   // distinct cell

	out, removed, err := Deduplicate(c, 1e-5)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, out.Len())
}

func TestDeduplicateEmptyCollection(t *testing.T) {
	out, removed, err := Deduplicate(NewCollection("EPSG:4326"), DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 0, out.Len())
}

func TestDeduplicateRejectsBadPrecision(t *testing.T) {
	c := NewCollection("EPSG:4326")

	_, _, err := Deduplicate(c, 0)
	assert.Error(t, err)

	_, _, err = Deduplicate(c, -1e-5)
	assert.Error(t, err)
}

func TestDeduplicateUsesLineFirstVertex(t *testing.T) {
	c := NewCollection("EPSG:4326")
	c.Append(&Feature{Geom: geom.NewLineStringFlat(geom.XY, []float64{0, 0, 5, 5})})
	c.Append(&Feature{Geom: geom.NewLineStringFlat(geom.XY, []float64{0, 0, 9, 9})})

	out, removed, err := Deduplicate(c, DefaultPrecision)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, out.Len())
}
