package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

// testGrid builds a 10x10 grid of minor-flood cells with one no-data hole
// at (5,5), on unit cells anchored at (0,0)-(10,10).
func testGrid(t *testing.T) *Grid {
	t.Helper()
	data := make([]uint8, 100)
	for i := range data {
		data[i] = uint8(CategoryMinor)
	}
	data[5*10+5] = DefaultNoData

	g, err := NewGrid(data, 10, 10, DefaultNoData, NewUpperLeftAffine(0, 10, 1), "EPSG:32615")
	require.NoError(t, err)
	return g
}

func TestNewGridValidation(t *testing.T) {
	tf := NewUpperLeftAffine(0, 10, 1)

	tests := []struct {
		name   string
		data   []uint8
		width  int
		height int
		nodata uint8
		tf     Affine
	}{
		{name: "not rectangular", data: make([]uint8, 99), width: 10, height: 10, nodata: 255, tf: tf},
		{name: "zero width", data: nil, width: 0, height: 10, nodata: 255, tf: tf},
		{name: "invalid cell value", data: []uint8{0, 7}, width: 2, height: 1, nodata: 255, tf: tf},
		{name: "nodata collides with category", data: []uint8{0, 1}, width: 2, height: 1, nodata: 3, tf: tf},
		{name: "degenerate transform", data: []uint8{0, 1}, width: 2, height: 1, nodata: 255, tf: Affine{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.data, tt.width, tt.height, tt.nodata, tt.tf, "EPSG:4326")
			assert.Error(t, err)
		})
	}
}

func TestGridCell(t *testing.T) {
	g := testGrid(t)

	tests := []struct {
		name     string
		row, col int
		want     Category
		present  bool
	}{
		{name: "flood cell", row: 0, col: 0, want: CategoryMinor, present: true},
		{name: "no-data cell is absent", row: 5, col: 5, want: CategoryNone, present: false},
		{name: "negative row", row: -1, col: 0, present: false},
		{name: "column past extent", row: 0, col: 10, present: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := g.Cell(tt.row, tt.col)
			assert.Equal(t, tt.present, ok)
			assert.Equal(t, tt.want, cat)
		})
	}
}

func TestGridCellAt(t *testing.T) {
	g := testGrid(t)

	row, col := g.CellAt(5.5, 4.5)
	assert.Equal(t, 5, row)
	assert.Equal(t, 5, col)

	// Out-of-bounds coordinates still map to indices.
	row, col = g.CellAt(-3.0, 25.0)
	assert.Equal(t, -15, row)
	assert.Equal(t, -3, col)
}

func TestGridBoundsAndFootprint(t *testing.T) {
	g := testGrid(t)

	b := g.Bounds()
	assert.InDelta(t, 0.0, b.Min(0), 1e-9)
	assert.InDelta(t, 0.0, b.Min(1), 1e-9)
	assert.InDelta(t, 10.0, b.Max(0), 1e-9)
	assert.InDelta(t, 10.0, b.Max(1), 1e-9)

	fp := g.Footprint()
	require.Equal(t, 1, fp.NumLinearRings())
	assert.Equal(t, 5, fp.LinearRing(0).NumCoords())
}

func square(minX, minY, maxX, maxY float64) *geom.Polygon {
	flat := []float64{minX, minY, maxX, minY, maxX, maxY, minX, maxY, minX, minY}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

func TestMaxCategoryInRegion(t *testing.T) {
	// Mixed-severity grid: row 0 escalates from none to major.
	data := []uint8{
		0, 1, 2, 3, 4,
		0, 0, 0, 0, 0,
	}
	g, err := NewGrid(data, 5, 2, DefaultNoData, NewUpperLeftAffine(0, 2, 1), "EPSG:4326")
	require.NoError(t, err)

	tests := []struct {
		name string
		poly *geom.Polygon
		want Category
	}{
		{name: "whole grid", poly: square(0, 0, 5, 2), want: CategoryMajor},
		{name: "left half of top row", poly: square(0, 1, 2.2, 2), want: CategoryNuisance},
		{name: "bottom row only", poly: square(0, 0, 5, 0.9), want: CategoryNone},
		{name: "outside the grid", poly: square(50, 50, 60, 60), want: CategoryNone},
		{name: "nil polygon", poly: nil, want: CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.MaxCategoryInRegion(tt.poly))
		})
	}
}

func TestMaxCategoryInRegionSkipsNoData(t *testing.T) {
	g := testGrid(t)

	// A region containing only the no-data hole resolves to none...
	assert.Equal(t, CategoryNone, g.MaxCategoryInRegion(square(5.1, 4.1, 5.9, 4.9)))

	// ...but widening it to the neighbors finds the surrounding flood.
	assert.Equal(t, CategoryMinor, g.MaxCategoryInRegion(square(4.1, 3.1, 6.9, 5.9)))
}
