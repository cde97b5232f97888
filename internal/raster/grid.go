package raster

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Grid is an immutable single-band categorical flood raster: cell values in
// {0..4} or the no-data sentinel, an invertible affine transform, and the
// identifier of the coordinate reference the transform projects into.
//
// A Grid is constructed once per analysis run and is safe for concurrent
// reads without synchronization.
type Grid struct {
	data      []uint8
	width     int
	height    int
	nodata    uint8
	transform Affine
	crs       string
}

// NewGrid validates and wraps a decoded categorical raster. data is
// row-major with the first row at the top of the grid. Construction fails
// on a non-rectangular grid, a cell value outside {0..4} and the no-data
// sentinel, or a degenerate transform.
func NewGrid(data []uint8, width, height int, nodata uint8, transform Affine, crs string) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Errorf("raster: invalid grid dimensions %dx%d", width, height)
	}
	if len(data) != width*height {
		return nil, eris.Errorf("raster: grid is not rectangular: %d values for %dx%d", len(data), width, height)
	}
	if err := transform.Validate(); err != nil {
		return nil, err
	}
	if Category(nodata).Valid() {
		return nil, eris.Errorf("raster: no-data sentinel %d collides with a category code", nodata)
	}
	for i, v := range data {
		if v != nodata && !Category(v).Valid() {
			return nil, eris.Errorf("raster: cell %d holds invalid value %d", i, v)
		}
	}
	return &Grid{
		data:      data,
		width:     width,
		height:    height,
		nodata:    nodata,
		transform: transform,
		crs:       crs,
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// NoData returns the no-data sentinel value.
func (g *Grid) NoData() uint8 { return g.nodata }

// CRS returns the coordinate reference identifier of the grid.
func (g *Grid) CRS() string { return g.crs }

// Transform returns the affine transform of the grid.
func (g *Grid) Transform() Affine { return g.transform }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.height && col >= 0 && col < g.width
}

// Cell returns the category stored at (row, col). The second return is
// false when the cell is out of bounds or holds the no-data sentinel.
func (g *Grid) Cell(row, col int) (Category, bool) {
	if !g.InBounds(row, col) {
		return CategoryNone, false
	}
	v := g.data[row*g.width+col]
	if v == g.nodata {
		return CategoryNone, false
	}
	return Category(v), true
}

// CellAt maps a projected coordinate to integer cell indices via the
// inverse transform. Never fails; the indices may be out of bounds.
func (g *Grid) CellAt(x, y float64) (row, col int) {
	return g.transform.RowCol(x, y)
}

// Bounds returns the rectangular geographic extent covered by the grid.
func (g *Grid) Bounds() *geom.Bounds {
	b := geom.NewBounds(geom.XY)
	for _, corner := range [][2]float64{{0, 0}, {float64(g.width), 0}, {0, float64(g.height)}, {float64(g.width), float64(g.height)}} {
		x, y := g.transform.Apply(corner[0], corner[1])
		b.Extend(geom.NewPointFlat(geom.XY, []float64{x, y}))
	}
	return b
}

// Footprint returns the extent as a closed polygon in the grid's CRS.
func (g *Grid) Footprint() *geom.Polygon {
	b := g.Bounds()
	minX, minY := b.Min(0), b.Min(1)
	maxX, maxY := b.Max(0), b.Max(1)
	flat := []float64{
		minX, minY,
		maxX, minY,
		maxX, maxY,
		minX, maxY,
		minX, minY,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// MaxCategoryInRegion returns the maximum in-bounds, non-absent category
// among cells whose center lies inside poly, or CategoryNone when the
// intersection is empty or entirely absent.
func (g *Grid) MaxCategoryInRegion(poly *geom.Polygon) Category {
	if poly == nil || poly.NumLinearRings() == 0 {
		return CategoryNone
	}

	minRow, minCol, maxRow, maxCol := g.cellWindow(poly.Bounds())
	if minRow > maxRow || minCol > maxCol {
		return CategoryNone
	}

	ring := poly.LinearRing(0).FlatCoords()
	max := CategoryNone
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			cat, ok := g.Cell(row, col)
			if !ok || cat <= max {
				continue
			}
			cx, cy := g.transform.Apply(float64(col)+0.5, float64(row)+0.5)
			if xy.IsPointInRing(geom.XY, geom.Coord{cx, cy}, ring) {
				max = cat
			}
		}
	}
	return max
}

// cellWindow maps a geographic bounds to the clamped inclusive cell range
// it covers.
func (g *Grid) cellWindow(b *geom.Bounds) (minRow, minCol, maxRow, maxCol int) {
	minRow, minCol = math.MaxInt, math.MaxInt
	maxRow, maxCol = math.MinInt, math.MinInt
	for _, corner := range [][2]float64{
		{b.Min(0), b.Min(1)},
		{b.Max(0), b.Min(1)},
		{b.Min(0), b.Max(1)},
		{b.Max(0), b.Max(1)},
	} {
		fc, fr := g.transform.Invert(corner[0], corner[1])
		row, col := int(math.Floor(fr)), int(math.Floor(fc))
		minRow, maxRow = minInt(minRow, row), maxInt(maxRow, row)
		minCol, maxCol = minInt(minCol, col), maxInt(maxCol, col)
	}
	minRow, maxRow = maxInt(minRow, 0), minInt(maxRow, g.height-1)
	minCol, maxCol = maxInt(minCol, 0), minInt(maxCol, g.width-1)
	return minRow, minCol, maxRow, maxCol
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
