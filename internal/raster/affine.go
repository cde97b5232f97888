package raster

import (
	"math"

	"github.com/rotisserie/eris"
)

// Affine maps fractional grid coordinates (col, row) to projected
// coordinates (x, y):
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// The same parameter order rasterio and GDAL use for north-up grids
// (B and D zero, E negative).
type Affine struct {
	A, B, C float64
	D, E, F float64
}

// NewUpperLeftAffine builds the transform for a north-up grid whose
// upper-left corner is (x0, y0) with square cells of the given size.
func NewUpperLeftAffine(x0, y0, cellSize float64) Affine {
	return Affine{A: cellSize, B: 0, C: x0, D: 0, E: -cellSize, F: y0}
}

// Apply maps fractional grid coordinates to projected coordinates.
func (t Affine) Apply(col, row float64) (x, y float64) {
	return t.A*col + t.B*row + t.C, t.D*col + t.E*row + t.F
}

// determinant of the linear part. Zero means the transform collapses the
// grid and cannot be inverted.
func (t Affine) determinant() float64 {
	return t.A*t.E - t.B*t.D
}

// Validate returns an error if the transform is not invertible.
func (t Affine) Validate() error {
	det := t.determinant()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return eris.New("raster: affine transform is not invertible")
	}
	return nil
}

// Invert maps projected coordinates back to fractional grid coordinates.
func (t Affine) Invert(x, y float64) (col, row float64) {
	det := t.determinant()
	dx, dy := x-t.C, y-t.F
	col = (t.E*dx - t.B*dy) / det
	row = (t.A*dy - t.D*dx) / det
	return col, row
}

// RowCol returns the integer cell indices containing the projected
// coordinate. Pure and total: indices may be out of grid bounds and the
// caller must bounds-check them.
func (t Affine) RowCol(x, y float64) (row, col int) {
	fc, fr := t.Invert(x, y)
	return int(math.Floor(fr)), int(math.Floor(fc))
}
