package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineApplyInvertRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tf   Affine
	}{
		{name: "north-up unit cells", tf: NewUpperLeftAffine(0, 10, 1)},
		{name: "north-up metric cells", tf: NewUpperLeftAffine(-95.5, 30.2, 0.0001)},
		{name: "sheared", tf: Affine{A: 2, B: 0.5, C: 100, D: 0.25, E: -3, F: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.tf.Validate())

			x, y := tt.tf.Apply(3.25, 7.75)
			col, row := tt.tf.Invert(x, y)
			assert.InDelta(t, 3.25, col, 1e-9)
			assert.InDelta(t, 7.75, row, 1e-9)
		})
	}
}

func TestAffineValidateRejectsDegenerate(t *testing.T) {
	tests := []struct {
		name string
		tf   Affine
	}{
		{name: "zero transform", tf: Affine{}},
		{name: "collapsed rows", tf: Affine{A: 1, E: 0}},
		{name: "parallel axes", tf: Affine{A: 2, B: 4, D: 1, E: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.tf.Validate())
		})
	}
}

func TestAffineRowCol(t *testing.T) {
	tf := NewUpperLeftAffine(0, 10, 1)

	tests := []struct {
		name     string
		x, y     float64
		wantRow  int
		wantCol  int
	}{
		{name: "upper-left cell center", x: 0.5, y: 9.5, wantRow: 0, wantCol: 0},
		{name: "interior cell", x: 5.5, y: 4.5, wantRow: 5, wantCol: 5},
		{name: "west of grid", x: -0.5, y: 9.5, wantRow: 0, wantCol: -1},
		{name: "south of grid", x: 0.5, y: -2.5, wantRow: 12, wantCol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := tf.RowCol(tt.x, tt.y)
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}
