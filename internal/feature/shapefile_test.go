package feature

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func writePointShapefile(t *testing.T, points []shp.Point, names []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claims.shp")
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("NAME", 32)})
	for i := range points {
		w.Write(&points[i])
		w.WriteAttribute(i, 0, names[i])
	}
	w.Close()
	return path
}

func writeLineShapefile(t *testing.T, parts [][]shp.Point) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roads.shp")
	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	w.SetFields([]shp.Field{shp.StringField("ROAD", 32)})
	w.Write(shp.NewPolyLine(parts))
	w.WriteAttribute(0, 0, "FM-1960")
	w.Close()
	return path
}

func TestReadShapefilePoints(t *testing.T) {
	path := writePointShapefile(t,
		[]shp.Point{{X: -95.4, Y: 29.7}, {X: -95.5, Y: 29.8}},
		[]string{"alpha", "beta"},
	)

	c, err := ReadShapefilePoints(path, "EPSG:4326")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())
	assert.Equal(t, "EPSG:4326", c.CRS)

	p, ok := c.Features[0].Geom.(*geom.Point)
	require.True(t, ok)
	assert.InDelta(t, -95.4, p.X(), 1e-9)
	assert.InDelta(t, 29.7, p.Y(), 1e-9)
	assert.Equal(t, "alpha", c.Features[0].Attrs["NAME"])
	assert.Equal(t, "beta", c.Features[1].Attrs["NAME"])
}

func TestReadShapefilePointsMissingFile(t *testing.T) {
	_, err := ReadShapefilePoints(filepath.Join(t.TempDir(), "nope.shp"), "EPSG:4326")
	assert.Error(t, err)
}

func TestReadShapefileLinesSplitsParts(t *testing.T) {
	path := writeLineShapefile(t, [][]shp.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}},
		{{X: 5, Y: 5}, {X: 6, Y: 6}},
	})

	c, err := ReadShapefileLines(path, "EPSG:4326")
	require.NoError(t, err)
	require.Equal(t, 2, c.Len(), "each polyline part becomes its own feature")

	first, ok := c.Features[0].Geom.(*geom.LineString)
	require.True(t, ok)
	assert.Equal(t, 3, first.NumCoords())
	assert.Equal(t, "FM-1960", c.Features[0].Attrs["ROAD"])
	assert.Equal(t, "FM-1960", c.Features[1].Attrs["ROAD"])
}

func TestReadShapefileLinesSkipsPoints(t *testing.T) {
	path := writePointShapefile(t, []shp.Point{{X: 1, Y: 1}}, []string{"alpha"})

	c, err := ReadShapefileLines(path, "EPSG:4326")
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}
