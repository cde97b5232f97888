// Package feature models vector datasets as typed records with an open
// attribute map, and provides the pre-aggregation filters: coordinate
// deduplication and spatial cropping to a raster footprint.
package feature

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/floodscope/internal/proj"
	"github.com/sells-group/floodscope/internal/raster"
)

// Feature is one vector record: a geometry, its resolved flood category,
// and pass-through attributes from the source dataset. Geometry is treated
// as read-only; reprojection produces new features.
type Feature struct {
	Geom     geom.T
	Category raster.Category
	Attrs    map[string]string
}

// Collection is an ordered set of features sharing a coordinate reference.
type Collection struct {
	CRS      string
	Features []*Feature
}

// NewCollection returns an empty collection in the given CRS.
func NewCollection(crs string) *Collection {
	return &Collection{CRS: crs}
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Append adds a feature to the collection.
func (c *Collection) Append(f *Feature) {
	c.Features = append(c.Features, f)
}

// Reproject returns a new collection with every geometry projected through
// t, tagged with the target CRS. Source features are not mutated. A
// feature whose geometry cannot be projected is dropped; per-feature
// faults must not abort the batch.
func (c *Collection) Reproject(t proj.Transformer, targetCRS string) (*Collection, error) {
	if c == nil {
		return nil, eris.New("feature: nil collection")
	}
	out := NewCollection(targetCRS)
	for _, f := range c.Features {
		g, err := reprojectGeometry(f.Geom, t)
		if err != nil {
			continue
		}
		out.Append(&Feature{Geom: g, Category: f.Category, Attrs: f.Attrs})
	}
	return out, nil
}

func reprojectGeometry(g geom.T, t proj.Transformer) (geom.T, error) {
	switch g := g.(type) {
	case *geom.Point:
		x, y, err := t.Forward(g.X(), g.Y())
		if err != nil {
			return nil, err
		}
		return geom.NewPointFlat(geom.XY, []float64{x, y}), nil
	case *geom.LineString:
		src := g.FlatCoords()
		flat := make([]float64, 0, len(src))
		stride := g.Stride()
		for i := 0; i+1 < len(src); i += stride {
			x, y, err := t.Forward(src[i], src[i+1])
			if err != nil {
				return nil, err
			}
			flat = append(flat, x, y)
		}
		return geom.NewLineStringFlat(geom.XY, flat), nil
	default:
		return nil, eris.Errorf("feature: unsupported geometry type %T", g)
	}
}

// Representative returns the coordinate that identifies a feature for
// deduplication: a point's own location, or the first vertex of a line.
func Representative(g geom.T) (x, y float64, ok bool) {
	if g == nil {
		return 0, 0, false
	}
	flat := g.FlatCoords()
	if len(flat) < 2 {
		return 0, 0, false
	}
	return flat[0], flat[1], true
}
