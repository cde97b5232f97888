package feature

import (
	"github.com/dhconnelly/rtreego"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// rtreego rejects zero-extent rectangles, so point features get a hairline
// envelope instead.
const minRectExtent = 1e-9

type spatialFeature struct {
	feature *Feature
	rect    rtreego.Rect
}

func (s *spatialFeature) Bounds() rtreego.Rect { return s.rect }

func envelope(b *geom.Bounds) (rtreego.Rect, bool) {
	if b == nil || b.IsEmpty() {
		return rtreego.Rect{}, false
	}
	lengths := []float64{b.Max(0) - b.Min(0), b.Max(1) - b.Min(1)}
	for i, l := range lengths {
		if l < minRectExtent {
			lengths[i] = minRectExtent
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min(0), b.Min(1)}, lengths)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// CropToBounds returns the features whose geometry envelope intersects the
// rectangular bounds, in their original relative order. Features entirely
// outside the footprint are excluded so that coverage statistics reflect
// the raster's actual extent. The R-tree keeps the crop cheap for dense
// collections queried against many rasters.
func CropToBounds(c *Collection, bounds *geom.Bounds) *Collection {
	out := NewCollection(c.CRS)
	if c.Len() == 0 {
		return out
	}
	footprint, ok := envelope(bounds)
	if !ok {
		return out
	}

	tree := rtreego.NewTree(2, 8, 16)
	for _, f := range c.Features {
		rect, ok := envelope(f.Geom.Bounds())
		if !ok {
			continue
		}
		tree.Insert(&spatialFeature{feature: f, rect: rect})
	}

	inside := make(map[*Feature]bool)
	for _, hit := range tree.SearchIntersect(footprint) {
		inside[hit.(*spatialFeature).feature] = true
	}
	for _, f := range c.Features {
		if inside[f] {
			out.Append(f)
		}
	}

	zap.L().Debug("cropped features to raster footprint",
		zap.String("component", "feature.crop"),
		zap.Int("in", c.Len()),
		zap.Int("kept", out.Len()),
	)
	return out
}
