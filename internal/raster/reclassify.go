package raster

import (
	"github.com/rotisserie/eris"
)

// DepthGrid is a single-band continuous flood depth raster in meters,
// produced by a hydraulic model and consumed only by Reclassify.
type DepthGrid struct {
	Data      []float64
	Width     int
	Height    int
	NoData    float64
	Transform Affine
	CRS       string
}

// Thresholds are the depth cutoffs, in meters, separating the four flooded
// severity codes: [nuisance, minor, moderate, major].
type Thresholds [4]float64

// DefaultThresholds are the standard depth cutoffs.
var DefaultThresholds = Thresholds{0.1, 0.2, 0.5, 1.0}

// Validate rejects non-positive or non-increasing threshold sets before
// any batch work begins.
func (t Thresholds) Validate() error {
	if t[0] <= 0 {
		return eris.Errorf("raster: depth threshold %g must be positive", t[0])
	}
	for i := 1; i < len(t); i++ {
		if t[i] <= t[i-1] {
			return eris.Errorf("raster: depth thresholds must be strictly increasing, got %v", [4]float64(t))
		}
	}
	return nil
}

// DefaultNoData is the sentinel used for category grids produced here.
const DefaultNoData = 255

// Reclassify converts a continuous depth raster into a categorical Grid:
// depth below the first threshold is no flood, each further threshold
// promotes the cell one severity code. Depth no-data cells become category
// no-data cells.
func Reclassify(depth *DepthGrid, thresholds Thresholds) (*Grid, error) {
	if depth == nil {
		return nil, eris.New("raster: nil depth grid")
	}
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if len(depth.Data) != depth.Width*depth.Height {
		return nil, eris.Errorf("raster: depth grid is not rectangular: %d values for %dx%d",
			len(depth.Data), depth.Width, depth.Height)
	}

	data := make([]uint8, len(depth.Data))
	for i, d := range depth.Data {
		if d == depth.NoData {
			data[i] = DefaultNoData
			continue
		}
		var cat Category
		for level, cutoff := range thresholds {
			if d >= cutoff {
				cat = Category(level + 1)
			}
		}
		data[i] = uint8(cat)
	}

	return NewGrid(data, depth.Width, depth.Height, DefaultNoData, depth.Transform, depth.CRS)
}
