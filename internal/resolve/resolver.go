// Package resolve converts individual geometries into flood categories
// against a raster grid. Resolution is total: every geometry yields a
// category, and internal faults degrade to no-flood rather than aborting
// a batch.
package resolve

import (
	"math"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/floodscope/internal/proj"
	"github.com/sells-group/floodscope/internal/raster"
)

// DefaultSearchRadius is the buffered-neighborhood radius in raster linear
// units, roughly two cells of a ~1e-5 degree grid.
const DefaultSearchRadius = 2e-5

// bufferSegments is the number of edges used to approximate the circular
// search buffer.
const bufferSegments = 32

// Resolver maps geometries in an arbitrary coordinate reference onto the
// categories of one grid. Stateless apart from its configuration; safe for
// concurrent use.
type Resolver struct {
	grid   *raster.Grid
	xform  proj.Transformer
	radius float64
	log    *zap.Logger
}

// New builds a resolver for the grid. xform projects feature coordinates
// into the grid's coordinate reference; pass proj.Identity for aligned
// data. radius is the buffer-fallback search distance in the grid's linear
// units.
func New(grid *raster.Grid, xform proj.Transformer, radius float64) *Resolver {
	if xform == nil {
		xform = proj.Identity{}
	}
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	return &Resolver{
		grid:   grid,
		xform:  xform,
		radius: radius,
		log:    zap.L().With(zap.String("component", "resolve")),
	}
}

// Resolve returns the flood category for a point or line geometry. Any
// other geometry kind, and any internal fault, resolves to CategoryNone;
// faults are visible only on the debug log channel, never to the caller.
func (r *Resolver) Resolve(g geom.T) raster.Category {
	switch g := g.(type) {
	case *geom.Point:
		return r.resolvePoint(g.X(), g.Y())
	case *geom.LineString:
		return r.resolveLine(g)
	default:
		return raster.CategoryNone
	}
}

// resolvePoint applies the exact-cell-then-buffer-fallback policy. An
// exact in-bounds hit with a positive category wins outright; otherwise
// the maximum over a circular neighborhood decides, because a single
// cell's value is not trusted near raster edges or thin flood boundaries.
func (r *Resolver) resolvePoint(x, y float64) raster.Category {
	px, py, err := r.xform.Forward(x, y)
	if err != nil {
		r.log.Debug("point reprojection failed, resolving to no flood",
			zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
		return raster.CategoryNone
	}

	row, col := r.grid.CellAt(px, py)
	if cat, ok := r.grid.Cell(row, col); ok && cat > raster.CategoryNone {
		return cat
	}

	return r.grid.MaxCategoryInRegion(circle(px, py, r.radius))
}

// resolveLine samples the first vertex, the arc-length midpoint, and the
// last vertex, and returns the maximum of the three point resolutions. A
// deliberate fidelity/cost trade-off for road-segment-scale features.
func (r *Resolver) resolveLine(ls *geom.LineString) raster.Category {
	n := ls.NumCoords()
	if n == 0 {
		return raster.CategoryNone
	}

	first := ls.Coord(0)
	last := ls.Coord(n - 1)
	mid := midpoint(ls)

	max := raster.CategoryNone
	for _, c := range []geom.Coord{first, mid, last} {
		max = raster.MaxCategory(max, r.resolvePoint(c[0], c[1]))
	}
	return max
}

// midpoint interpolates the coordinate at half the line's total length.
func midpoint(ls *geom.LineString) geom.Coord {
	n := ls.NumCoords()
	if n == 1 {
		return ls.Coord(0)
	}

	total := 0.0
	for i := 1; i < n; i++ {
		total += segmentLength(ls.Coord(i-1), ls.Coord(i))
	}
	if total == 0 {
		return ls.Coord(0)
	}

	walked := 0.0
	target := total / 2
	for i := 1; i < n; i++ {
		a, b := ls.Coord(i-1), ls.Coord(i)
		seg := segmentLength(a, b)
		if walked+seg >= target && seg > 0 {
			t := (target - walked) / seg
			return geom.Coord{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
		}
		walked += seg
	}
	return ls.Coord(n - 1)
}

func segmentLength(a, b geom.Coord) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// circle approximates the circular search buffer as a closed polygon.
func circle(x, y, radius float64) *geom.Polygon {
	flat := make([]float64, 0, (bufferSegments+1)*2)
	for i := 0; i <= bufferSegments; i++ {
		theta := 2 * math.Pi * float64(i) / bufferSegments
		flat = append(flat, x+radius*math.Cos(theta), y+radius*math.Sin(theta))
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}
