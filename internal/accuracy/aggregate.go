// Package accuracy scores a flood raster against observed claim locations:
// how many known claims fall inside the simulated flood, and at which
// severity.
package accuracy

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/floodscope/internal/feature"
	"github.com/sells-group/floodscope/internal/proj"
	"github.com/sells-group/floodscope/internal/raster"
	"github.com/sells-group/floodscope/internal/resolve"
)

// Options tune one analysis run. The search radius and the deduplication
// precision are independent knobs: spatial uniqueness versus lookup
// tolerance.
type Options struct {
	// SearchRadius is the resolver's buffer-fallback distance in raster
	// linear units. Zero selects resolve.DefaultSearchRadius.
	SearchRadius float64

	// Transformer projects claim coordinates into the raster CRS. Nil
	// means the collection is already aligned.
	Transformer proj.Transformer

	// Workers bounds the parallel resolution loop. Zero means 4.
	Workers int
}

const defaultWorkers = 4

// Result is the aggregate accuracy record for one (raster, claims) pair.
// Immutable after construction and flat enough for tabular export.
type Result struct {
	TotalClaims   int                       `json:"total_claims"`
	CoveredClaims int                       `json:"covered_claims"`
	Accuracy      float64                   `json:"accuracy"`
	Categories    [raster.NumCategories]int `json:"flood_categories"`
}

// Analyze resolves a category for every claim that intersects the raster
// footprint and accumulates coverage counts and the per-category
// histogram. Claims are expected to be deduplicated already. An empty or
// fully-out-of-bounds collection yields a well-formed zero result, never
// an error.
func Analyze(ctx context.Context, grid *raster.Grid, claims *feature.Collection, opts Options) (*Result, error) {
	if grid == nil {
		return nil, eris.New("accuracy: nil grid")
	}
	if claims == nil {
		return nil, eris.New("accuracy: nil claims collection")
	}

	xform := opts.Transformer
	if xform == nil {
		xform = proj.Identity{}
	}

	projected, err := claims.Reproject(xform, grid.CRS())
	if err != nil {
		return nil, eris.Wrap(err, "accuracy: reproject claims")
	}
	cropped := feature.CropToBounds(projected, grid.Bounds())

	result := &Result{TotalClaims: cropped.Len()}
	if result.TotalClaims == 0 {
		zap.L().Info("no claims within raster footprint",
			zap.String("component", "accuracy"))
		return result, nil
	}

	// Geometries are already in the raster CRS, so the resolver runs with
	// an identity transform.
	resolver := resolve.New(grid, proj.Identity{}, opts.SearchRadius)

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, claim := range cropped.Features {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			cat := resolver.Resolve(claim.Geom)

			mu.Lock()
			result.Categories[cat]++
			if cat > raster.CategoryNone {
				result.CoveredClaims++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "accuracy: resolution interrupted")
	}

	result.Accuracy = float64(result.CoveredClaims) / float64(result.TotalClaims)

	zap.L().Info("accuracy analysis complete",
		zap.String("component", "accuracy"),
		zap.Int("total_claims", result.TotalClaims),
		zap.Int("covered_claims", result.CoveredClaims),
		zap.Float64("accuracy", result.Accuracy),
	)
	return result, nil
}
