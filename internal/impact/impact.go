// Package impact annotates infrastructure and road collections with the
// flood category at their location, for downstream mapping and export.
package impact

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/floodscope/internal/feature"
	"github.com/sells-group/floodscope/internal/raster"
	"github.com/sells-group/floodscope/internal/resolve"
)

// Summary reports how a collection fared: every feature carries exactly
// one category, Flooded counts those above no-flood.
type Summary struct {
	Total      int                       `json:"total"`
	Flooded    int                       `json:"flooded"`
	Categories [raster.NumCategories]int `json:"flood_categories"`
}

// AssignCategories resolves and stores a flood category on every feature
// in the collection. Individual failures degrade to no-flood inside the
// resolver; the batch always completes. Cancelling the context stops the
// loop between features and returns the partial summary.
func AssignCategories(ctx context.Context, r *resolve.Resolver, c *feature.Collection) Summary {
	var s Summary
	if c == nil {
		return s
	}

	for _, f := range c.Features {
		if ctx.Err() != nil {
			zap.L().Warn("impact assignment cancelled",
				zap.String("component", "impact"),
				zap.Int("processed", s.Total),
				zap.Int("remaining", c.Len()-s.Total),
			)
			break
		}
		f.Category = r.Resolve(f.Geom)
		s.Total++
		s.Categories[f.Category]++
		if f.Category > raster.CategoryNone {
			s.Flooded++
		}
	}

	zap.L().Info("flood categories assigned",
		zap.String("component", "impact"),
		zap.Int("total", s.Total),
		zap.Int("flooded", s.Flooded),
	)
	return s
}
