package feature

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultPrecision is the coordinate rounding step used to collapse
// near-duplicate records, roughly one meter in degrees.
const DefaultPrecision = 1e-5

// Deduplicate retains the first feature for each distinct rounded
// coordinate, preserving relative order, and reports how many were
// removed. Source survey and claims datasets often carry many records at
// effectively one location; resolving per physical location rather than
// per record keeps coverage statistics honest.
//
// A non-positive precision is a configuration fault and is rejected
// before any work. An empty collection dedupes to an empty collection.
func Deduplicate(c *Collection, precision float64) (*Collection, int, error) {
	if precision <= 0 {
		return nil, 0, eris.Errorf("feature: dedup precision must be positive, got %g", precision)
	}
	if c == nil {
		return nil, 0, eris.New("feature: nil collection")
	}

	type key struct{ x, y int64 }
	seen := make(map[key]bool, len(c.Features))
	out := NewCollection(c.CRS)
	removed := 0

	for _, f := range c.Features {
		x, y, ok := Representative(f.Geom)
		if !ok {
			// Degenerate geometry: nothing to round, keep the record.
			out.Append(f)
			continue
		}
		k := key{
			x: int64(math.Round(x / precision)),
			y: int64(math.Round(y / precision)),
		}
		if seen[k] {
			removed++
			continue
		}
		seen[k] = true
		out.Append(f)
	}

	if removed > 0 {
		zap.L().Info("filtered repetitive features",
			zap.String("component", "feature.dedup"),
			zap.Int("removed", removed),
			zap.Int("kept", out.Len()),
		)
	}
	return out, removed, nil
}
