package proj

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ForCRS selects a transformer between two CRS identifiers. Matching
// identifiers get the identity transform; WGS84 sources get a UTM
// transform when the target is an EPSG UTM code. Anything else is
// unsupported: rasters are never reprojected, so the small set of
// feature-side transforms here is all the pipeline needs.
func ForCRS(source, target string) (Transformer, error) {
	src := normalizeCRS(source)
	dst := normalizeCRS(target)

	if src == dst {
		return Identity{}, nil
	}
	if src != "EPSG:4326" {
		return nil, eris.Errorf("proj: unsupported source CRS %q", source)
	}

	zone, south, ok := parseUTMCode(dst)
	if !ok {
		return nil, eris.Errorf("proj: unsupported target CRS %q", target)
	}
	return NewUTM(zone, south)
}

func normalizeCRS(crs string) string {
	return strings.ToUpper(strings.TrimSpace(crs))
}

// parseUTMCode recognizes EPSG:326xx (northern) and EPSG:327xx (southern)
// UTM zone codes.
func parseUTMCode(crs string) (zone int, south bool, ok bool) {
	code, found := strings.CutPrefix(crs, "EPSG:")
	if !found || len(code) != 5 {
		return 0, false, false
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false, false
	}
	switch {
	case n >= 32601 && n <= 32660:
		return n - 32600, false, true
	case n >= 32701 && n <= 32760:
		return n - 32700, true, true
	default:
		return 0, false, false
	}
}
