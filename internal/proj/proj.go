// Package proj reconciles feature coordinates with raster coordinate
// references. It carries only the transforms this pipeline needs: identity
// for already-aligned data and WGS84 lon/lat to UTM for metric rasters.
package proj

import (
	"math"

	"github.com/rotisserie/eris"
)

// Transformer projects a coordinate into a target coordinate reference.
// Implementations must be safe for concurrent use.
type Transformer interface {
	Forward(x, y float64) (float64, float64, error)
}

// Identity passes coordinates through unchanged, for feature collections
// already expressed in the raster's coordinate reference.
type Identity struct{}

// Forward implements Transformer.
func (Identity) Forward(x, y float64) (float64, float64, error) {
	return x, y, nil
}

// WGS84 ellipsoid parameters.
const (
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	utmK0  = 0.9996
)

// UTM projects WGS84 lon/lat degrees into a UTM zone (easting/northing in
// meters). Standard transverse mercator series expansion; accurate to
// well under a meter inside the zone, which is far below raster cell size.
type UTM struct {
	zone  int
	south bool
}

// NewUTM returns a transformer for the given UTM zone.
func NewUTM(zone int, south bool) (*UTM, error) {
	if zone < 1 || zone > 60 {
		return nil, eris.Errorf("proj: UTM zone %d out of range 1-60", zone)
	}
	return &UTM{zone: zone, south: south}, nil
}

// ZoneForLongitude returns the UTM zone containing a longitude.
func ZoneForLongitude(lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone < 1 {
		zone = 1
	}
	if zone > 60 {
		zone = 60
	}
	return zone
}

// Forward implements Transformer for (lon, lat) in degrees.
func (u *UTM) Forward(lon, lat float64) (float64, float64, error) {
	if lat < -80 || lat > 84 {
		return 0, 0, eris.Errorf("proj: latitude %g outside UTM domain", lat)
	}
	if lon < -180 || lon > 180 {
		return 0, 0, eris.Errorf("proj: longitude %g out of range", lon)
	}

	e2 := wgs84F * (2 - wgs84F)
	ep2 := e2 / (1 - e2)

	phi := lat * math.Pi / 180
	lambda := lon * math.Pi / 180
	lambda0 := float64(u.zone*6-183) * math.Pi / 180

	sinPhi, cosPhi := math.Sin(phi), math.Cos(phi)
	tanPhi := sinPhi / cosPhi

	n := wgs84A / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * normalizeRadians(lambda-lambda0)

	m := wgs84A * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*phi -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*phi) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*phi) -
		(35*e2*e2*e2/3072)*math.Sin(6*phi))

	easting := utmK0*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + 500000

	northing := utmK0 * (m + n*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))
	if u.south {
		northing += 10000000
	}

	return easting, northing, nil
}

func normalizeRadians(r float64) float64 {
	for r > math.Pi {
		r -= 2 * math.Pi
	}
	for r < -math.Pi {
		r += 2 * math.Pi
	}
	return r
}
