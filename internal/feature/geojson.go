package feature

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// WriteGeoJSON encodes a collection as a GeoJSON FeatureCollection. Every
// output feature carries exactly one integer flood_category in {0..4}
// plus its label and the pass-through attributes.
func WriteGeoJSON(w io.Writer, c *Collection) error {
	if c == nil {
		return eris.New("feature: nil collection")
	}

	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, c.Len())}
	for _, f := range c.Features {
		props := make(map[string]interface{}, len(f.Attrs)+2)
		for k, v := range f.Attrs {
			props[k] = v
		}
		props["flood_category"] = int(f.Category)
		props["flood_label"] = f.Category.Label()

		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   f.Geom,
			Properties: props,
		})
	}

	if err := json.NewEncoder(w).Encode(&fc); err != nil {
		return eris.Wrap(err, "feature: encode geojson")
	}
	return nil
}

// ExportGeoJSON writes the collection as a GeoJSON file.
func ExportGeoJSON(path string, c *Collection) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "feature: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := WriteGeoJSON(f, c); err != nil {
		return err
	}
	return nil
}
