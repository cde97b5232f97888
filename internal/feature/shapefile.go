package feature

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// ReadShapefilePoints loads point records from a shapefile into a
// collection, carrying every attribute column as a string. Non-point
// shapes are skipped.
func ReadShapefilePoints(path, crs string) (*Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feature: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	out := NewCollection(crs)
	skipped := 0

	for reader.Next() {
		_, shape := reader.Shape()
		point, ok := shape.(*shp.Point)
		if !ok {
			skipped++
			continue
		}
		out.Append(&Feature{
			Geom:  geom.NewPointFlat(geom.XY, []float64{point.X, point.Y}),
			Attrs: readAttributes(reader, fields),
		})
	}

	zap.L().Info("shapefile points loaded",
		zap.String("component", "feature.shapefile"),
		zap.String("path", path),
		zap.Int("features", out.Len()),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

// ReadShapefileLines loads polyline records from a shapefile, one feature
// per part so each road segment resolves independently.
func ReadShapefileLines(path, crs string) (*Collection, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "feature: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fields := fieldNames(reader)
	out := NewCollection(crs)
	skipped := 0

	for reader.Next() {
		_, shape := reader.Shape()
		line, ok := shape.(*shp.PolyLine)
		if !ok {
			skipped++
			continue
		}
		attrs := readAttributes(reader, fields)

		for i := int32(0); i < line.NumParts; i++ {
			start := line.Parts[i]
			end := int32(len(line.Points))
			if i+1 < line.NumParts {
				end = line.Parts[i+1]
			}
			if end-start < 2 {
				continue
			}
			flat := make([]float64, 0, (end-start)*2)
			for j := start; j < end; j++ {
				flat = append(flat, line.Points[j].X, line.Points[j].Y)
			}
			out.Append(&Feature{
				Geom:  geom.NewLineStringFlat(geom.XY, flat),
				Attrs: attrs,
			})
		}
	}

	zap.L().Info("shapefile lines loaded",
		zap.String("component", "feature.shapefile"),
		zap.String("path", path),
		zap.Int("features", out.Len()),
		zap.Int("skipped", skipped),
	)
	return out, nil
}

// fieldNames returns the attribute column names, trimmed of the null
// padding dbf headers carry.
func fieldNames(reader *shp.Reader) []string {
	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}
	return names
}

func readAttributes(reader *shp.Reader, names []string) map[string]string {
	attrs := make(map[string]string, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		attrs[name] = strings.TrimSpace(reader.Attribute(i))
	}
	return attrs
}
