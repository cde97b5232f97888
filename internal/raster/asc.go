package raster

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ESRI ASCII grid I/O. This is the raster exchange format the loader
// collaborator speaks: a six-line header followed by row-major values,
// first row at the top of the grid.

type ascHeader struct {
	ncols    int
	nrows    int
	xll      float64
	yll      float64
	cellSize float64
	nodata   float64
	hasND    bool
}

func (h ascHeader) transform() Affine {
	return NewUpperLeftAffine(h.xll, h.yll+float64(h.nrows)*h.cellSize, h.cellSize)
}

// ReadASC loads a categorical flood raster from an ESRI ASCII grid file.
// The format carries no CRS, so the caller supplies the identifier.
func ReadASC(path, crs string) (*Grid, error) {
	header, values, err := readASCFile(path)
	if err != nil {
		return nil, err
	}

	nodata := uint8(DefaultNoData)
	data := make([]uint8, len(values))
	for i, v := range values {
		if header.hasND && v == header.nodata {
			data[i] = nodata
			continue
		}
		if v != float64(int(v)) || v < 0 || v > 255 {
			return nil, eris.Errorf("raster: %s: non-categorical cell value %g", path, v)
		}
		data[i] = uint8(v)
	}

	grid, err := NewGrid(data, header.ncols, header.nrows, nodata, header.transform(), crs)
	if err != nil {
		return nil, eris.Wrapf(err, "raster: %s", path)
	}

	zap.L().Info("flood raster loaded",
		zap.String("component", "raster.asc"),
		zap.String("path", path),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.String("crs", crs),
	)
	return grid, nil
}

// ReadDepthASC loads a continuous flood depth raster from an ESRI ASCII
// grid file.
func ReadDepthASC(path, crs string) (*DepthGrid, error) {
	header, values, err := readASCFile(path)
	if err != nil {
		return nil, err
	}
	nodata := header.nodata
	if !header.hasND {
		nodata = -9999
	}
	return &DepthGrid{
		Data:      values,
		Width:     header.ncols,
		Height:    header.nrows,
		NoData:    nodata,
		Transform: header.transform(),
		CRS:       crs,
	}, nil
}

// WriteASC writes a categorical Grid as an ESRI ASCII grid file. Only
// north-up square-cell transforms can be represented by the format.
func WriteASC(path string, g *Grid) error {
	if g.transform.B != 0 || g.transform.D != 0 || g.transform.A != -g.transform.E {
		return eris.New("raster: grid transform is not representable as an ASCII grid")
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "raster: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := bufio.NewWriter(f)
	cell := g.transform.A
	yll := g.transform.F - float64(g.height)*cell
	fmt.Fprintf(w, "ncols %d\n", g.width)
	fmt.Fprintf(w, "nrows %d\n", g.height)
	fmt.Fprintf(w, "xllcorner %g\n", g.transform.C)
	fmt.Fprintf(w, "yllcorner %g\n", yll)
	fmt.Fprintf(w, "cellsize %g\n", cell)
	fmt.Fprintf(w, "nodata_value %d\n", g.nodata)

	for row := 0; row < g.height; row++ {
		for col := 0; col < g.width; col++ {
			if col > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%d", g.data[row*g.width+col])
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "raster: write %s", path)
	}
	return nil
}

// WriteDepthASC writes a depth raster as an ESRI ASCII grid file.
func WriteDepthASC(path string, d *DepthGrid) error {
	if d.Transform.B != 0 || d.Transform.D != 0 || d.Transform.A != -d.Transform.E {
		return eris.New("raster: depth transform is not representable as an ASCII grid")
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "raster: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	w := bufio.NewWriter(f)
	cell := d.Transform.A
	yll := d.Transform.F - float64(d.Height)*cell
	fmt.Fprintf(w, "ncols %d\n", d.Width)
	fmt.Fprintf(w, "nrows %d\n", d.Height)
	fmt.Fprintf(w, "xllcorner %g\n", d.Transform.C)
	fmt.Fprintf(w, "yllcorner %g\n", yll)
	fmt.Fprintf(w, "cellsize %g\n", cell)
	fmt.Fprintf(w, "nodata_value %g\n", d.NoData)

	for row := 0; row < d.Height; row++ {
		for col := 0; col < d.Width; col++ {
			if col > 0 {
				w.WriteByte(' ')
			}
			fmt.Fprintf(w, "%g", d.Data[row*d.Width+col])
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "raster: write %s", path)
	}
	return nil
}

func readASCFile(path string) (ascHeader, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return ascHeader{}, nil, eris.Wrapf(err, "raster: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header ascHeader
	seen := map[string]bool{}
	var values []float64

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		// Header lines are "key value" pairs; the first numeric-keyed line
		// starts the data block.
		if len(fields) == 2 && !isNumeric(fields[0]) {
			key := strings.ToLower(fields[0])
			val, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return ascHeader{}, nil, eris.Errorf("raster: %s: bad header line %q", path, line)
			}
			switch key {
			case "ncols":
				header.ncols = int(val)
			case "nrows":
				header.nrows = int(val)
			case "xllcorner", "xllcenter":
				header.xll = val
			case "yllcorner", "yllcenter":
				header.yll = val
			case "cellsize":
				header.cellSize = val
			case "nodata_value":
				header.nodata = val
				header.hasND = true
			default:
				return ascHeader{}, nil, eris.Errorf("raster: %s: unknown header key %q", path, key)
			}
			seen[key] = true
			continue
		}

		for _, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return ascHeader{}, nil, eris.Errorf("raster: %s: bad cell value %q", path, field)
			}
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return ascHeader{}, nil, eris.Wrapf(err, "raster: read %s", path)
	}

	for _, key := range []string{"ncols", "nrows", "cellsize"} {
		if !seen[key] {
			return ascHeader{}, nil, eris.Errorf("raster: %s: missing header key %q", path, key)
		}
	}
	if header.ncols <= 0 || header.nrows <= 0 || header.cellSize <= 0 {
		return ascHeader{}, nil, eris.Errorf("raster: %s: invalid header dimensions", path)
	}
	if len(values) != header.ncols*header.nrows {
		return ascHeader{}, nil, eris.Errorf("raster: %s: expected %d values, found %d",
			path, header.ncols*header.nrows, len(values))
	}
	return header, values, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
