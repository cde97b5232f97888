// Package report exports accuracy results as tabular files and charts.
package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/floodscope/internal/accuracy"
	"github.com/sells-group/floodscope/internal/raster"
)

// Entry pairs one analysis result with the raster it scored.
type Entry struct {
	Raster string
	Result accuracy.Result
}

var tableHeader = []string{
	"flood_map", "total_claims", "covered_claims", "accuracy",
	"no_flood", "nuisance", "minor", "moderate", "major",
}

func tableRow(e Entry) []string {
	row := []string{
		e.Raster,
		strconv.Itoa(e.Result.TotalClaims),
		strconv.Itoa(e.Result.CoveredClaims),
		strconv.FormatFloat(e.Result.Accuracy, 'f', 4, 64),
	}
	for _, n := range e.Result.Categories {
		row = append(row, strconv.Itoa(n))
	}
	return row
}

// WriteCSV writes one row per analyzed raster with the coverage counts and
// the expanded five-category histogram.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tableHeader); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}
	for _, e := range entries {
		if err := cw.Write(tableRow(e)); err != nil {
			return eris.Wrapf(err, "report: write csv row for %s", e.Raster)
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush csv")
}

// ExportCSV writes the results table to a file.
func ExportCSV(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck
	return WriteCSV(f, entries)
}

// ExportXLSX writes the results table as a spreadsheet.
func ExportXLSX(path string, entries []Entry) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("accuracy")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range tableHeader {
		header.AddCell().Value = col
	}
	for _, e := range entries {
		row := sheet.AddRow()
		for _, v := range tableRow(e) {
			row.AddCell().Value = v
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

// CategoryLabels returns the five histogram bucket labels in code order.
func CategoryLabels() []string {
	labels := make([]string, raster.NumCategories)
	for i := range labels {
		labels[i] = raster.Category(i).Label()
	}
	return labels
}
