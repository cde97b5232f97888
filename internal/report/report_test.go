package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/floodscope/internal/accuracy"
	"github.com/sells-group/floodscope/internal/raster"
)

func sampleEntries() []Entry {
	harvey := Entry{Raster: "harvey_2017.asc"}
	harvey.Result = accuracy.Result{TotalClaims: 200, CoveredClaims: 150, Accuracy: 0.75}
	harvey.Result.Categories = [raster.NumCategories]int{50, 20, 40, 60, 30}

	imelda := Entry{Raster: "imelda_2019.asc"}
	imelda.Result = accuracy.Result{TotalClaims: 80, CoveredClaims: 20, Accuracy: 0.25}
	imelda.Result.Categories = [raster.NumCategories]int{60, 5, 5, 5, 5}

	return []Entry{harvey, imelda}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, tableHeader, records[0])
	assert.Equal(t,
		[]string{"harvey_2017.asc", "200", "150", "0.7500", "50", "20", "40", "60", "30"},
		records[1])
	assert.Equal(t,
		[]string{"imelda_2019.asc", "80", "20", "0.2500", "60", "5", "5", "5", "5"},
		records[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1, "header only")
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accuracy.csv")
	require.NoError(t, ExportCSV(path, sampleEntries()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flood_map,total_claims")
	assert.Contains(t, string(data), "harvey_2017.asc")
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accuracy.xlsx")
	require.NoError(t, ExportXLSX(path, sampleEntries()))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	sheet := file.Sheets[0]
	assert.Equal(t, "accuracy", sheet.Name)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "flood_map", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "harvey_2017.asc", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "0.2500", sheet.Rows[2].Cells[3].Value)
}

func TestCategoryLabels(t *testing.T) {
	labels := CategoryLabels()
	require.Len(t, labels, raster.NumCategories)
	assert.Equal(t, "No Flood", labels[0])
	assert.Equal(t, "Major Flood (>1.0m)", labels[raster.NumCategories-1])
}

func TestRenderHistogramHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHistogramHTML(&buf, sampleEntries()[0]))

	html := buf.String()
	assert.Contains(t, html, "Flood Category Histogram")
	assert.Contains(t, html, "No Flood")
	assert.Contains(t, html, "echarts")
}
