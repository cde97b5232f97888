package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"

	"github.com/sells-group/floodscope/internal/raster"
)

// HistogramChart builds a bar chart of a run's per-category claim counts,
// one bar per severity code in its display color.
func HistogramChart(e Entry) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Flood Category Histogram",
			Subtitle: fmt.Sprintf("%s: %d/%d claims covered (%.1f%%)",
				e.Raster, e.Result.CoveredClaims, e.Result.TotalClaims, e.Result.Accuracy*100),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "claims"}),
	)

	data := make([]opts.BarData, raster.NumCategories)
	for i, n := range e.Result.Categories {
		data[i] = opts.BarData{
			Value:     n,
			ItemStyle: &opts.ItemStyle{Color: raster.Category(i).Color()},
		}
	}
	bar.SetXAxis(CategoryLabels()).AddSeries("claims", data)
	return bar
}

// RenderHistogramHTML writes the histogram chart as a standalone HTML page.
func RenderHistogramHTML(w io.Writer, e Entry) error {
	if err := HistogramChart(e).Render(w); err != nil {
		return eris.Wrap(err, "report: render histogram chart")
	}
	return nil
}
