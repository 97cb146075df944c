package npplot

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/openmacro/npplot/align"
	"github.com/openmacro/npplot/recession"
)

// figBufferPct pads the default visible range around the main window's data
// extent.
const figBufferPct = 0.07

// middleColors is the categorical ramp for recessions 1..13. The earliest
// (1929) and most recent recessions get distinguished colors and heavier
// lines.
var middleColors = [13]string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c",
	"#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
	"#8c564b", "#c49c94", "#e377c2",
}

const (
	firstColor = "blue"
	lastColor  = "black"
)

func seriesColor(i, n int) string {
	switch {
	case i == 0:
		return firstColor
	case i == n-1:
		return lastColor
	default:
		return middleColors[(i-1)%len(middleColors)]
	}
}

func seriesWidth(i, n int) float32 {
	if i == 0 || i == n-1 {
		return 5
	}
	return 2
}

// buildLine builds the normalized peak plot: one line per recession on a shared
// offset-from-peak axis with month-tick labels, dashed reference lines at the
// peak date and peak value, hover tooltips, and a click-to-mute legend. The
// default visible window is sized from the main-window data extent with a
// fixed buffer; the full spine stays reachable by zooming out.
func buildLine(tbl *align.Table, rec recession.Table, ds dataset, opt *Options, endDate time.Time) *charts.Line {
	cadence := ds.cadence

	backwardMain := cadence.MonthOffset(opt.BackwardMonthsMain)
	forwardMain := cadence.MonthOffset(opt.ForwardMonthsMain)

	minMain, maxMain := tbl.Range(backwardMain, forwardMain)
	rangeMain := maxMain - minMain

	fullMin := float64(-tbl.BackwardMax)
	fullMax := float64(tbl.ForwardMax)
	zoomStart := float32((float64(-backwardMain) - figBufferPct*float64(backwardMain+forwardMain) - fullMin) / (fullMax - fullMin) * 100)
	zoomEnd := float32((float64(forwardMain) + figBufferPct*float64(backwardMain+forwardMain) - fullMin) / (fullMax - fullMin) * 100)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: ds.title,
			Width:     "1100px",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    ds.title,
			Subtitle: fmt.Sprintf("%s, updated %s.", ds.sourceLine, endDate.Format("January 2, 2006")),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: opts.FuncOpts(tooltipFormatter(ds)),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Orient: "vertical",
			Right:  "0",
			Top:    "middle",
		}),
		charts.WithGridOpts(opts.Grid{Right: "220"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Months from peak",
			Min:  fullMin,
			Max:  fullMax,
			AxisLabel: &opts.AxisLabel{
				Formatter: opts.FuncOpts(monthTickFormatter(cadence)),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: ds.yAxisLabel,
			Min:  minMain - figBufferPct*rangeMain,
			Max:  maxMain + figBufferPct*rangeMain,
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside", XAxisIndex: []int{0}, Start: zoomStart, End: zoomEnd},
			opts.DataZoom{Type: "slider", XAxisIndex: []int{0}, Start: zoomStart, End: zoomEnd},
		),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true)},
				DataZoom:    &opts.ToolBoxFeatureDataZoom{Show: opts.Bool(true)},
				Restore:     &opts.ToolBoxFeatureRestore{Show: opts.Bool(true)},
			},
		}),
	)

	n := len(tbl.Columns)
	for i, col := range tbl.Columns {
		data := make([]opts.LineData, 0, len(tbl.Offsets))
		for j, off := range tbl.Offsets {
			if math.IsNaN(col.Normalized[j]) {
				continue
			}
			data = append(data, opts.LineData{Value: []interface{}{
				off,
				col.Normalized[j],
				col.Date[j].Format("2006-01-02"),
				col.Value[j],
			}})
		}

		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithLineStyleOpts(opts.LineStyle{
				Color:   seriesColor(i, n),
				Width:   seriesWidth(i, n),
				Opacity: 0.7,
			}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(i, n)}),
		}
		if i == n-1 {
			// dashed reference lines at the peak date and the peak value
			seriesOpts = append(seriesOpts,
				charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{Name: "peak date", XAxis: 0}),
				charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{Name: "peak value", YAxis: 1}),
				charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
					Symbol: []string{"none", "none"},
					LineStyle: &opts.LineStyle{
						Type:    "dashed",
						Color:   "black",
						Opacity: 0.5,
					},
				}),
			)
		}
		line.AddSeries(rec.Windows[i].LabelYearMonth, data, seriesOpts...)
	}
	return line
}

// monthTickFormatter labels offsets that land on whole calendar months as
// "-3mth", "peak", "+6mth" and blanks the rest.
func monthTickFormatter(cadence align.Cadence) string {
	return fmt.Sprintf(`function (value) {
		var m = value / %g;
		var r = Math.round(m);
		if (Math.abs(m - r) > 0.2) { return ''; }
		if (r === 0) { return 'peak'; }
		return (r > 0 ? '+' : '') + r + 'mth';
	}`, cadence.OffsetsPerMonth())
}

// tooltipFormatter renders date, offset, raw value, and fraction-of-peak for
// a hovered point.
func tooltipFormatter(ds dataset) string {
	return fmt.Sprintf(`function (params) {
		var v = params.value;
		return params.seriesName +
			'<br/>Date: ' + v[2] +
			'<br/>' + v[0] + ' %s from peak' +
			'<br/>%s: ' + Number(v[3]).toLocaleString() +
			'<br/>' + (v[1] * 100).toFixed(1) + '%% of peak';
	}`, ds.unitName, ds.valueName)
}

func renderChart(opt *Options, ds dataset, rec recession.Table, endDate time.Time, res *Results) (string, error) {
	if err := os.MkdirAll(opt.ImagesDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create images directory, %w", err)
	}
	path := filepath.Join(opt.ImagesDir,
		fmt.Sprintf("%s_npp_%s.html", opt.Dataset, endDate.Format("2006-01-02")))

	page := components.NewPage()
	page.PageTitle = ds.title
	page.AddCharts(buildLine(res.Table, rec, ds, opt, endDate))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create chart file, %w", err)
	}
	defer file.Close()

	if err := page.Render(io.MultiWriter(file)); err != nil {
		return "", fmt.Errorf("unable to render chart, %w", err)
	}
	return path, nil
}
