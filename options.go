package npplot

import (
	"github.com/openmacro/npplot/source"
)

// TodaySentinel requests the current date as the series end date. It is only
// valid when downloading, since no cache file can exist for an open-ended
// "today".
const TodaySentinel = "today"

// Options configures a normalized peak plot run. The main window sizes fix
// the default visible chart range; the max window sizes fix how far the
// offset spine extends and how far the chart can be zoomed out.
type Options struct {
	// Dataset selects the series to plot, DatasetDJIA or DatasetUSEmpl.
	Dataset string

	// EndDate is an ISO date (YYYY-mm-dd) or TodaySentinel.
	EndDate string

	// Download fetches from the remote provider when true, otherwise a cache
	// file written by a previous run for the same end date is read.
	Download bool

	ForwardMonthsMain  int
	BackwardMonthsMain int
	ForwardMonthsMax   int
	BackwardMonthsMax  int

	// Show opens the rendered chart in a browser once written.
	Show bool

	// DataDir holds raw-series caches, the aligned table, and the peak
	// report. ImagesDir holds the rendered chart document.
	DataDir   string
	ImagesDir string

	// Source overrides the provider/cache selection. Used by tests to point
	// the pipeline at a stub provider.
	Source source.Source
}

// NewDefaultOptions returns the built-in defaults: today's DJIA history
// fetched remotely, a one month back / six months forward main window, and a
// three months back / twelve months forward zoomed-out limit.
func NewDefaultOptions() *Options {
	return &Options{
		Dataset:            DatasetDJIA,
		EndDate:            TodaySentinel,
		Download:           true,
		ForwardMonthsMain:  6,
		BackwardMonthsMain: 1,
		ForwardMonthsMax:   12,
		BackwardMonthsMax:  3,
		Show:               true,
		DataDir:            "data",
		ImagesDir:          "images",
	}
}

// NewDefaultPayrollOptions returns the defaults for the monthly nonfarm
// payroll plot, which looks much further out than the daily market plot.
func NewDefaultPayrollOptions() *Options {
	opt := NewDefaultOptions()
	opt.Dataset = DatasetUSEmpl
	opt.ForwardMonthsMain = 12
	opt.BackwardMonthsMain = 2
	opt.ForwardMonthsMax = 96
	opt.BackwardMonthsMax = 48
	return opt
}
