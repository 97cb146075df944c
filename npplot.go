// Package npplot builds normalized peak plots: it retrieves a historical
// market or employment series, aligns each of the last 15 U.S. recessions to
// a shared offset-from-peak axis normalized to the pre-recession peak, and
// renders an interactive comparison chart.
package npplot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openmacro/npplot/align"
	"github.com/openmacro/npplot/recession"
	"github.com/openmacro/npplot/report"
	"github.com/openmacro/npplot/source"
)

const (
	// DatasetDJIA is the Dow Jones Industrial Average daily closing series.
	DatasetDJIA = "djia"

	// DatasetUSEmpl is the monthly U.S. total nonfarm payrolls series.
	DatasetUSEmpl = "usempl"
)

var (
	ErrUnknownDataset     = errors.New("unknown dataset")
	ErrTodayNeedsDownload = errors.New("end date \"today\" requires downloading, no cache can exist for it")
)

type dataset struct {
	cadence    align.Cadence
	title      string
	yAxisLabel string
	valueName  string
	unitName   string
	sourceLine string
	newRemote  func() source.Source
}

var datasets = map[string]dataset{
	DatasetDJIA: {
		cadence:    align.Daily,
		title:      "Progression of DJIA in last 15 recessions",
		yAxisLabel: "DJIA as fraction of peak",
		valueName:  "Closing value",
		unitName:   "days",
		sourceLine: "Source: historical DJIA data from Stooq.com",
		newRemote:  func() source.Source { return source.NewStooq() },
	},
	DatasetUSEmpl: {
		cadence:    align.Monthly,
		title:      "Progression of U.S. nonfarm payrolls in last 15 recessions",
		yAxisLabel: "Payrolls as fraction of peak",
		valueName:  "Total nonfarm payrolls",
		unitName:   "months",
		sourceLine: "Source: U.S. total nonfarm payrolls (PAYEMS) from FRED",
		newRemote:  func() source.Source { return source.NewFRED() },
	},
}

// Run executes the full pipeline for the given options: load or fetch the raw
// series, align it to each recession's peak, unify the recessions onto one
// offset spine, persist the aligned table and peak report, and render the
// chart. Any failure aborts the run; there are no partial results.
func Run(ctx context.Context, opt *Options) (*Results, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	ds, exists := datasets[opt.Dataset]
	if !exists {
		return nil, fmt.Errorf("%s, %w", opt.Dataset, ErrUnknownDataset)
	}

	endDate, err := resolveEndDate(opt)
	if err != nil {
		return nil, err
	}

	src := opt.Source
	if src == nil {
		if opt.Download {
			src = ds.newRemote()
		} else {
			src = source.NewCache(opt.DataDir, opt.Dataset)
		}
	}

	loaded, err := src.Load(ctx, endDate)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s series, %w", opt.Dataset, err)
	}
	if !loaded.EndDate.Equal(endDate) {
		log.WithFields(log.Fields{
			"requested": endDate.Format("2006-01-02"),
			"resolved":  loaded.EndDate.Format("2006-01-02"),
		}).Info("using the provider's actual end date")
		endDate = loaded.EndDate
	}
	log.WithField("end_date", endDate.Format("2006-01-02")).
		Infof("end date of %s series", opt.Dataset)

	res := &Results{EndDate: endDate}

	if opt.Download {
		cachePath, err := source.WriteCache(opt.DataDir, opt.Dataset, loaded)
		if err != nil {
			return nil, err
		}
		res.CachePath = cachePath
	}

	tbl, err := recession.For(opt.Dataset)
	if err != nil {
		return nil, err
	}

	res.Aligned, res.Peaks, err = align.AlignAll(loaded.Series, tbl, ds.cadence)
	if err != nil {
		return nil, err
	}

	backwardMax := ds.cadence.MonthOffset(maxInt(opt.BackwardMonthsMax, opt.BackwardMonthsMain))
	forwardMax := ds.cadence.MonthOffset(maxInt(opt.ForwardMonthsMax, opt.ForwardMonthsMain))
	res.Table = align.Unify(res.Aligned, backwardMax, forwardMax)

	if err := os.MkdirAll(opt.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create data directory, %w", err)
	}
	res.TablePath = filepath.Join(opt.DataDir,
		fmt.Sprintf("%s_aligned_%s.csv", opt.Dataset, endDate.Format("2006-01-02")))
	if err := res.Table.WriteCSV(res.TablePath); err != nil {
		return nil, err
	}

	rpt, err := buildReport(opt, ds, endDate, res)
	if err != nil {
		return nil, err
	}
	res.ReportPath = rpt

	chartPath, err := renderChart(opt, ds, tbl, endDate, res)
	if err != nil {
		return nil, err
	}
	res.ChartPath = chartPath

	if opt.Show {
		if err := openBrowser(res.ChartPath); err != nil {
			log.WithError(err).Warn("unable to open chart in browser")
		}
	}
	return res, nil
}

func buildReport(opt *Options, ds dataset, endDate time.Time, res *Results) (string, error) {
	forwardMax := ds.cadence.MonthOffset(maxInt(opt.ForwardMonthsMax, opt.ForwardMonthsMain))
	rpt, err := report.Build(opt.Dataset, endDate, res.Aligned, forwardMax)
	if err != nil {
		return "", err
	}
	path := filepath.Join(opt.DataDir,
		fmt.Sprintf("%s_peaks_%s.json", opt.Dataset, endDate.Format("2006-01-02")))
	if err := rpt.Write(path); err != nil {
		return "", err
	}
	return path, nil
}

func resolveEndDate(opt *Options) (time.Time, error) {
	if opt.EndDate == TodaySentinel {
		if !opt.Download {
			return time.Time{}, ErrTodayNeedsDownload
		}
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	endDate, err := time.Parse("2006-01-02", opt.EndDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse end date %q, %w", opt.EndDate, err)
	}
	return endDate, nil
}

func openBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", abs).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", abs).Start()
	default:
		return exec.Command("xdg-open", abs).Start()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
