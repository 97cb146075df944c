// Package report summarizes the aligned recession series: each recession's
// peak, its post-peak trough inside the plotted window, and aggregate
// drawdown statistics across all recessions.
package report

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/montanaflynn/stats"

	"github.com/openmacro/npplot/align"
)

var ErrNoSeries = errors.New("no aligned series to report on")

type Recession struct {
	Index          int     `json:"index"`
	LabelYear      string  `json:"label_year"`
	LabelYearMonth string  `json:"label_yrmth"`
	BegYearMonth   string  `json:"beg_yrmth"`
	PeakValue      float64 `json:"peak_value"`
	PeakDate       string  `json:"peak_date"`
	TroughFraction float64 `json:"trough_fraction,omitempty"`
	TroughOffset   int     `json:"trough_offset,omitempty"`
	TroughDate     string  `json:"trough_date,omitempty"`
}

type Report struct {
	Dataset    string      `json:"dataset"`
	EndDate    string      `json:"end_date"`
	Recessions []Recession `json:"recessions"`

	MeanTroughFraction   float64 `json:"mean_trough_fraction"`
	MedianTroughFraction float64 `json:"median_trough_fraction"`
}

// Build assembles the peak report. The trough for each recession is the
// minimum fraction-of-peak at offsets in [0, forwardMax]; recessions whose
// data has not yet reached past the peak carry no trough fields.
func Build(dataset string, endDate time.Time, series []*align.Series, forwardMax int) (*Report, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	rpt := &Report{
		Dataset:    dataset,
		EndDate:    endDate.Format("2006-01-02"),
		Recessions: make([]Recession, 0, len(series)),
	}

	var troughs []float64
	for _, s := range series {
		rec := Recession{
			Index:          s.Peak.Index,
			LabelYear:      s.Window.LabelYear,
			LabelYearMonth: s.Window.LabelYearMonth,
			BegYearMonth:   s.Window.BegYearMonth,
			PeakValue:      s.Peak.Value,
			PeakDate:       s.Peak.Date.Format("2006-01-02"),
		}

		trough := math.NaN()
		var troughIdx int
		for j, off := range s.Offset {
			if off < 0 || off > forwardMax || math.IsNaN(s.Normalized[j]) {
				continue
			}
			if math.IsNaN(trough) || s.Normalized[j] < trough {
				trough = s.Normalized[j]
				troughIdx = j
			}
		}
		if !math.IsNaN(trough) {
			rec.TroughFraction = trough
			rec.TroughOffset = s.Offset[troughIdx]
			rec.TroughDate = s.T[troughIdx].Format("2006-01-02")
			troughs = append(troughs, trough)
		}
		rpt.Recessions = append(rpt.Recessions, rec)
	}

	if len(troughs) > 0 {
		mean, err := stats.Mean(troughs)
		if err != nil {
			return nil, fmt.Errorf("unable to compute mean trough, %w", err)
		}
		median, err := stats.Median(troughs)
		if err != nil {
			return nil, fmt.Errorf("unable to compute median trough, %w", err)
		}
		rpt.MeanTroughFraction = mean
		rpt.MedianTroughFraction = median
	}
	return rpt, nil
}

// Write persists the report as indented JSON.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal report, %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write report %s, %w", path, err)
	}
	return nil
}
