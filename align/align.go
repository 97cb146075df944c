// Package align locates each recession's pre-recession peak, re-indexes every
// observation onto a signed offset-from-peak axis, and normalizes values to a
// fraction of the peak.
package align

import (
	"errors"
	"fmt"
	"math"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openmacro/npplot/calendar"
	"github.com/openmacro/npplot/recession"
	"github.com/openmacro/npplot/timeseries"
)

var (
	ErrEmptyPeakWindow = errors.New("no data in peak search window")
	ErrPeakValueZero   = errors.New("peak value is zero")
)

// Cadence is the native reporting interval of a series. It fixes the unit of
// the offset-from-peak axis: whole days for daily series, whole calendar
// months for monthly series.
type Cadence int

const (
	Daily Cadence = iota
	Monthly
)

// avgDaysPerMonth matches the month-to-day conversion used for sizing the
// daily display windows.
const avgDaysPerMonth = 364.25 / 12

// Offset returns the signed distance from the peak date to date in the
// cadence's native unit.
func (c Cadence) Offset(peak, date time.Time) int {
	switch c {
	case Monthly:
		return calendar.MonthsBetween(peak, date)
	default:
		return int(math.Round(date.Sub(peak).Hours() / 24))
	}
}

// MonthOffset converts a whole number of months to this cadence's offset
// units, e.g. 6 months forward is 182 offsets on a daily axis and 6 on a
// monthly one.
func (c Cadence) MonthOffset(months int) int {
	if c == Monthly {
		return months
	}
	return int(math.Round(float64(months) * avgDaysPerMonth))
}

// OffsetsPerMonth returns how many offset units span one calendar month.
func (c Cadence) OffsetsPerMonth() float64 {
	if c == Monthly {
		return 1
	}
	return avgDaysPerMonth
}

// Peak is the maximum series value found inside one recession's curated
// search window, along with the most recent date achieving it.
type Peak struct {
	Index int
	Value float64
	Date  time.Time
}

// Series is one recession's view of the full raw series: every observation
// re-expressed as an offset from the recession's peak date and as a fraction
// of the peak value.
type Series struct {
	Peak   Peak
	Window recession.Window

	Offset     []int
	T          []time.Time
	V          []float64
	Normalized []float64
}

// FindPeak locates the peak inside a recession's search window, bounds
// inclusive. Exact value ties resolve to the most recent date. An empty
// window fails loudly rather than propagating a null peak.
func FindPeak(s *timeseries.Series, idx int, w recession.Window) (Peak, error) {
	val, date, ok := s.Window(w.SearchStart, w.SearchEnd).Max()
	if !ok {
		return Peak{}, fmt.Errorf("recession %d (%s) %s..%s, %w",
			idx, w.LabelYear,
			w.SearchStart.Format("2006-01-02"), w.SearchEnd.Format("2006-01-02"),
			ErrEmptyPeakWindow)
	}
	if val == 0 {
		return Peak{}, fmt.Errorf("recession %d (%s), %w", idx, w.LabelYear, ErrPeakValueZero)
	}
	return Peak{Index: idx, Value: val, Date: date}, nil
}

// Align re-expresses the full raw series relative to a recession's peak. The
// whole series is carried, not just the search window, so the chart can show
// the trajectory before and after.
func Align(s *timeseries.Series, peak Peak, w recession.Window, cadence Cadence) *Series {
	out := &Series{
		Peak:       peak,
		Window:     w,
		Offset:     make([]int, 0, s.Len()),
		T:          make([]time.Time, 0, s.Len()),
		V:          make([]float64, 0, s.Len()),
		Normalized: make([]float64, 0, s.Len()),
	}
	for i := 0; i < s.Len(); i++ {
		out.Offset = append(out.Offset, cadence.Offset(peak.Date, s.T[i]))
		out.T = append(out.T, s.T[i])
		out.V = append(out.V, s.V[i])
		out.Normalized = append(out.Normalized, s.V[i]/peak.Value)
	}
	return out
}

// AlignAll runs peak search and alignment for every window in the recession
// table, in table order. The first empty window aborts the run.
func AlignAll(s *timeseries.Series, tbl recession.Table, cadence Cadence) ([]*Series, []Peak, error) {
	aligned := make([]*Series, 0, len(tbl.Windows))
	peaks := make([]Peak, 0, len(tbl.Windows))
	for i, w := range tbl.Windows {
		peak, err := FindPeak(s, i, w)
		if err != nil {
			return nil, nil, err
		}
		log.WithFields(log.Fields{
			"recession": i,
			"beg_month": w.BegYearMonth,
			"peak":      peak.Value,
			"date":      peak.Date.Format("2006-01-02"),
		}).Info("located recession peak")

		aligned = append(aligned, Align(s, peak, w, cadence))
		peaks = append(peaks, peak)
	}
	return aligned, peaks, nil
}
