package timeseries

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	ErrNoData           = errors.New("no series data")
	ErrSeriesLenMismatch = errors.New("date column has a different length than values")
)

// Series represents a single observed time series storing a slice of dates and
// values. Dates are ascending and unique. Values use NaN for missing points.
type Series struct {
	T []time.Time
	V []float64
}

// New returns a Series given a date and value slice. Rows are sorted ascending
// by date and deduplicated by date keeping the most recently listed row.
func New(t []time.Time, v []float64) (*Series, error) {
	if len(v) == 0 {
		return nil, ErrNoData
	}
	if len(t) != len(v) {
		return nil, fmt.Errorf(
			"date column has length of %d, but values has a length of %d, %w",
			len(t), len(v), ErrSeriesLenMismatch,
		)
	}

	type row struct {
		t time.Time
		v float64
	}
	rows := make([]row, 0, len(t))
	for i := 0; i < len(t); i++ {
		rows = append(rows, row{t: t[i], v: v[i]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].t.Before(rows[j].t)
	})

	s := &Series{
		T: make([]time.Time, 0, len(rows)),
		V: make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		if n := len(s.T); n > 0 && r.t.Equal(s.T[n-1]) {
			s.V[n-1] = r.v
			continue
		}
		s.T = append(s.T, r.t)
		s.V = append(s.V, r.v)
	}
	return s, nil
}

func (s *Series) Len() int {
	return len(s.T)
}

// StartTime returns the first date of the series or the zero time if empty.
func (s *Series) StartTime() time.Time {
	if s == nil || len(s.T) == 0 {
		return time.Time{}
	}
	return s.T[0]
}

// EndTime returns the last date of the series or the zero time if empty.
func (s *Series) EndTime() time.Time {
	if s == nil || len(s.T) == 0 {
		return time.Time{}
	}
	return s.T[len(s.T)-1]
}

func (s *Series) Copy() *Series {
	if s == nil {
		return nil
	}
	tSeries := make([]time.Time, len(s.T))
	vSeries := make([]float64, len(s.V))
	copy(tSeries, s.T)
	copy(vSeries, s.V)
	return &Series{
		T: tSeries,
		V: vSeries,
	}
}

// Window returns the subsequence of rows with dates in [start, end] inclusive.
// The returned slices alias the receiver.
func (s *Series) Window(start, end time.Time) *Series {
	lo := sort.Search(len(s.T), func(i int) bool {
		return !s.T[i].Before(start)
	})
	hi := sort.Search(len(s.T), func(i int) bool {
		return s.T[i].After(end)
	})
	return &Series{
		T: s.T[lo:hi],
		V: s.V[lo:hi],
	}
}

// Max returns the maximum value of the series along with the most recent date
// achieving that maximum. Exact ties resolve to the later date. NaN rows are
// skipped. The third return is false if the series holds no usable rows.
func (s *Series) Max() (float64, time.Time, bool) {
	if s == nil {
		return 0, time.Time{}, false
	}
	var (
		maxVal  float64
		maxDate time.Time
		found   bool
	)
	for i := 0; i < len(s.V); i++ {
		if math.IsNaN(s.V[i]) {
			continue
		}
		if !found || s.V[i] >= maxVal {
			maxVal = s.V[i]
			maxDate = s.T[i]
			found = true
		}
	}
	return maxVal, maxDate, found
}

// DropNaN returns a copy of the series with NaN value rows removed.
func (s *Series) DropNaN() *Series {
	if s == nil {
		return nil
	}
	out := &Series{
		T: make([]time.Time, 0, len(s.T)),
		V: make([]float64, 0, len(s.V)),
	}
	for i := 0; i < len(s.V); i++ {
		if math.IsNaN(s.V[i]) {
			continue
		}
		out.T = append(out.T, s.T[i])
		out.V = append(out.V, s.V[i])
	}
	return out
}
