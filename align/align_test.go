package align

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmacro/npplot/recession"
	"github.com/openmacro/npplot/timeseries"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func window(start, end time.Time) recession.Window {
	return recession.Window{
		LabelYear:      "2020",
		LabelYearMonth: "Feb 2020 - Apr 2020",
		BegYearMonth:   "Feb 2020",
		SearchStart:    start,
		SearchEnd:      end,
	}
}

func TestCadenceOffset(t *testing.T) {
	testData := map[string]struct {
		cadence  Cadence
		peak     time.Time
		date     time.Time
		expected int
	}{
		"daily at peak":      {Daily, date(2020, 2, 12), date(2020, 2, 12), 0},
		"daily forward":      {Daily, date(2020, 2, 12), date(2020, 3, 23), 40},
		"daily backward":     {Daily, date(2020, 2, 12), date(2020, 2, 10), -2},
		"monthly at peak":    {Monthly, date(2020, 2, 1), date(2020, 2, 1), 0},
		"monthly forward":    {Monthly, date(2020, 2, 1), date(2022, 2, 1), 24},
		"monthly backward":   {Monthly, date(2020, 2, 1), date(2019, 11, 1), -3},
		"daily across years": {Daily, date(2019, 12, 31), date(2020, 1, 2), 2},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, td.expected, td.cadence.Offset(td.peak, td.date))
		})
	}
}

func TestCadenceMonthOffset(t *testing.T) {
	assert.Equal(t, 6, Monthly.MonthOffset(6))
	assert.Equal(t, -48, Monthly.MonthOffset(-48))
	// 6 * 364.25/12 rounds to 182
	assert.Equal(t, 182, Daily.MonthOffset(6))
	assert.Equal(t, 30, Daily.MonthOffset(1))
}

func TestFindPeak(t *testing.T) {
	s, err := timeseries.New(
		[]time.Time{
			date(2020, 1, 2), date(2020, 2, 3), date(2020, 2, 12),
			date(2020, 2, 21), date(2020, 3, 23),
		},
		[]float64{100, 110, 120, 120, 60},
	)
	require.NoError(t, err)

	testData := map[string]struct {
		w       recession.Window
		expVal  float64
		expDate time.Time
		err     error
	}{
		"max inside window": {
			w:       window(date(2020, 2, 1), date(2020, 2, 15)),
			expVal:  120,
			expDate: date(2020, 2, 12),
		},
		"tie resolves to most recent date": {
			w:       window(date(2020, 2, 1), date(2020, 3, 15)),
			expVal:  120,
			expDate: date(2020, 2, 21),
		},
		"bounds inclusive": {
			w:       window(date(2020, 2, 12), date(2020, 2, 12)),
			expVal:  120,
			expDate: date(2020, 2, 12),
		},
		"empty window fails loudly": {
			w:   window(date(2021, 1, 1), date(2021, 3, 1)),
			err: ErrEmptyPeakWindow,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			peak, err := FindPeak(s, 3, td.w)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, peak.Index)
			assert.Equal(t, td.expVal, peak.Value)
			assert.Equal(t, td.expDate, peak.Date)
		})
	}
}

func TestAlign(t *testing.T) {
	s, err := timeseries.New(
		[]time.Time{
			date(2020, 1, 2), date(2020, 2, 12), date(2020, 3, 23),
		},
		[]float64{100, 120, 60},
	)
	require.NoError(t, err)

	w := window(date(2020, 2, 1), date(2020, 3, 15))
	peak, err := FindPeak(s, 0, w)
	require.NoError(t, err)

	aligned := Align(s, peak, w, Daily)

	// the full series is carried, not just the search window
	require.Len(t, aligned.Offset, 3)
	assert.Equal(t, []int{-41, 0, 40}, aligned.Offset)
	assert.InDelta(t, 100.0/120.0, aligned.Normalized[0], 1e-15)
	assert.Equal(t, 1.0, aligned.Normalized[1])
	assert.InDelta(t, 0.5, aligned.Normalized[2], 1e-15)
	assert.Equal(t, []float64{100, 120, 60}, aligned.V)
}

func TestAlignAll(t *testing.T) {
	// monthly series rising through each window then falling after
	var (
		ts []time.Time
		vs []float64
	)
	for m := 0; m < 36; m++ {
		ts = append(ts, date(2019, 1, 1).AddDate(0, m, 0))
		vs = append(vs, float64(100+m))
	}
	s, err := timeseries.New(ts, vs)
	require.NoError(t, err)

	tbl := recession.Table{
		Dataset: "test",
		Windows: []recession.Window{
			window(date(2019, 6, 1), date(2019, 9, 30)),
			window(date(2020, 11, 1), date(2021, 2, 28)),
		},
	}

	aligned, peaks, err := AlignAll(s, tbl, Monthly)
	require.NoError(t, err)
	require.Len(t, aligned, 2)
	require.Len(t, peaks, 2)

	// a strictly increasing series peaks on the last observation in each window
	assert.Equal(t, date(2019, 9, 1), peaks[0].Date)
	assert.Equal(t, date(2021, 2, 1), peaks[1].Date)
	assert.Equal(t, 0, peaks[0].Index)
	assert.Equal(t, 1, peaks[1].Index)

	for _, a := range aligned {
		for j, off := range a.Offset {
			if off == 0 {
				assert.Equal(t, 1.0, a.Normalized[j])
			}
		}
	}
}

func TestAlignAllEmptyWindowAborts(t *testing.T) {
	s, err := timeseries.New(
		[]time.Time{date(2020, 1, 1), date(2020, 2, 1)},
		[]float64{1, 2},
	)
	require.NoError(t, err)

	tbl := recession.Table{
		Dataset: "test",
		Windows: []recession.Window{
			window(date(2020, 1, 1), date(2020, 2, 28)),
			window(date(2031, 1, 1), date(2031, 3, 1)),
		},
	}

	_, _, err = AlignAll(s, tbl, Monthly)
	assert.ErrorIs(t, err, ErrEmptyPeakWindow)
}
