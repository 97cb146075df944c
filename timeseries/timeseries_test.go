package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		v        []float64
		expected *Series
		err      error
	}{
		"no data": {
			err: ErrNoData,
		},
		"length mismatch": {
			v:   []float64{1},
			t:   []time.Time{date(2020, 1, 1), date(2020, 1, 2)},
			err: ErrSeriesLenMismatch,
		},
		"sorts descending input": {
			t: []time.Time{date(2020, 1, 3), date(2020, 1, 1), date(2020, 1, 2)},
			v: []float64{3, 1, 2},
			expected: &Series{
				T: []time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 3)},
				V: []float64{1, 2, 3},
			},
		},
		"dedupes by date keeping last listed": {
			t: []time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 2)},
			v: []float64{1, 2, 7},
			expected: &Series{
				T: []time.Time{date(2020, 1, 1), date(2020, 1, 2)},
				V: []float64{1, 7},
			},
		},
		"valid": {
			t: []time.Time{date(2020, 1, 1), date(2020, 1, 2)},
			v: []float64{1, 2},
			expected: &Series{
				T: []time.Time{date(2020, 1, 1), date(2020, 1, 2)},
				V: []float64{1, 2},
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s, err := New(td.t, td.v)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.expected, s)
		})
	}
}

func TestWindow(t *testing.T) {
	s, err := New(
		[]time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 3), date(2020, 1, 6)},
		[]float64{1, 2, 3, 4},
	)
	require.NoError(t, err)

	testData := map[string]struct {
		start    time.Time
		end      time.Time
		expected []float64
	}{
		"inclusive bounds": {
			start:    date(2020, 1, 2),
			end:      date(2020, 1, 3),
			expected: []float64{2, 3},
		},
		"bounds between observations": {
			start:    date(2020, 1, 4),
			end:      date(2020, 1, 10),
			expected: []float64{4},
		},
		"covers all": {
			start:    date(2019, 1, 1),
			end:      date(2021, 1, 1),
			expected: []float64{1, 2, 3, 4},
		},
		"empty": {
			start:    date(2020, 2, 1),
			end:      date(2020, 3, 1),
			expected: []float64{},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			w := s.Window(td.start, td.end)
			assert.Equal(t, td.expected, w.V)
		})
	}
}

func TestMax(t *testing.T) {
	testData := map[string]struct {
		t        []time.Time
		v        []float64
		expVal   float64
		expDate  time.Time
		expFound bool
	}{
		"empty": {
			expFound: false,
		},
		"single max": {
			t:        []time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 3)},
			v:        []float64{1, 5, 3},
			expVal:   5,
			expDate:  date(2020, 1, 2),
			expFound: true,
		},
		"tie resolves to most recent date": {
			t:        []time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 3)},
			v:        []float64{5, 3, 5},
			expVal:   5,
			expDate:  date(2020, 1, 3),
			expFound: true,
		},
		"nan rows skipped": {
			t:        []time.Time{date(2020, 1, 1), date(2020, 1, 2)},
			v:        []float64{2, math.NaN()},
			expVal:   2,
			expDate:  date(2020, 1, 1),
			expFound: true,
		},
		"all nan": {
			t:        []time.Time{date(2020, 1, 1)},
			v:        []float64{math.NaN()},
			expFound: false,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			s := &Series{T: td.t, V: td.v}
			val, maxDate, found := s.Max()
			assert.Equal(t, td.expFound, found)
			if !td.expFound {
				return
			}
			assert.Equal(t, td.expVal, val)
			assert.Equal(t, td.expDate, maxDate)
		})
	}
}

func TestDropNaN(t *testing.T) {
	s := &Series{
		T: []time.Time{date(2020, 1, 1), date(2020, 1, 2), date(2020, 1, 3)},
		V: []float64{1, math.NaN(), 3},
	}
	out := s.DropNaN()
	assert.Equal(t, []float64{1, 3}, out.V)
	assert.Equal(t, []time.Time{date(2020, 1, 1), date(2020, 1, 3)}, out.T)
}

func TestCopy(t *testing.T) {
	s, err := New(
		[]time.Time{date(2020, 1, 1), date(2020, 1, 2)},
		[]float64{1, 2},
	)
	require.NoError(t, err)

	next := s.Copy()
	require.Equal(t, s, next)

	s.V[0] = 99
	require.NotEqual(t, next, s)
}
