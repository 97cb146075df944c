package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmacro/npplot/timeseries"
)

func TestHistoricalPayrolls(t *testing.T) {
	hist := historicalPayrolls()

	assert.Equal(t, date(1919, 1, 1), hist.StartTime())
	assert.Equal(t, date(1938, 12, 1), hist.EndTime())
	assert.Equal(t, 20*12, hist.Len())

	// one observation per month, no gaps
	for i := 1; i < hist.Len(); i++ {
		assert.Equal(t, hist.T[i-1].AddDate(0, 1, 0), hist.T[i])
	}

	// January observations anchor on the annual table
	for i := 0; i < hist.Len(); i += 12 {
		yr := hist.T[i].Year()
		assert.Equal(t, annualPayrolls[yr-1919].value, hist.V[i], "year %d", yr)
	}
}

func TestPrependHistoricalPayrolls(t *testing.T) {
	fetched, err := timeseries.New(
		[]time.Time{date(1939, 1, 1), date(1939, 2, 1)},
		[]float64{29923, 30100},
	)
	require.NoError(t, err)

	joined, err := prependHistoricalPayrolls(fetched)
	require.NoError(t, err)
	assert.Equal(t, date(1919, 1, 1), joined.StartTime())
	assert.Equal(t, date(1939, 2, 1), joined.EndTime())
	assert.Equal(t, 20*12+2, joined.Len())
}

func TestPrependHistoricalPayrollsOverlap(t *testing.T) {
	fetched, err := timeseries.New(
		[]time.Time{date(1938, 12, 1), date(1939, 1, 1)},
		[]float64{29209, 29923},
	)
	require.NoError(t, err)

	_, err = prependHistoricalPayrolls(fetched)
	assert.ErrorIs(t, err, ErrBackfillOverlap)
}
