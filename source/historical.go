package source

import (
	"errors"
	"time"

	"github.com/openmacro/npplot/timeseries"
)

var ErrBackfillOverlap = errors.New("historical backfill overlaps fetched series")

// annualPayrolls holds estimated annual-average U.S. total nonfarm payrolls in
// thousands of persons for the years before the FRED PAYEMS series begins,
// derived from historical BLS statistics. The 1939 entry anchors the
// interpolation endpoint against the first FRED observation.
var annualPayrolls = []struct {
	year  int
	value float64
}{
	{1919, 27150},
	{1920, 27350},
	{1921, 25000},
	{1922, 25900},
	{1923, 28000},
	{1924, 28000},
	{1925, 28800},
	{1926, 29500},
	{1927, 29660},
	{1928, 29900},
	{1929, 31324},
	{1930, 29424},
	{1931, 26649},
	{1932, 23628},
	{1933, 23711},
	{1934, 25953},
	{1935, 27053},
	{1936, 29082},
	{1937, 31026},
	{1938, 29209},
	{1939, 29923},
}

// historicalPayrolls expands the annual table to one observation per month by
// linear interpolation between January anchors, covering 1919-01 through
// 1938-12.
func historicalPayrolls() *timeseries.Series {
	var (
		t []time.Time
		v []float64
	)
	for i := 0; i < len(annualPayrolls)-1; i++ {
		cur := annualPayrolls[i]
		next := annualPayrolls[i+1]
		for m := 0; m < 12; m++ {
			t = append(t, time.Date(cur.year, time.Month(m+1), 1, 0, 0, 0, 0, time.UTC))
			v = append(v, cur.value+(next.value-cur.value)*float64(m)/12.0)
		}
	}
	s, err := timeseries.New(t, v)
	if err != nil {
		// table is compiled in, so a construction failure is a bug
		panic(err)
	}
	return s
}

// prependHistoricalPayrolls joins the embedded pre-1939 monthly backfill with
// a fetched payroll series. The fetched series must begin after the backfill
// ends.
func prependHistoricalPayrolls(fetched *timeseries.Series) (*timeseries.Series, error) {
	hist := historicalPayrolls()
	if fetched.Len() > 0 && !fetched.StartTime().After(hist.EndTime()) {
		return nil, ErrBackfillOverlap
	}
	t := append(hist.T, fetched.T...)
	v := append(hist.V, fetched.V...)
	return timeseries.New(t, v)
}
