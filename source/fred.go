package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/openmacro/npplot/calendar"
	"github.com/openmacro/npplot/timeseries"
)

const (
	// DefaultFREDURL is the FRED CSV download endpoint.
	DefaultFREDURL = "https://fred.stlouisfed.org/graph/fredgraph.csv"

	// FREDPayrollSeries is the FRED series id for total nonfarm payrolls,
	// seasonally adjusted, in thousands of persons.
	FREDPayrollSeries = "PAYEMS"
)

// fredSeriesStart is the first month FRED carries PAYEMS data. Earlier months
// come from the embedded historical backfill.
var fredSeriesStart = time.Date(1939, 1, 1, 0, 0, 0, 0, time.UTC)

type fredRow struct {
	Date  string `csv:"DATE"`
	Value string `csv:"PAYEMS"`
}

// FRED fetches the monthly nonfarm payroll series from the FRED CSV API and
// prepends the embedded 1919-1938 backfill so the earliest recession windows
// are populated. Observations are dated on the first of the month, so a
// mid-month end date resolves to the most recent published month.
type FRED struct {
	Client   *http.Client
	BaseURL  string
	SeriesID string

	// Backfill disables the pre-1939 historical prepend when false.
	Backfill bool
}

func NewFRED() *FRED {
	return &FRED{
		Client:   &http.Client{Timeout: 30 * time.Second},
		BaseURL:  DefaultFREDURL,
		SeriesID: FREDPayrollSeries,
		Backfill: true,
	}
}

func (f *FRED) Load(ctx context.Context, endDate time.Time) (*Result, error) {
	u := fmt.Sprintf("%s?id=%s&cosd=%s&coed=%s",
		f.BaseURL,
		url.QueryEscape(f.SeriesID),
		fredSeriesStart.Format("2006-01-02"),
		endDate.Format("2006-01-02"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fred fetch, %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fred read body, %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fred status %d, %w", resp.StatusCode, ErrBadStatus)
	}

	series, err := parseFREDCSV(body)
	if err != nil {
		return nil, fmt.Errorf("fred response, %w", err)
	}

	if f.Backfill {
		series, err = prependHistoricalPayrolls(series)
		if err != nil {
			return nil, err
		}
	}

	actualEnd := series.EndTime()
	if !actualEnd.Equal(endDate) {
		log.WithFields(log.Fields{
			"requested": endDate.Format("2006-01-02"),
			"actual":    actualEnd.Format("2006-01-02"),
			"month":     calendar.MonthStart(endDate).Format("2006-01-02"),
		}).Info("provider returned data through an earlier end date")
	}
	return &Result{Series: series, EndDate: actualEnd}, nil
}

func parseFREDCSV(body []byte) (*timeseries.Series, error) {
	var rows []fredRow
	if err := gocsv.UnmarshalBytes(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataReturned
	}

	t := make([]time.Time, 0, len(rows))
	v := make([]float64, 0, len(rows))
	for i, row := range rows {
		val, ok := parseValue(row.Value)
		if !ok {
			continue
		}
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", i, err)
		}
		t = append(t, date)
		v = append(v, val)
	}
	if len(t) == 0 {
		return nil, ErrNoDataReturned
	}
	return timeseries.New(t, v)
}
