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
	// DefaultStooqURL is the Stooq daily-quotes CSV endpoint.
	DefaultStooqURL = "https://stooq.com/q/d/l/"

	// StooqDJIASymbol is the Stooq ticker for the Dow Jones Industrial Average.
	StooqDJIASymbol = "^dji"
)

// djiaSeriesStart is the first trading day with DJIA data on Stooq.
var djiaSeriesStart = time.Date(1896, 5, 27, 0, 0, 0, 0, time.UTC)

type stooqRow struct {
	Date  string `csv:"Date"`
	Close string `csv:"Close"`
}

// Stooq fetches daily closing values from the Stooq CSV API. Network failure
// is a hard failure with no retry.
type Stooq struct {
	Client  *http.Client
	BaseURL string
	Symbol  string

	mkt *calendar.Market
}

func NewStooq() *Stooq {
	return &Stooq{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: DefaultStooqURL,
		Symbol:  StooqDJIASymbol,
		mkt:     calendar.NewMarket(),
	}
}

func (s *Stooq) Load(ctx context.Context, endDate time.Time) (*Result, error) {
	u := fmt.Sprintf("%s?s=%s&d1=%s&d2=%s&i=d",
		s.BaseURL,
		url.QueryEscape(s.Symbol),
		djiaSeriesStart.Format("20060102"),
		endDate.Format("20060102"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stooq fetch, %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stooq read body, %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stooq status %d, %w", resp.StatusCode, ErrBadStatus)
	}

	series, err := parseDailyCSV(body)
	if err != nil {
		return nil, fmt.Errorf("stooq response, %w", err)
	}

	actualEnd := series.EndTime()
	if !actualEnd.Equal(endDate) {
		expected := s.mkt.MostRecentTradingDay(endDate)
		log.WithFields(log.Fields{
			"requested": endDate.Format("2006-01-02"),
			"actual":    actualEnd.Format("2006-01-02"),
			"expected":  expected.Format("2006-01-02"),
		}).Info("provider returned data through an earlier end date")
	}
	return &Result{Series: series, EndDate: actualEnd}, nil
}

func parseDailyCSV(body []byte) (*timeseries.Series, error) {
	var rows []stooqRow
	if err := gocsv.UnmarshalBytes(body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoDataReturned
	}

	t := make([]time.Time, 0, len(rows))
	v := make([]float64, 0, len(rows))
	for i, row := range rows {
		val, ok := parseValue(row.Close)
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

// parseValue converts a provider value cell to a float, reporting false for
// the provider's missing-value markers.
func parseValue(s string) (float64, bool) {
	switch s {
	case "", ".", "na", "NaN":
		return 0, false
	}
	var v float64
	if _, err := fmt.Sscanf(s, "%f", &v); err != nil {
		return 0, false
	}
	return v, true
}
