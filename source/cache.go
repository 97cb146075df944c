package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/openmacro/npplot/timeseries"
)

type cacheRow struct {
	Date  string  `csv:"Date"`
	Value float64 `csv:"Value"`
}

// CachePath returns the raw-series cache filename for a dataset and end date,
// e.g. data/djia_2020-07-01.csv.
func CachePath(dataDir, dataset string, endDate time.Time) string {
	return filepath.Join(dataDir, fmt.Sprintf("%s_%s.csv", dataset, endDate.Format("2006-01-02")))
}

// WriteCache persists a freshly fetched raw series to the cache file named by
// the result's actual end date, creating the data directory if needed.
func WriteCache(dataDir, dataset string, res *Result) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create data directory, %w", err)
	}

	rows := make([]cacheRow, 0, res.Series.Len())
	for i := 0; i < res.Series.Len(); i++ {
		rows = append(rows, cacheRow{
			Date:  res.Series.T[i].Format("2006-01-02"),
			Value: res.Series.V[i],
		})
	}

	path := CachePath(dataDir, dataset, res.EndDate)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("unable to create cache file, %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("unable to write cache file %s, %w", path, err)
	}
	return path, nil
}

// Cache reads a raw series previously written by WriteCache. Loading an end
// date that was never cached is an immediate error.
type Cache struct {
	DataDir string
	Dataset string
}

func NewCache(dataDir, dataset string) *Cache {
	return &Cache{DataDir: dataDir, Dataset: dataset}
}

func (c *Cache) Load(_ context.Context, endDate time.Time) (*Result, error) {
	path := CachePath(c.DataDir, c.Dataset, endDate)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s, %w", path, ErrNoCacheFile)
		}
		return nil, fmt.Errorf("unable to open cache file %s, %w", path, err)
	}
	defer file.Close()

	var rows []cacheRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("unable to parse cache file %s, %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s, %w", path, ErrNoDataReturned)
	}

	t := make([]time.Time, 0, len(rows))
	v := make([]float64, 0, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("cache row %d, %w", i, err)
		}
		t = append(t, date)
		v = append(v, row.Value)
	}

	series, err := timeseries.New(t, v)
	if err != nil {
		return nil, err
	}
	return &Result{Series: series, EndDate: series.EndTime()}, nil
}
