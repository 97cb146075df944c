package recession

import (
	"embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFS embed.FS

var (
	ErrUnknownDataset   = errors.New("no recession table for dataset")
	ErrWindowOutOfOrder = errors.New("window search start is after search end")
)

// NumRecessions is the number of U.S. recessions tracked, from the Great
// Depression (Aug 1929 - Mar 1933) through the most recent recession.
const NumRecessions = 15

// Window describes one recession. The search bounds are a curated date
// interval believed to contain the pre-recession peak of the series.
type Window struct {
	// LabelYear is the short legend label, e.g. "1929-1933".
	LabelYear string

	// LabelYearMonth is the long legend label, e.g. "Aug 1929 - Mar 1933".
	LabelYearMonth string

	// BegYearMonth is the month the recession began, e.g. "Aug 1929".
	BegYearMonth string

	SearchStart time.Time
	SearchEnd   time.Time
}

// Table is the ordered list of recession windows for one dataset. List order
// is meaningful: it fixes recession indices 0..14 and hence legend stacking.
type Table struct {
	Dataset string
	Windows []Window
}

type windowDTO struct {
	LabelYear      string `yaml:"label_year"`
	LabelYearMonth string `yaml:"label_yrmth"`
	BegYearMonth   string `yaml:"beg_yrmth"`
	SearchStart    string `yaml:"search_start"`
	SearchEnd      string `yaml:"search_end"`
}

type tableDTO struct {
	Dataset string      `yaml:"dataset"`
	Windows []windowDTO `yaml:"windows"`
}

// For loads the embedded recession window table for a dataset, e.g. "djia" or
// "usempl". The returned table is a fresh copy the caller may hold onto.
func For(dataset string) (Table, error) {
	raw, err := tableFS.ReadFile(fmt.Sprintf("tables/%s.yaml", dataset))
	if err != nil {
		return Table{}, fmt.Errorf("%s, %w", dataset, ErrUnknownDataset)
	}

	var dto tableDTO
	if err := yaml.Unmarshal(raw, &dto); err != nil {
		return Table{}, fmt.Errorf("unable to parse recession table for %s, %w", dataset, err)
	}

	tbl := Table{
		Dataset: dto.Dataset,
		Windows: make([]Window, 0, len(dto.Windows)),
	}
	for i, w := range dto.Windows {
		start, err := time.Parse("2006-01-02", w.SearchStart)
		if err != nil {
			return Table{}, fmt.Errorf("window %d search start, %w", i, err)
		}
		end, err := time.Parse("2006-01-02", w.SearchEnd)
		if err != nil {
			return Table{}, fmt.Errorf("window %d search end, %w", i, err)
		}
		if start.After(end) {
			return Table{}, fmt.Errorf("window %d %s..%s, %w",
				i, w.SearchStart, w.SearchEnd, ErrWindowOutOfOrder)
		}
		tbl.Windows = append(tbl.Windows, Window{
			LabelYear:      w.LabelYear,
			LabelYearMonth: w.LabelYearMonth,
			BegYearMonth:   w.BegYearMonth,
			SearchStart:    start,
			SearchEnd:      end,
		})
	}
	return tbl, nil
}

// Labels returns the long legend labels in recession order.
func (t Table) Labels() []string {
	labels := make([]string, 0, len(t.Windows))
	for _, w := range t.Windows {
		labels = append(labels, w.LabelYearMonth)
	}
	return labels
}
