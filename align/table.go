package align

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
)

// Column is one recession's observations joined onto the shared offset spine.
// Offsets with no observation (market holidays, weekends, months before the
// series begins) hold a zero Date and NaN values.
type Column struct {
	Date       []time.Time
	Value      []float64
	Normalized []float64
}

// Table is the outer join of all aligned recession series on a shared,
// contiguous integer offset spine running from -BackwardMax to +ForwardMax.
type Table struct {
	BackwardMax int
	ForwardMax  int

	Offsets []int
	Columns []Column
}

// Unify left-joins each aligned series onto the offset spine
// [-backwardMax, +forwardMax]. Series rows outside the spine are dropped.
func Unify(series []*Series, backwardMax, forwardMax int) *Table {
	n := backwardMax + forwardMax + 1
	tbl := &Table{
		BackwardMax: backwardMax,
		ForwardMax:  forwardMax,
		Offsets:     make([]int, 0, n),
		Columns:     make([]Column, len(series)),
	}
	for off := -backwardMax; off <= forwardMax; off++ {
		tbl.Offsets = append(tbl.Offsets, off)
	}

	for i, s := range series {
		col := Column{
			Date:       make([]time.Time, n),
			Value:      make([]float64, n),
			Normalized: make([]float64, n),
		}
		for j := range col.Value {
			col.Value[j] = math.NaN()
			col.Normalized[j] = math.NaN()
		}
		for j, off := range s.Offset {
			if off < -backwardMax || off > forwardMax {
				continue
			}
			row := off + backwardMax
			col.Date[row] = s.T[j]
			col.Value[row] = s.V[j]
			col.Normalized[row] = s.Normalized[j]
		}
		tbl.Columns[i] = col
	}
	return tbl
}

// Range returns the minimum and maximum normalized values across all
// recessions restricted to offsets in [-backward, +forward], skipping missing
// cells. Used to size the default chart window.
func (t *Table) Range(backward, forward int) (float64, float64) {
	var vals []float64
	for _, col := range t.Columns {
		for j, off := range t.Offsets {
			if off < -backward || off > forward || math.IsNaN(col.Normalized[j]) {
				continue
			}
			vals = append(vals, col.Normalized[j])
		}
	}
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(vals), floats.Max(vals)
}

type tableRow struct {
	Recession  int     `csv:"recession"`
	Offset     int     `csv:"offset"`
	Date       string  `csv:"date"`
	Value      float64 `csv:"value"`
	Normalized float64 `csv:"normalized"`
}

// WriteCSV persists the table in long form, one row per recession per
// observed offset. Missing cells are omitted.
func (t *Table) WriteCSV(path string) error {
	rows := make([]tableRow, 0, len(t.Offsets))
	for i, col := range t.Columns {
		for j, off := range t.Offsets {
			if math.IsNaN(col.Normalized[j]) {
				continue
			}
			rows = append(rows, tableRow{
				Recession:  i,
				Offset:     off,
				Date:       col.Date[j].Format("2006-01-02"),
				Value:      col.Value[j],
				Normalized: col.Normalized[j],
			})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create aligned table file, %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("unable to write aligned table %s, %w", path, err)
	}
	return nil
}
