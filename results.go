package npplot

import (
	"time"

	"github.com/openmacro/npplot/align"
)

// Results carries everything a run produced: the resolved end date, the peak
// records, the unified offset table, and the paths of the persisted files.
type Results struct {
	EndDate time.Time

	Peaks   []align.Peak
	Aligned []*align.Series
	Table   *align.Table

	CachePath  string
	TablePath  string
	ReportPath string
	ChartPath  string
}
