// Package source loads a raw observation series either from a remote data
// provider or from a previously written local cache file. The two paths are
// interchangeable implementations of the Source interface.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/openmacro/npplot/timeseries"
)

var (
	ErrNoDataReturned = errors.New("provider returned no data rows")
	ErrNoCacheFile    = errors.New("no cache file for requested end date")
	ErrBadStatus      = errors.New("provider returned non-OK status")
)

// Result carries the loaded series along with the actual end date of the
// data. The actual end date can differ from the requested one when the
// provider has not yet published data for that date (market holiday, weekend,
// reporting lag).
type Result struct {
	Series  *timeseries.Series
	EndDate time.Time
}

// Source retrieves the full history of a series up to an end date.
type Source interface {
	Load(ctx context.Context, endDate time.Time) (*Result, error)
}
