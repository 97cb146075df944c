package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
	"github.com/rickar/cal/v2/us"
)

// Market is a business-day calendar for U.S. equity markets. Weekends and the
// standard NYSE full-day holidays are non-trading days.
type Market struct {
	cal *cal.BusinessCalendar
}

// NewMarket returns a calendar loaded with the NYSE full-day holiday schedule.
func NewMarket() *Market {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		aa.GoodFriday,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	return &Market{cal: c}
}

// IsTradingDay reports whether the market is open on the given date.
func (m *Market) IsTradingDay(t time.Time) bool {
	return m.cal.IsWorkday(t)
}

// MostRecentTradingDay returns the latest trading day on or before t. This is
// the date a daily provider is expected to have data for when t falls on a
// weekend or market holiday.
func (m *Market) MostRecentTradingDay(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	for !m.cal.IsWorkday(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// MonthStart truncates t to the first day of its month. Monthly providers
// report one observation per month dated on the first.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthsBetween returns the number of whole calendar months from a to b,
// negative when b precedes a.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
