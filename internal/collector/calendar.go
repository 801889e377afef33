package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers whether an exchange was open on a given date.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Timezone *time.Location
}

// NewTradingCalendar loads the exchange calendar for an ISO 10383 MIC code
// such as "xlon" or "xnys".
func NewTradingCalendar(mic string) (*TradingCalendar, error) {
	mic = strings.ToLower(strings.TrimSpace(mic))
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		return nil, fmt.Errorf("no trading calendar for MIC %q", mic)
	}
	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}, nil
}

// IsTradingDay reports whether the exchange traded on the date of d. Only the
// calendar date of d matters; the check is made at midday exchange time.
func (tc *TradingCalendar) IsTradingDay(d time.Time) bool {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := d.Date()
	return tc.Calendar.IsBusinessDay(time.Date(y, m, day, 12, 0, 0, 0, loc))
}
