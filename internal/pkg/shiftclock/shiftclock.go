// Package shiftclock holds the wall-clock arithmetic used by the attendance
// ledger: lateness against a shift start, work hours between check-in and
// check-out, and early-leave detection against a shift end. All values are
// interpreted in a single organizational time zone.
package shiftclock

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-scan-go/internal/pkg/validator"
)

const DefaultZone = "Asia/Phnom_Penh"

const timeLayout = "15:04:05"

// TimeOfDay is a wall-clock time without a date, stored as seconds since midnight.
type TimeOfDay struct {
	seconds int
}

// ParseTimeOfDay parses "HH:mm" or "HH:mm:ss". A value without seconds is
// normalized by appending ":00".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}, nil
}

// FromTime takes the wall-clock part of t in t's own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.seconds/3600, (t.seconds%3600)/60, t.seconds%60)
}

// Minutes returns whole minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.seconds / 60
}

func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.seconds < u.seconds
}

// Lateness compares at minute granularity: 08:00:45 against an 08:00 start is on time.
func Lateness(shiftStart, observed TimeOfDay) (minutesLate int, isLate bool) {
	diff := observed.Minutes() - shiftStart.Minutes()
	if diff <= 0 {
		return 0, false
	}
	return diff, true
}

// WorkHours returns the hours between checkIn and checkOut rounded to two
// decimal places. A checkOut before checkIn is rejected.
func WorkHours(checkIn, checkOut TimeOfDay) (float64, error) {
	if checkOut.Before(checkIn) {
		return 0, validator.ValidationErrors{{
			Field:   "check_out",
			Message: fmt.Sprintf("check_out %s is before check_in %s", checkOut, checkIn),
		}}
	}
	hours := float64(checkOut.seconds-checkIn.seconds) / 3600
	return math.Round(hours*100) / 100, nil
}

// IsEarlyLeave reports whether the check-out minute falls before the shift end minute.
func IsEarlyLeave(shiftEnd, observed TimeOfDay) bool {
	return observed.Minutes() < shiftEnd.Minutes()
}

// Policy binds the arithmetic to the organizational zone and a clock.
type Policy struct {
	loc *time.Location
	now func() time.Time
}

func NewPolicy(zone string) (*Policy, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return &Policy{loc: loc, now: time.Now}, nil
}

// WithClock returns a copy of the policy reading the current instant from now.
func (p *Policy) WithClock(now func() time.Time) *Policy {
	return &Policy{loc: p.loc, now: now}
}

func (p *Policy) Location() *time.Location {
	return p.loc
}

// Now returns the current instant in the organizational zone.
func (p *Policy) Now() time.Time {
	return p.now().In(p.loc)
}

// DateOf truncates t to its calendar day in the organizational zone.
func (p *Policy) DateOf(t time.Time) time.Time {
	local := t.In(p.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, p.loc)
}

// ParseDate parses "YYYY-MM-DD" as a calendar day in the organizational zone.
func (p *Policy) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, p.loc)
}

// MonthRange returns [first day, first day of next month) for "YYYY-MM".
// An empty month means the current one.
func (p *Policy) MonthRange(month string) (from, to time.Time, err error) {
	if month == "" {
		now := p.Now()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, p.loc)
	} else {
		from, err = time.ParseInLocation("2006-01", month, p.loc)
		if err != nil {
			return time.Time{}, time.Time{}, validator.ValidationErrors{{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			}}
		}
	}
	return from, from.AddDate(0, 1, 0), nil
}
