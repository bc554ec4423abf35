/**
 * @description
 * Calendar arithmetic for billing periods and the expiry rollover logic.
 *
 * Month and year additions clamp the day-of-month instead of normalizing:
 * Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year), never Mar 2/3.
 * The stdlib time.AddDate normalizes, so months and years are computed
 * explicitly via time.Date with the day clamped to the target month length.
 */
package domain

import (
	"math"
	"time"
)

// IsLeapYear reports whether year is a leap year in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year int, month time.Month) int {
	switch month {
	case time.February:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// DateOf strips the time-of-day component, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddPeriod advances a calendar date by value units. For months the target
// day-of-month is min(original day, length of target month); for years a
// Feb 29 start clamps to Feb 28 when the target year is not a leap year.
func AddPeriod(date time.Time, value int, unit PeriodUnit) time.Time {
	date = DateOf(date)
	switch unit {
	case PeriodDay:
		return date.AddDate(0, 0, value)
	case PeriodMonth:
		month0 := int(date.Month()) - 1 + value
		year := date.Year() + month0/12
		month := time.Month(month0%12 + 1)
		day := date.Day()
		if max := DaysInMonth(year, month); day > max {
			day = max
		}
		return time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	case PeriodYear:
		year := date.Year() + value
		day := date.Day()
		if max := DaysInMonth(year, date.Month()); day > max {
			day = max
		}
		return time.Date(year, date.Month(), day, 0, 0, 0, 0, date.Location())
	}
	return date
}

// NextExpiry computes the expiry date of the cycle that starts at start:
// one period past the start date, then, for recurring subscriptions, advanced
// by whole periods until it is not in the past. Creation and rollover share
// this path so both always land exactly on a period boundary.
func NextExpiry(start time.Time, value int, unit PeriodUnit, recurring bool, now time.Time) time.Time {
	today := DateOf(now)
	expiry := AddPeriod(start, value, unit)
	if value < 1 || !unit.Valid() {
		return expiry
	}
	for recurring && expiry.Before(today) {
		expiry = AddPeriod(expiry, value, unit)
	}
	return expiry
}

// DaysRemaining is the whole number of calendar days until the expiry date,
// negative when the subscription is already past due. Both dates are
// truncated to midnight first, so "expires today" is exactly zero.
func (s *Subscription) DaysRemaining(now time.Time) int {
	diff := DateOf(s.ExpiryDate).Sub(DateOf(now))
	return int(math.Round(diff.Hours() / 24))
}

// AdvanceToCurrent rolls an overdue recurring subscription forward to the
// next unexpired cycle boundary and reports whether the expiry date changed.
// Non-recurring subscriptions are left untouched: once lapsed they stay
// lapsed. Calling this again with the same now is a no-op.
func (s *Subscription) AdvanceToCurrent(now time.Time) bool {
	if !s.Recurring {
		return false
	}
	// A positive period and a known unit guarantee each iteration strictly
	// increases the expiry date, so the loop terminates.
	if s.PeriodValue < 1 || !s.PeriodUnit.Valid() {
		return false
	}
	today := DateOf(now)
	changed := false
	for DateOf(s.ExpiryDate).Before(today) {
		s.ExpiryDate = AddPeriod(s.ExpiryDate, s.PeriodValue, s.PeriodUnit)
		changed = true
	}
	return changed
}
