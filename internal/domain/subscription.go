/**
 * @description
 * This file defines the core domain model for SubsTracker.
 * A Subscription represents one recurring (or one-off) paid service the user
 * tracks: its billing period, the date the current cycle ends, and the
 * reminder threshold used by the daily check.
 */
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PeriodUnit is the unit of a subscription's billing period.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

// Valid reports whether the unit is one of day, month or year.
func (u PeriodUnit) Valid() bool {
	switch u {
	case PeriodDay, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Subscription is the persisted record for one tracked subscription.
// JSON field names match the original data file format, so an existing
// subscriptions.json keeps working ("custom_type" is the category label).
type Subscription struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Category      string     `json:"custom_type"`
	Notes         string     `json:"notes"`
	StartDate     time.Time  `json:"start_date"`
	ExpiryDate    time.Time  `json:"expiry_date"`
	PeriodValue   int        `json:"period_value"`
	PeriodUnit    PeriodUnit `json:"period_unit"`
	ReminderDays  int        `json:"reminder_days"`
	IsActive      bool       `json:"is_active"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	Recurring     bool       `json:"recurring"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// dateLayouts are the timestamp shapes found in existing data files: RFC3339
// from this implementation, bare dates and offset-less isoformat() strings
// from the original one. time.Parse tolerates fractional seconds, so
// microsecond isoformat() timestamps parse under the second layout too.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// flexTime decodes any of the dateLayouts shapes. Marshaling is unchanged:
// records are always written back as RFC3339.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", raw)
}

// UnmarshalJSON accepts the original app's date formats alongside RFC3339 so
// an existing subscriptions.json keeps working.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	type alias Subscription
	aux := &struct {
		StartDate  flexTime `json:"start_date"`
		ExpiryDate flexTime `json:"expiry_date"`
		CreatedAt  flexTime `json:"created_at"`
		UpdatedAt  flexTime `json:"updated_at"`
		*alias
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	s.StartDate = aux.StartDate.Time
	s.ExpiryDate = aux.ExpiryDate.Time
	s.CreatedAt = aux.CreatedAt.Time
	s.UpdatedAt = aux.UpdatedAt.Time
	return nil
}

// Validate checks the fields the scan and the rollover arithmetic depend on.
// A record failing validation is treated as malformed: the API rejects it and
// the daily check skips it with a warning instead of aborting the run.
func (s *Subscription) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if s.PeriodValue < 1 {
		return fmt.Errorf("period value must be at least 1, got %d", s.PeriodValue)
	}
	if !s.PeriodUnit.Valid() {
		return fmt.Errorf("invalid period unit %q", s.PeriodUnit)
	}
	if s.ReminderDays < 0 {
		return fmt.Errorf("reminder days must not be negative, got %d", s.ReminderDays)
	}
	return nil
}

// PeriodDescription renders the billing cadence for notifications, e.g.
// "1 month" or "3 days".
func (s *Subscription) PeriodDescription() string {
	unit := string(s.PeriodUnit)
	if s.PeriodValue != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", s.PeriodValue, unit)
}
