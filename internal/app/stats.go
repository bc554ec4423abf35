/**
 * @description
 * Aggregation for the dashboard stats endpoint: spend per category, monthly
 * cost normalization, payment method counts and expiry buckets.
 */
package app

import (
	"context"
	"time"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

// CategoryStat is the count and total amount for one category label.
type CategoryStat struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// ExpiryBuckets counts active subscriptions by how close to expiry they are.
type ExpiryBuckets struct {
	Soon    int `json:"soon"`
	Normal  int `json:"normal"`
	Expired int `json:"expired"`
}

// Stats is the aggregated view served to the dashboard.
type Stats struct {
	TypeStats    map[string]CategoryStat `json:"type_stats"`
	MonthlyStats map[string]float64      `json:"monthly_stats"`
	PaymentStats map[string]int          `json:"payment_stats"`
	ExpiryStats  ExpiryBuckets           `json:"expiry_stats"`
	TotalAmount  float64                 `json:"total_amount"`
	TotalCount   int                     `json:"total_count"`
	ActiveCount  int                     `json:"active_count"`
}

// Stats aggregates the current record set.
func (s *Service) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(subs, now), nil
}

// BuildStats computes the dashboard aggregates for the given records.
func BuildStats(subs []domain.Subscription, now time.Time) *Stats {
	stats := &Stats{
		TypeStats:    map[string]CategoryStat{},
		MonthlyStats: map[string]float64{},
		PaymentStats: map[string]int{},
		TotalCount:   len(subs),
	}

	for _, sub := range subs {
		category := sub.Category
		if category == "" {
			category = "other"
		}

		ts := stats.TypeStats[category]
		ts.Count++
		ts.Amount += sub.Amount
		stats.TypeStats[category] = ts

		payment := sub.PaymentMethod
		if payment == "" {
			payment = "unspecified"
		}
		stats.PaymentStats[payment]++

		if !sub.IsActive {
			continue
		}
		stats.ActiveCount++
		stats.TotalAmount += sub.Amount

		// Normalize everything to an approximate monthly cost.
		monthly := sub.Amount
		switch sub.PeriodUnit {
		case domain.PeriodYear:
			monthly = sub.Amount / 12
		case domain.PeriodDay:
			monthly = sub.Amount * 30
		}
		stats.MonthlyStats[category] += monthly

		days := sub.DaysRemaining(now)
		switch {
		case days < 0:
			stats.ExpiryStats.Expired++
		case days <= sub.ReminderDays:
			stats.ExpiryStats.Soon++
		default:
			stats.ExpiryStats.Normal++
		}
	}

	return stats
}
