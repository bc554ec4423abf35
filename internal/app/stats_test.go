package app

import (
	"math"
	"testing"
	"time"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

func TestBuildStats(t *testing.T) {
	now := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	subs := []domain.Subscription{
		{
			Name: "Netflix", Category: "streaming", Amount: 120,
			PeriodValue: 1, PeriodUnit: domain.PeriodYear, ReminderDays: 7,
			IsActive: true, PaymentMethod: "card",
			ExpiryDate: time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC), // soon
		},
		{
			Name: "Spotify", Category: "streaming", Amount: 10,
			PeriodValue: 1, PeriodUnit: domain.PeriodMonth, ReminderDays: 7,
			IsActive: true, PaymentMethod: "card",
			ExpiryDate: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), // normal
		},
		{
			Name: "Old VPN", Amount: 5,
			PeriodValue: 30, PeriodUnit: domain.PeriodDay, ReminderDays: 3,
			IsActive:   true,
			ExpiryDate: time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC), // expired
		},
		{
			Name: "Paused", Category: "tools", Amount: 50,
			PeriodValue: 1, PeriodUnit: domain.PeriodMonth,
			IsActive:   false,
			ExpiryDate: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	stats := BuildStats(subs, now)

	if stats.TotalCount != 4 || stats.ActiveCount != 3 {
		t.Fatalf("expected 4 total / 3 active, got %d / %d", stats.TotalCount, stats.ActiveCount)
	}
	if stats.TotalAmount != 135 {
		t.Fatalf("expected active total amount 135, got %v", stats.TotalAmount)
	}

	streaming := stats.TypeStats["streaming"]
	if streaming.Count != 2 || streaming.Amount != 130 {
		t.Fatalf("unexpected streaming stats: %+v", streaming)
	}
	if other := stats.TypeStats["other"]; other.Count != 1 {
		t.Fatalf("uncategorized subscription should fall into 'other', got %+v", other)
	}

	// Yearly 120 normalizes to 10/month; monthly 10 stays as is.
	if got := stats.MonthlyStats["streaming"]; math.Abs(got-20) > 1e-9 {
		t.Fatalf("expected monthly streaming cost 20, got %v", got)
	}
	// 30-day 5 normalizes to 150/month.
	if got := stats.MonthlyStats["other"]; math.Abs(got-150) > 1e-9 {
		t.Fatalf("expected monthly other cost 150, got %v", got)
	}

	if stats.PaymentStats["card"] != 2 || stats.PaymentStats["unspecified"] != 2 {
		t.Fatalf("unexpected payment stats: %+v", stats.PaymentStats)
	}

	want := ExpiryBuckets{Soon: 1, Normal: 1, Expired: 1}
	if stats.ExpiryStats != want {
		t.Fatalf("expected expiry buckets %+v, got %+v", want, stats.ExpiryStats)
	}
}
