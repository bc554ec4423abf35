package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
	"github.com/xymn2023/SubsTracker-Docker/internal/store"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	subs map[string]domain.Subscription
}

func newMemRepo() *memRepo {
	return &memRepo{subs: map[string]domain.Subscription{}}
}

func (m *memRepo) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	out := make([]domain.Subscription, 0, len(m.subs))
	for _, sub := range m.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (m *memRepo) SaveAll(ctx context.Context, subs []domain.Subscription) error {
	for _, sub := range subs {
		m.subs[sub.ID] = sub
	}
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.subs[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.subs, id)
	return nil
}

func newSubInput() domain.Subscription {
	return domain.Subscription{
		Name:         "Netflix",
		Category:     "streaming",
		StartDate:    time.Date(2030, time.January, 15, 0, 0, 0, 0, time.UTC),
		PeriodValue:  1,
		PeriodUnit:   domain.PeriodMonth,
		ReminderDays: 7,
		IsActive:     true,
		Recurring:    true,
	}
}

func TestCreateAssignsIDAndExpiry(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newSubInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}
	// Start date is in the future, so the expiry is exactly one period out.
	want := time.Date(2030, time.February, 15, 0, 0, 0, 0, time.UTC)
	if !created.ExpiryDate.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, created.ExpiryDate)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}
	if _, ok := repo.subs[created.ID]; !ok {
		t.Fatal("expected subscription to be persisted")
	}
}

func TestCreateRollsPastDueRecurringStart(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	input := newSubInput()
	input.StartDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ExpiryDate.Before(domain.DateOf(time.Now())) {
		t.Fatalf("recurring expiry must not be in the past, got %v", created.ExpiryDate)
	}
	if created.ExpiryDate.Day() != 1 {
		t.Fatalf("expected expiry on a period boundary (day 1), got %v", created.ExpiryDate)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	svc := NewService(newMemRepo())

	input := newSubInput()
	input.PeriodValue = 0
	if _, err := svc.Create(context.Background(), input); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestUpdateRecomputesExpiryAndKeepsIdentity(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newSubInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	changed := newSubInput()
	changed.PeriodValue = 3
	updated, err := svc.Update(context.Background(), created.ID, changed)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatal("update must not change the id")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must not change created_at")
	}
	want := time.Date(2030, time.April, 15, 0, 0, 0, 0, time.UTC)
	if !updated.ExpiryDate.Equal(want) {
		t.Fatalf("expected recomputed expiry %v, got %v", want, updated.ExpiryDate)
	}
}

func TestUpdateMissingSubscription(t *testing.T) {
	svc := NewService(newMemRepo())
	if _, err := svc.Update(context.Background(), "nope", newSubInput()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestToggleActive(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), newSubInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	toggled, err := svc.ToggleActive(context.Background(), created.ID, false)
	if err != nil {
		t.Fatalf("ToggleActive returned error: %v", err)
	}
	if toggled.IsActive {
		t.Fatal("expected subscription to be inactive")
	}
	if repo.subs[created.ID].IsActive {
		t.Fatal("expected persisted record to be inactive")
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := NewService(newMemRepo())
	if err := svc.Delete(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
