/**
 * @description
 * This file contains the business logic for managing subscription records.
 * The Service layer validates input, derives expiry dates through the shared
 * rollover arithmetic, and delegates persistence to the repository.
 */
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
	"github.com/xymn2023/SubsTracker-Docker/internal/store"
)

// Repository defines the persistence operations the application needs.
type Repository interface {
	ListAll(ctx context.Context) ([]domain.Subscription, error)
	SaveAll(ctx context.Context, subs []domain.Subscription) error
	Delete(ctx context.Context, id string) error
}

// Service provides CRUD over subscription records.
type Service struct {
	repo Repository
}

// NewService creates a new subscription service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every stored subscription.
func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	return s.repo.ListAll(ctx)
}

// Get returns one subscription by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Subscription, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID == id {
			return &subs[i], nil
		}
	}
	return nil, store.ErrNotFound
}

// Create validates and stores a new subscription. The id and timestamps are
// assigned here; the expiry date is derived from the start date and period,
// rolled forward past now for recurring subscriptions.
func (s *Service) Create(ctx context.Context, sub domain.Subscription) (*domain.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	sub.ID = uuid.NewString()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	sub.ExpiryDate = domain.NextExpiry(sub.StartDate, sub.PeriodValue, sub.PeriodUnit, sub.Recurring, now)

	if err := s.repo.SaveAll(ctx, []domain.Subscription{sub}); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update replaces the mutable fields of an existing subscription and
// recomputes the expiry date from the (possibly changed) start date and
// period. The id and creation timestamp are immutable.
func (s *Service) Update(ctx context.Context, id string, sub domain.Subscription) (*domain.Subscription, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sub.ID = existing.ID
	sub.CreatedAt = existing.CreatedAt
	sub.UpdatedAt = now
	sub.ExpiryDate = domain.NextExpiry(sub.StartDate, sub.PeriodValue, sub.PeriodUnit, sub.Recurring, now)

	if err := s.repo.SaveAll(ctx, []domain.Subscription{sub}); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ToggleActive flips a subscription in or out of the active set. Inactive
// subscriptions are ignored by the daily check.
func (s *Service) ToggleActive(ctx context.Context, id string, active bool) (*domain.Subscription, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	sub.IsActive = active
	sub.UpdatedAt = time.Now()

	if err := s.repo.SaveAll(ctx, []domain.Subscription{*sub}); err != nil {
		return nil, err
	}
	return sub, nil
}

// Delete removes a subscription permanently.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
