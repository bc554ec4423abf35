/**
 * @description
 * Postgres persistence backend using pgx. One row per subscription; SaveAll
 * upserts the batch inside a single transaction so a scan's rollovers commit
 * atomically.
 *
 * Expected schema:
 *
 *   CREATE TABLE subscriptions (
 *       id             TEXT PRIMARY KEY,
 *       name           TEXT NOT NULL,
 *       custom_type    TEXT NOT NULL DEFAULT '',
 *       notes          TEXT NOT NULL DEFAULT '',
 *       start_date     TIMESTAMPTZ NOT NULL,
 *       expiry_date    TIMESTAMPTZ NOT NULL,
 *       period_value   INT NOT NULL,
 *       period_unit    TEXT NOT NULL,
 *       reminder_days  INT NOT NULL,
 *       is_active      BOOLEAN NOT NULL DEFAULT TRUE,
 *       amount         DOUBLE PRECISION NOT NULL DEFAULT 0,
 *       payment_method TEXT NOT NULL DEFAULT '',
 *       recurring      BOOLEAN NOT NULL DEFAULT TRUE,
 *       created_at     TIMESTAMPTZ NOT NULL,
 *       updated_at     TIMESTAMPTZ NOT NULL
 *   );
 */
package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

// PostgresStore persists subscriptions in a Postgres table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListAll retrieves every subscription, oldest first.
func (s *PostgresStore) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	query := `
        SELECT id, name, custom_type, notes, start_date, expiry_date,
               period_value, period_unit, reminder_days, is_active,
               amount, payment_method, recurring, created_at, updated_at
        FROM subscriptions
        ORDER BY created_at
    `
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []domain.Subscription{}
	for rows.Next() {
		var sub domain.Subscription
		err := rows.Scan(
			&sub.ID,
			&sub.Name,
			&sub.Category,
			&sub.Notes,
			&sub.StartDate,
			&sub.ExpiryDate,
			&sub.PeriodValue,
			&sub.PeriodUnit,
			&sub.ReminderDays,
			&sub.IsActive,
			&sub.Amount,
			&sub.PaymentMethod,
			&sub.Recurring,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SaveAll upserts the batch in one transaction.
func (s *PostgresStore) SaveAll(ctx context.Context, subs []domain.Subscription) error {
	if len(subs) == 0 {
		return nil
	}
	query := `
        INSERT INTO subscriptions (
            id, name, custom_type, notes, start_date, expiry_date,
            period_value, period_unit, reminder_days, is_active,
            amount, payment_method, recurring, created_at, updated_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            custom_type = EXCLUDED.custom_type,
            notes = EXCLUDED.notes,
            start_date = EXCLUDED.start_date,
            expiry_date = EXCLUDED.expiry_date,
            period_value = EXCLUDED.period_value,
            period_unit = EXCLUDED.period_unit,
            reminder_days = EXCLUDED.reminder_days,
            is_active = EXCLUDED.is_active,
            amount = EXCLUDED.amount,
            payment_method = EXCLUDED.payment_method,
            recurring = EXCLUDED.recurring,
            updated_at = EXCLUDED.updated_at
    `
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, sub := range subs {
			_, err := tx.Exec(ctx, query,
				sub.ID,
				sub.Name,
				sub.Category,
				sub.Notes,
				sub.StartDate,
				sub.ExpiryDate,
				sub.PeriodValue,
				sub.PeriodUnit,
				sub.ReminderDays,
				sub.IsActive,
				sub.Amount,
				sub.PaymentMethod,
				sub.Recurring,
				sub.CreatedAt,
				sub.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a subscription by id, returning ErrNotFound when absent.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
