/**
 * @description
 * The daily subscription check: scans all records, rolls overdue recurring
 * subscriptions forward to their next cycle, persists the rollovers, and
 * sends one aggregated reminder for everything inside its reminder window.
 *
 * Ordering matters: rollovers are written back before the notification goes
 * out, so a crash between the two loses at most the reminder, never state.
 * A store failure aborts the run without notifying; a notifier failure is
 * reported in the result but does not fail the run.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/xymn2023/SubsTracker-Docker/internal/domain"
)

// Notifier is the outbound notification capability. The transport behind it
// (Telegram, WeCom, NotifyX, AMQP) is chosen by configuration.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// RunResult summarizes one daily check run.
type RunResult struct {
	Notified   int    `json:"notified"`
	RolledOver int    `json:"rolled_over"`
	Error      string `json:"error,omitempty"`
}

// ReminderItem pairs a subscription with its days-remaining at scan time.
type ReminderItem struct {
	Subscription  domain.Subscription
	DaysRemaining int
}

// Checker runs the daily expiry scan.
type Checker struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

// NewChecker creates a Checker.
func NewChecker(repo Repository, notifier Notifier, logger *slog.Logger) *Checker {
	return &Checker{repo: repo, notifier: notifier, logger: logger}
}

// RunDailyCheck performs one complete scan at the given time. It is a pure
// function of the store contents and now, so tests can inject any date.
func (c *Checker) RunDailyCheck(ctx context.Context, now time.Time) (RunResult, error) {
	c.logger.Info("starting subscription check job", "now", now.Format(time.RFC3339))

	subs, err := c.repo.ListAll(ctx)
	if err != nil {
		c.logger.Error("failed to list subscriptions, aborting run", "error", err)
		return RunResult{Error: err.Error()}, err
	}
	c.logger.Info("loaded subscriptions", "count", len(subs))

	toNotify, toPersist := c.scan(subs, now)

	result := RunResult{RolledOver: len(toPersist)}

	// Durable write precedes the external send. If this fails the run is
	// over: notifying from unsaved state could repeat rollovers next run.
	if len(toPersist) > 0 {
		if err := c.repo.SaveAll(ctx, toPersist); err != nil {
			c.logger.Error("failed to persist rollovers, aborting run", "error", err)
			return RunResult{Error: err.Error()}, err
		}
		c.logger.Info("persisted rolled-over subscriptions", "count", len(toPersist))
	}

	message, ok := ComposeReminder(toNotify)
	if !ok {
		c.logger.Info("no subscriptions due for reminder")
		return result, nil
	}

	if err := c.notifier.Send(ctx, message); err != nil {
		// Non-fatal: the rollovers are already durable.
		c.logger.Error("failed to send reminder notification", "error", err)
		result.Error = err.Error()
		return result, nil
	}

	result.Notified = len(toNotify)
	c.logger.Info("sent reminder notification", "subscriptions", len(toNotify))
	return result, nil
}

// scan classifies each subscription independently: inactive and malformed
// records are skipped, overdue recurring ones are rolled forward and queued
// for persistence, and anything at or under its reminder threshold is queued
// for notification.
func (c *Checker) scan(subs []domain.Subscription, now time.Time) (toNotify []ReminderItem, toPersist []domain.Subscription) {
	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			c.logger.Warn("skipping malformed subscription", "id", sub.ID, "error", err)
			continue
		}
		if !sub.IsActive {
			c.logger.Debug("skipping inactive subscription", "id", sub.ID, "name", sub.Name)
			continue
		}

		days := sub.DaysRemaining(now)
		if days < 0 {
			if !sub.Recurring {
				// Lapsed: terminal, neither rolled nor notified.
				c.logger.Debug("skipping lapsed subscription", "id", sub.ID, "name", sub.Name)
				continue
			}
			sub.AdvanceToCurrent(now)
			sub.UpdatedAt = now
			days = sub.DaysRemaining(now)
			toPersist = append(toPersist, sub)
			c.logger.Info("rolled subscription to next cycle",
				"id", sub.ID,
				"name", sub.Name,
				"expiry_date", sub.ExpiryDate.Format("2006-01-02"),
				"days_remaining", days)
		}

		if days >= 0 && days <= sub.ReminderDays {
			toNotify = append(toNotify, ReminderItem{Subscription: sub, DaysRemaining: days})
		}
	}
	return toNotify, toPersist
}
