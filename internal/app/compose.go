/**
 * @description
 * Builds the aggregated reminder message sent by the daily check. One
 * line-group per subscription, in scan order, Markdown formatted for the
 * transports that support it (the others strip it before sending).
 */
package app

import (
	"fmt"
	"strings"
)

// ComposeReminder renders the reminder message for the given items. The
// second return value is false when there is nothing to send; callers must
// not invoke the notifier in that case.
func ComposeReminder(items []ReminderItem) (string, bool) {
	if len(items) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("*Subscription Expiry Reminder*\n\n")

	for _, item := range items {
		sub := item.Subscription

		category := sub.Category
		if category == "" {
			category = "other"
		}
		periodInfo := fmt.Sprintf("(cycle: %s)", sub.PeriodDescription())

		amountInfo := ""
		if sub.Amount > 0 {
			amountInfo = fmt.Sprintf(" 💰 ¥%.2f", sub.Amount)
		}

		if item.DaysRemaining == 0 {
			fmt.Fprintf(&b, "⚠️ *%s* (%s) %s expires today!%s\n", sub.Name, category, periodInfo, amountInfo)
		} else {
			fmt.Fprintf(&b, "📅 *%s* (%s) %s expires in %d days%s\n", sub.Name, category, periodInfo, item.DaysRemaining, amountInfo)
		}

		if sub.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", sub.Notes)
		}
		b.WriteString("\n")
	}

	return b.String(), true
}
