/**
 * @description
 * Telegram bot transport. Sends the reminder as one Markdown message via the
 * Bot API sendMessage endpoint.
 */
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const telegramAPIBase = "https://api.telegram.org"

// Telegram delivers reminders through a Telegram bot.
type Telegram struct {
	// BaseURL is overridable for tests.
	BaseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

// NewTelegram creates a Telegram notifier.
func NewTelegram(botToken, chatID string) *Telegram {
	return &Telegram{
		BaseURL:  telegramAPIBase,
		botToken: botToken,
		chatID:   chatID,
		client:   newHTTPClient(),
	}
}

// Send posts the message to the configured chat.
func (t *Telegram) Send(ctx context.Context, message string) error {
	if t.botToken == "" || t.chatID == "" {
		return errors.New("telegram not configured: bot token or chat id missing")
	}

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       message,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}
	return nil
}
