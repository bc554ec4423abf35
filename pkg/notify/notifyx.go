/**
 * @description
 * NotifyX push transport. The first paragraph of the reminder becomes the
 * push title, the rest the body. NotifyX reports success by queueing the
 * message rather than with an error code.
 */
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const notifyXAPIBase = "https://www.notifyx.cn"

// NotifyX delivers reminders through the NotifyX push service.
type NotifyX struct {
	// BaseURL is overridable for tests.
	BaseURL string
	token   string
	client  *http.Client
}

// NewNotifyX creates a NotifyX notifier.
func NewNotifyX(token string) *NotifyX {
	return &NotifyX{
		BaseURL: notifyXAPIBase,
		token:   token,
		client:  newHTTPClient(),
	}
}

// Send posts the message, split into title and content.
func (n *NotifyX) Send(ctx context.Context, message string) error {
	if n.token == "" {
		return errors.New("notifyx not configured: token missing")
	}

	title, content, found := strings.Cut(message, "\n\n")
	title = strings.ReplaceAll(title, "*", "")
	if !found || content == "" {
		content = "(no content)"
	}

	payload := map[string]string{
		"title":       title,
		"content":     content,
		"description": "SubsTracker notification",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/send/%s", n.BaseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notifyx request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("notifyx response: %w", err)
	}
	if result.Status != "queued" {
		return fmt.Errorf("notifyx API error: status %q %s", result.Status, result.Message)
	}
	return nil
}
