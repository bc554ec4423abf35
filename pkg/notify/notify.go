/**
 * @description
 * This package provides the outbound notification transports. Each transport
 * implements the same one-method capability: deliver a single reminder
 * message. The concrete transport is selected by configuration; the daily
 * check neither knows nor cares which one it is talking to.
 */
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier delivers one reminder message. Implementations do not retry;
// retry policy, if any, belongs to the next scheduled run.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// Settings carries the transport selection and per-transport credentials.
type Settings struct {
	Type string // "telegram", "wecom", "notifyx" or "amqp"

	TelegramBotToken string
	TelegramChatID   string

	WeComCorpID     string
	WeComCorpSecret string
	WeComAgentID    int
	WeComToUser     string

	NotifyXToken string

	AMQPURL      string
	AMQPExchange string
}

// New builds the notifier selected by s.Type.
func New(s Settings) (Notifier, error) {
	switch s.Type {
	case "telegram":
		return NewTelegram(s.TelegramBotToken, s.TelegramChatID), nil
	case "wecom":
		return NewWeCom(s.WeComCorpID, s.WeComCorpSecret, s.WeComAgentID, s.WeComToUser), nil
	case "notifyx":
		return NewNotifyX(s.NotifyXToken), nil
	case "amqp":
		return NewAMQP(s.AMQPURL, s.AMQPExchange)
	}
	return nil, fmt.Errorf("unknown notification type %q", s.Type)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// stripMarkdown removes the Markdown emphasis used by the composer and
// collapses runs of blank lines, for transports that deliver plain text.
func stripMarkdown(message string) string {
	message = strings.ReplaceAll(message, "*", "")
	for strings.Contains(message, "\n\n") {
		message = strings.ReplaceAll(message, "\n\n", "\n")
	}
	return message
}
