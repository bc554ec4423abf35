/**
 * @description
 * AMQP transport. Publishes the reminder to a durable topic exchange so an
 * external consumer (a chat bridge, a mail relay) can fan it out. Useful
 * when the tracker runs inside a network that cannot reach the push APIs
 * directly.
 */
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const reminderRoutingKey = "subscription.reminder"

// AMQP publishes reminders to a message broker.
type AMQP struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.TrimSpace(raw)
	clean = strings.Trim(clean, "\"'")
	if !strings.HasSuffix(clean, "/") {
		clean += "/"
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewAMQP dials the broker and opens a channel.
func NewAMQP(amqpURL, exchange string) (*AMQP, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}

	conn, err := amqp091.Dial(cleanURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &AMQP{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Send publishes the reminder message as a JSON event.
func (a *AMQP) Send(ctx context.Context, message string) error {
	err := a.channel.ExchangeDeclare(
		a.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"message": message,
		"sent_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return a.channel.PublishWithContext(ctx,
		a.exchange,
		reminderRoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}

// Close gracefully closes the channel and connection.
func (a *AMQP) Close() {
	if a.channel != nil {
		a.channel.Close()
	}
	if a.conn != nil {
		a.conn.Close()
	}
}
