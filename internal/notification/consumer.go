package notification

import (
	"database/sql"
	"encoding/json"
	"log"
	"regexp"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

var emailRx = regexp.MustCompile(`^[\w.%+-]+@[\w.-]+\.[a-zA-Z]{2,6}$`)

// template is the fixed subject/body pair for one operation.
type template struct {
	Subject string
	Body    string
}

var templates = map[models.Operation]template{
	models.OperationCreate: {
		Subject: "Account Created",
		Body:    "Hello! Your account has been successfully created.",
	},
	models.OperationDelete: {
		Subject: "Account Deleted",
		Body:    "Hello! Your account has been deleted.",
	},
}

// Sender dispatches a formatted email. *Notifier satisfies it.
type Sender interface {
	Send(to, subject, body string) error
}

// Consumer turns user events into email notifications. Malformed events
// and send failures are terminal for the message (at-most-once effort);
// only infrastructure faults, which are safe to redeliver, return an error.
type Consumer struct {
	DB     *sql.DB
	Sender Sender
}

// NewConsumer creates a notification consumer.
func NewConsumer(db *sql.DB, sender Sender) *Consumer {
	return &Consumer{DB: db, Sender: sender}
}

// HandleMessage processes one delivered user event.
func (c *Consumer) HandleMessage(delivery amqp.Delivery) error {
	var event models.UserEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		log.Printf("[Notification] Dropping unparseable event: %v correlation_id=%s", err, delivery.CorrelationId)
		return nil
	}

	if !event.Valid() || !emailRx.MatchString(event.Email) {
		log.Printf("[Notification] Dropping malformed event: operation=%q email=%q correlation_id=%s",
			event.Operation, event.Email, delivery.CorrelationId)
		return nil
	}

	tmpl := templates[event.Operation]

	// Idempotency check keyed on the AMQP message id; the payload itself
	// carries no id.
	if delivery.MessageId != "" {
		seen, err := c.alreadyProcessed(delivery.MessageId)
		if err != nil {
			log.Printf("[Notification] Error checking idempotency: %v correlation_id=%s", err, delivery.CorrelationId)
			return err
		}
		if seen {
			log.Printf("[Notification] Duplicate event ignored: message_id=%s correlation_id=%s",
				delivery.MessageId, delivery.CorrelationId)
			return nil
		}
	}

	status := "sent"
	if err := c.Sender.Send(event.Email, tmpl.Subject, tmpl.Body); err != nil {
		// At-most-once: log and move on, the message is still consumed
		log.Printf("[Notification] Notification failed: %v operation=%s email=%s correlation_id=%s",
			err, event.Operation, event.Email, delivery.CorrelationId)
		status = "failed"
	}

	c.recordOutcome(delivery, event, tmpl.Subject, status)

	log.Printf("[Notification] Processed event: operation=%s email=%s status=%s correlation_id=%s",
		event.Operation, event.Email, status, delivery.CorrelationId)
	return nil
}

func (c *Consumer) alreadyProcessed(messageID string) (bool, error) {
	var exists bool
	err := c.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM idempotency_keys WHERE message_id = $1)", messageID,
	).Scan(&exists)
	return exists, err
}

// recordOutcome writes the notification log entry and idempotency key.
// Both are best effort; a logging failure must not fail the message.
func (c *Consumer) recordOutcome(delivery amqp.Delivery, event models.UserEvent, subject, status string) {
	_, err := c.DB.Exec(
		`INSERT INTO notification_log (message_id, correlation_id, operation, email, subject, status)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		delivery.MessageId, delivery.CorrelationId, string(event.Operation), event.Email, subject, status,
	)
	if err != nil {
		log.Printf("[Notification] Error writing notification log: %v correlation_id=%s", err, delivery.CorrelationId)
	}

	if delivery.MessageId != "" {
		_, _ = c.DB.Exec(
			"INSERT INTO idempotency_keys (message_id) VALUES ($1) ON CONFLICT DO NOTHING",
			delivery.MessageId,
		)
	}
}
