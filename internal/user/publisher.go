package user

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/Ibragim-Gadzhiev/TeamHomework/pkg/models"

	"github.com/google/uuid"
)

// BrokerPublisher is the transport the event producer hands payloads to.
// pkg/rabbitmq.Publisher satisfies it.
type BrokerPublisher interface {
	Publish(routingKey string, body []byte, correlationID, messageID string) error
}

// EventProducer serializes user events and publishes each operation to
// its configured channel.
type EventProducer struct {
	broker         BrokerPublisher
	createdChannel string
	deletedChannel string
}

// NewEventProducer creates a producer addressing the two channel names.
func NewEventProducer(broker BrokerPublisher, createdChannel, deletedChannel string) *EventProducer {
	return &EventProducer{
		broker:         broker,
		createdChannel: createdChannel,
		deletedChannel: deletedChannel,
	}
}

// PublishCreated publishes a create event for the given email.
func (p *EventProducer) PublishCreated(email, correlationID string) error {
	return p.publish(p.createdChannel, models.UserEvent{Operation: models.OperationCreate, Email: email}, correlationID)
}

// PublishDeleted publishes a delete event for the given email.
func (p *EventProducer) PublishDeleted(email, correlationID string) error {
	return p.publish(p.deletedChannel, models.UserEvent{Operation: models.OperationDelete, Email: email}, correlationID)
}

func (p *EventProducer) publish(channel string, event models.UserEvent, correlationID string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	if err := p.broker.Publish(channel, body, correlationID, uuid.New().String()); err != nil {
		log.Printf("[Producer] Failed to publish to %s: %v correlation_id=%s", channel, err, correlationID)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	log.Printf("[Producer] Event published: channel=%s operation=%s correlation_id=%s", channel, event.Operation, correlationID)
	return nil
}
