package rabbitmq

import (
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig holds configuration for setting up a consumer.
type ConsumerConfig struct {
	QueueName    string
	DLQName      string
	RoutingKeys  []string
	ConsumerName string
}

// MessageHandler is a function that processes a delivered message.
// Return nil to ack, return error to nack (the message lands in the DLQ).
type MessageHandler func(delivery amqp.Delivery) error

// SetupConsumer declares the queue topology (main queue + DLQ bound to the
// topic exchange) and starts consuming with manual acks.
func SetupConsumer(conn *Connection, cfg ConsumerConfig, handler MessageHandler) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	if err := declareTopology(ch, cfg); err != nil {
		return err
	}

	// One unacked message at a time
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(
		cfg.QueueName,
		cfg.ConsumerName,
		false, // auto-ack = false (manual ack)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			log.Printf("[%s] Received message: routing_key=%s correlation_id=%s",
				cfg.ConsumerName, msg.RoutingKey, msg.CorrelationId)

			if err := handler(msg); err != nil {
				log.Printf("[%s] Error processing message: %v — nacking (will go to DLQ)",
					cfg.ConsumerName, err)
				_ = msg.Nack(false, false) // don't requeue — goes to DLQ
			} else {
				_ = msg.Ack(false)
			}
		}
	}()

	log.Printf("[%s] Consumer started, listening on queue: %s", cfg.ConsumerName, cfg.QueueName)
	return nil
}

func declareTopology(ch *amqp.Channel, cfg ConsumerConfig) error {
	// Topic exchange (idempotent, the publisher declares it too)
	err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	// DLQ first, then the main queue dead-lettering into it
	_, err = ch.QueueDeclare(
		cfg.DLQName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": cfg.DLQName,
	}
	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		args,
	)
	if err != nil {
		return err
	}

	for _, key := range cfg.RoutingKeys {
		if err := ch.QueueBind(cfg.QueueName, key, ExchangeName, false, nil); err != nil {
			return err
		}
	}
	return nil
}
