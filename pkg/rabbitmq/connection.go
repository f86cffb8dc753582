package rabbitmq

import (
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	connectAttempts = 30
	connectBackoff  = 2 * time.Second
)

// Connection wraps an AMQP connection.
type Connection struct {
	URL  string
	Conn *amqp.Connection
}

// Connect establishes a connection to RabbitMQ, retrying until the broker
// is reachable or the attempt budget runs out.
func Connect(url string) (*Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < connectAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			log.Println("Connected to RabbitMQ")
			return &Connection{URL: url, Conn: conn}, nil
		}
		log.Printf("Failed to connect to RabbitMQ: %v, retrying in %s...", err, connectBackoff)
		time.Sleep(connectBackoff)
	}

	return nil, fmt.Errorf("could not connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
}

// Channel opens a new AMQP channel.
func (c *Connection) Channel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

// Close closes the connection.
func (c *Connection) Close() error {
	if c.Conn != nil {
		return c.Conn.Close()
	}
	return nil
}
