package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBroker struct {
	routingKeys    []string
	bodies         []string
	correlationIDs []string
	messageIDs     []string
	err            error
}

func (m *mockBroker) Publish(routingKey string, body []byte, correlationID, messageID string) error {
	m.routingKeys = append(m.routingKeys, routingKey)
	m.bodies = append(m.bodies, string(body))
	m.correlationIDs = append(m.correlationIDs, correlationID)
	m.messageIDs = append(m.messageIDs, messageID)
	return m.err
}

func TestPublishCreated_WireFormat(t *testing.T) {
	broker := &mockBroker{}
	producer := NewEventProducer(broker, "user-created", "user-deleted")

	require.NoError(t, producer.PublishCreated("a@b.com", "corr-1"))

	require.Len(t, broker.bodies, 1)
	assert.Equal(t, "user-created", broker.routingKeys[0])
	// Flat two-field payload, nothing else
	assert.JSONEq(t, `{"operation":"create","email":"a@b.com"}`, broker.bodies[0])
	assert.Equal(t, "corr-1", broker.correlationIDs[0])
	assert.NotEmpty(t, broker.messageIDs[0], "message id rides in AMQP properties")
}

func TestPublishDeleted_WireFormat(t *testing.T) {
	broker := &mockBroker{}
	producer := NewEventProducer(broker, "user-created", "user-deleted")

	require.NoError(t, producer.PublishDeleted("a@b.com", "corr-2"))

	require.Len(t, broker.bodies, 1)
	assert.Equal(t, "user-deleted", broker.routingKeys[0])
	assert.JSONEq(t, `{"operation":"delete","email":"a@b.com"}`, broker.bodies[0])
}

func TestPublish_BrokerFailure(t *testing.T) {
	broker := &mockBroker{err: errors.New("channel closed")}
	producer := NewEventProducer(broker, "user-created", "user-deleted")

	err := producer.PublishCreated("a@b.com", "corr-1")
	assert.ErrorIs(t, err, ErrPublish)
}
