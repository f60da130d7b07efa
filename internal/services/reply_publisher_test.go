package services

import (
	"context"
	"encoding/json"
	"healthassistant/internal/models"
	"sync"
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
	mu        sync.Mutex
	published []amqp.Publishing
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	m.mu.Lock()
	m.published = append(m.published, msg)
	m.mu.Unlock()
	args := m.Called(exchange, key)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestAMQPPublisher_PublishesTurns(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", TurnsExchange, "turn.diet").Return(nil).Once()
	ch.On("Publish", TurnsExchange, "turn.vitals").Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	p := newAMQPPublisher(ch, TurnsExchange)
	p.Start()

	ctx := context.Background()
	require.NoError(t, p.Publish(ctx, &models.ReplyPayload{TurnID: "t1", UserID: "u1", Intent: models.IntentDiet}))
	require.NoError(t, p.Publish(ctx, &models.ReplyPayload{TurnID: "t2", UserID: "u1", Intent: models.IntentVitals}))
	p.Stop()

	ch.AssertExpectations(t)
	require.Len(t, ch.published, 2)
	assert.Equal(t, "t1", ch.published[0].MessageId)
	assert.Equal(t, "application/json", ch.published[0].ContentType)

	var body models.ReplyPayload
	require.NoError(t, json.Unmarshal(ch.published[1].Body, &body))
	assert.Equal(t, models.IntentVitals, body.Intent)
}

func TestAMQPPublisher_QueuesSnapshot(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Publish", TurnsExchange, "turn.sleep").Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	p := newAMQPPublisher(ch, TurnsExchange)
	p.Start()

	reply := &models.ReplyPayload{TurnID: "t1", UserID: "u1", Intent: models.IntentSleep, Text: "Asleep 7.5 h"}
	require.NoError(t, p.Publish(context.Background(), reply))
	reply.Text = "edited after publish"
	reply.Intent = models.IntentDiet
	p.Stop()

	ch.AssertExpectations(t)
	require.Len(t, ch.published, 1)
	var body models.ReplyPayload
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.Equal(t, "Asleep 7.5 h", body.Text)
	assert.Equal(t, models.IntentSleep, body.Intent)
}

func TestAMQPPublisher_RejectsWhenStopped(t *testing.T) {
	p := newAMQPPublisher(new(MockChannel), TurnsExchange)
	err := p.Publish(context.Background(), &models.ReplyPayload{TurnID: "t1"})
	assert.Error(t, err)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "turn.profile_update", RoutingKey(models.IntentProfileUpdate))
}
