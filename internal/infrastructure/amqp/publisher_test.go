package amqp

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Event  string `json:"event"`
	Number string `json:"reservation_number"`
}

func TestNewPublishing(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	msg, err := newPublishing(payload{Event: "reservation.created", Number: "BK-ABC12"}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)
	assert.NotEmpty(t, msg.MessageId)

	var got payload
	require.NoError(t, json.Unmarshal(msg.Body, &got))
	assert.Equal(t, "BK-ABC12", got.Number)
}

func TestNewPublishing_EncodeError(t *testing.T) {
	_, err := newPublishing(make(chan int), time.Now())
	assert.Error(t, err)
}

func TestPublisher_Closed(t *testing.T) {
	p := &Publisher{exchange: "test", closed: true}

	err := p.PublishJSON(context.Background(), "reservation.created", payload{})
	assert.ErrorIs(t, err, ErrPublisherClosed)
	assert.NoError(t, p.Close())
}

func TestPublisher_RabbitMQ(t *testing.T) {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		t.Skip("AMQP_URL が未設定のためスキップ")
	}

	p, err := NewPublisher(url, "hotel.reservations.test")
	if err != nil {
		t.Skipf("RabbitMQ接続エラー: %v", err)
	}
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	assert.NoError(t, p.PublishJSON(ctx, "reservation.created", payload{Event: "reservation.created"}))
}
