package server

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Analytics publishes gameplay events to Kafka. With no brokers configured
// it silently drops events, so callers never need to check.
type Analytics struct {
	writer *kafka.Writer
}

// NewAnalytics builds a producer for the given brokers, or a disabled one
// when the broker list is empty.
func NewAnalytics(brokers, topic string) *Analytics {
	if brokers == "" {
		return &Analytics{}
	}
	return &Analytics{writer: &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}}
}

func (a *Analytics) Enabled() bool { return a.writer != nil }

// Emit publishes one event. The event name becomes the message key so
// consumers can partition by type.
func (a *Analytics) Emit(event string, payload map[string]any) {
	if a.writer == nil {
		return
	}
	body := map[string]any{
		"event": event,
		"at":    time.Now().UTC().Format(time.RFC3339Nano),
		"data":  payload,
	}
	value, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("marshaling analytics event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := a.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event),
		Value: value,
	}); err != nil {
		log.Warn().Err(err).Str("event", event).Msg("publishing analytics event")
	}
}

func (a *Analytics) Close() {
	if a.writer != nil {
		_ = a.writer.Close()
	}
}
