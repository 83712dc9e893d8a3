package queue

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/RoveStack/travel_service/internal/logger"
)

type Producer struct {
	writer *kafka.Writer
}

// NewProducer builds a writer for the mail topic. With a username the broker
// connection uses SASL/PLAIN over TLS; without one it dials plaintext, which
// is what local single-broker setups want.
func NewProducer(broker, topic, username, password string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: 10 * time.Second,
	}

	if username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: username,
				Password: password,
			},
			TLS: &tls.Config{},
		}
	}

	return &Producer{writer: writer}
}

// PublishMessage writes one message. A missing writer is not an error: mail
// events are best effort and must never fail the request that raised them.
func (p *Producer) PublishMessage(ctx context.Context, key, value []byte) error {
	if p == nil || p.writer == nil {
		logger.FromContext(ctx).Warn().Msg("kafka producer not ready, skipping publish")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
