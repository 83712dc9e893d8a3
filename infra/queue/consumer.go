package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/RoveStack/travel_service/internal/interfaces"
	"github.com/RoveStack/travel_service/internal/logger"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler, serviceName string) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: serviceName,
	}
}

// Listen consumes until ctx is cancelled. Handler errors are logged and the
// loop moves on; each message is delivered to the handler exactly once per
// group rebalance, there is no retry.
func (kc *KafkaConsumer) Listen(ctx context.Context) {
	log := logger.FromContext(ctx)

	for {
		msg, err := kc.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info().Str("service", kc.ServiceName).Msg("consumer stopped")
				return
			}
			log.Error().Err(err).Str("service", kc.ServiceName).Msg("read error")
			continue
		}

		log.Info().
			Str("service", kc.ServiceName).
			Str("key", string(msg.Key)).
			Msg("message received")

		if err := kc.Handler.HandleMessage(ctx, string(msg.Key), msg.Value); err != nil {
			log.Error().Err(err).Str("key", string(msg.Key)).Msg("handler error")
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}
