package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/RoveStack/travel_service/config"
	"github.com/RoveStack/travel_service/infra/queue"
	"github.com/RoveStack/travel_service/internal/logger"
	"github.com/RoveStack/travel_service/internal/mail"
)

func main() {
	log := logger.NewLogger("travel-mailer")

	cfg, err := config.LoadMailer()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	svc, err := mail.NewMailService(cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("mail service init error")
	}

	consumer := queue.NewKafkaConsumer(
		cfg.Kafka.Broker,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.Username,
		cfg.Kafka.Password,
		mail.NewEventHandler(svc, log),
		"travel-mailer",
	)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = log.WithContext(ctx)

	log.Info().
		Str("broker", cfg.Kafka.Broker).
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("mail worker listening")

	consumer.Listen(ctx)
	log.Info().Msg("mail worker stopped")
}
