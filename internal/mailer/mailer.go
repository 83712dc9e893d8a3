package mailer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/helper"
	"github.com/RoveStack/travel_service/internal/interfaces"
	"github.com/RoveStack/travel_service/internal/logger"
)

type VerificationMail struct {
	UserID    uint
	Email     string
	FirstName string
	Role      string
}

type ResetMail struct {
	Email     string
	FirstName string
	ResetLink string
}

// Mailer reports delivery as a boolean. Callers decide what a false means:
// signup records it, forgot-password fails on it. Errors never propagate.
type Mailer interface {
	SendVerificationMail(ctx context.Context, mail VerificationMail) bool
	SendResetMail(ctx context.Context, mail ResetMail) bool
}

type queueMailer struct {
	producer interfaces.ProducerHandler
	auth     helper.Auth
}

func NewQueueMailer(producer interfaces.ProducerHandler, auth helper.Auth) Mailer {
	return &queueMailer{producer: producer, auth: auth}
}

// SendVerificationMail mints the verification token itself (the caller only
// says who signed up) and hands the event to the mail worker.
func (m *queueMailer) SendVerificationMail(ctx context.Context, mail VerificationMail) bool {
	log := logger.FromContext(ctx)

	token, err := m.auth.GenerateToken(helper.TokenClaims{
		UserID: mail.UserID,
		Email:  mail.Email,
		Role:   mail.Role,
	}, 0)
	if err != nil {
		log.Error().Err(err).Msg("verification token generation failed")
		return false
	}

	payload, err := json.Marshal(dto.VerifyEmailEvent{
		UserID:    mail.UserID,
		Email:     mail.Email,
		FirstName: mail.FirstName,
		Token:     token,
		ExpiresAt: time.Now().Add(m.auth.TokenTTL).Format(time.RFC3339),
	})
	if err != nil {
		log.Error().Err(err).Msg("verification event marshal failed")
		return false
	}

	if err := m.producer.PublishMessage(ctx, []byte(dto.EventVerifyEmail), payload); err != nil {
		log.Error().Err(err).Str("email", mail.Email).Msg("verification event publish failed")
		return false
	}
	return true
}

func (m *queueMailer) SendResetMail(ctx context.Context, mail ResetMail) bool {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(dto.ResetPasswordEvent{
		Email:     mail.Email,
		FirstName: mail.FirstName,
		ResetLink: mail.ResetLink,
	})
	if err != nil {
		log.Error().Err(err).Msg("reset event marshal failed")
		return false
	}

	if err := m.producer.PublishMessage(ctx, []byte(dto.EventResetPassword), payload); err != nil {
		log.Error().Err(err).Str("email", mail.Email).Msg("reset event publish failed")
		return false
	}
	return true
}
