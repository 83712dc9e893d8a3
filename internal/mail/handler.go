package mail

import (
	"context"
	"encoding/json"

	"github.com/RoveStack/travel_service/internal/dto"
	"github.com/RoveStack/travel_service/internal/logger"
)

// EventHandler turns queued mail events into outbound messages. The message
// key picks the template; payloads that do not parse are dropped with an
// error so the consumer can log them without stalling the partition.
type EventHandler struct {
	svc *MailService
	log *logger.Logger
}

func NewEventHandler(svc *MailService, log *logger.Logger) *EventHandler {
	return &EventHandler{svc: svc, log: log}
}

func (h *EventHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	switch key {
	case dto.EventVerifyEmail:
		var event dto.VerifyEmailEvent
		if err := json.Unmarshal(value, &event); err != nil {
			h.log.Error().Err(err).Msg("invalid verify email payload")
			return err
		}
		h.log.Info().
			Uint("user_id", event.UserID).
			Str("email", event.Email).
			Str("expires_at", event.ExpiresAt).
			Msg("verify email event received")
		return h.svc.SendVerifyEmail(event.Email, event.FirstName, event.Token)

	case dto.EventResetPassword:
		var event dto.ResetPasswordEvent
		if err := json.Unmarshal(value, &event); err != nil {
			h.log.Error().Err(err).Msg("invalid reset password payload")
			return err
		}
		h.log.Info().Str("email", event.Email).Msg("reset password event received")
		return h.svc.SendResetEmail(event.Email, event.FirstName, event.ResetLink)

	default:
		h.log.Warn().Str("key", key).Msg("unknown mail event key, skipping")
		return nil
	}
}
