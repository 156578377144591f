package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"cinema-backend/internal/infrastructure/email"
	"cinema-backend/internal/shared"
)

// ============================================
// Payment Complete Email Handler
// ============================================

type PaymentCompleteEmailHandler struct {
	emailService email.EmailService
}

func NewPaymentCompleteEmailHandler(emailService email.EmailService) *PaymentCompleteEmailHandler {
	return &PaymentCompleteEmailHandler{
		emailService: emailService,
	}
}

func (h *PaymentCompleteEmailHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.PaymentCompleteEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal PaymentCompleteEmail payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Str("order_id", payload.OrderID).
		Msg("Processing payment complete email")

	err := h.emailService.SendPaymentCompleteEmail(ctx, email.PaymentCompleteData{
		Email:       payload.Email,
		OrderID:     payload.OrderID,
		MovieTitles: payload.MovieTitles,
		Total:       payload.Total,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to send payment complete email")
		return fmt.Errorf("send payment complete email: %w", err)
	}

	log.Info().
		Str("email", payload.Email).
		Msg("Payment complete email sent")

	return nil
}
