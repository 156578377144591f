package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"cinema-backend/internal/config"
	"cinema-backend/pkg/logger"
)

// PaymentCompleteData carries everything the purchase confirmation email needs.
type PaymentCompleteData struct {
	Email       string
	OrderID     string
	MovieTitles []string
	Total       string
}

type EmailService interface {
	SendPaymentCompleteEmail(ctx context.Context, data PaymentCompleteData) error
}

type smtpEmailService struct {
	smtpAddr string
	smtpFrom string
	auth     smtp.Auth
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpEmailService{
		smtpAddr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		smtpFrom: cfg.From,
		auth:     auth,
	}
}

func (s *smtpEmailService) SendPaymentCompleteEmail(ctx context.Context, data PaymentCompleteData) error {
	subject := "Your cinema purchase is confirmed"
	body := fmt.Sprintf(`Hello,

Thank you for your purchase. Order %s is now paid.

Movies:
%s

Total: $%s

The movies are available in your library.`,
		data.OrderID,
		"  - "+strings.Join(data.MovieTitles, "\n  - "),
		data.Total)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, data.Email, subject, body))

	if err := smtp.SendMail(s.smtpAddr, s.auth, s.smtpFrom, []string{data.Email}, msg); err != nil {
		logger.Error("Failed to send payment complete email", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Payment complete email sent", map[string]interface{}{
		"to":      data.Email,
		"orderId": data.OrderID,
	})

	return nil
}
