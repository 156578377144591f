package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// CreateSessionRequest asks the gateway for a hosted checkout page.
type CreateSessionRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	Currency string
}

// Session is the gateway's answer: where to send the user, and the id
// every later callback is keyed by.
type Session struct {
	SessionID  string
	SessionURL string
}

// WebhookEvent is a verified gateway notification.
type WebhookEvent struct {
	Type      string
	SessionID string
}

// Webhook event types this system reacts to.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// CheckoutGateway abstracts the external payment provider.
type CheckoutGateway interface {
	// CreateSession requests a hosted checkout session. Transport and
	// provider errors surface as model.ErrGatewayUnavailable wrapped
	// errors; the caller treats them as retryable.
	CreateSession(ctx context.Context, req CreateSessionRequest) (*Session, error)

	// VerifyWebhookSignature authenticates a webhook payload and
	// extracts the event. Unverifiable payloads are rejected without
	// being parsed as trusted input.
	VerifyWebhookSignature(payload []byte, signatureHeader string) (*WebhookEvent, error)
}
