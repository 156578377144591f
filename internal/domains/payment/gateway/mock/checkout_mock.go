package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
)

// =====================================================
// MOCK CHECKOUT GATEWAY FOR TESTING
// =====================================================

type MockCheckoutGateway struct {
	mu sync.Mutex

	FailCreateSession bool
	RejectSignature   bool

	// Event returned by VerifyWebhookSignature when RejectSignature is false.
	NextEvent *gateway.WebhookEvent

	CreatedSessions []gateway.CreateSessionRequest
}

func NewMockCheckoutGateway() *MockCheckoutGateway {
	return &MockCheckoutGateway{}
}

func (m *MockCheckoutGateway) CreateSession(ctx context.Context, req gateway.CreateSessionRequest) (*gateway.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailCreateSession {
		return nil, fmt.Errorf("%w: mock gateway failure", model.ErrGatewayUnavailable)
	}

	m.CreatedSessions = append(m.CreatedSessions, req)

	sessionID := "cs_test_" + uuid.NewString()
	return &gateway.Session{
		SessionID:  sessionID,
		SessionURL: fmt.Sprintf("https://mock-checkout.local/pay/%s", sessionID),
	}, nil
}

func (m *MockCheckoutGateway) VerifyWebhookSignature(payload []byte, signatureHeader string) (*gateway.WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.RejectSignature {
		return nil, fmt.Errorf("%w: mock signature rejection", model.ErrInvalidSignature)
	}
	if m.NextEvent != nil {
		return m.NextEvent, nil
	}
	return &gateway.WebhookEvent{
		Type:      gateway.EventCheckoutCompleted,
		SessionID: "cs_test_mock",
	}, nil
}
