package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	orderModel "cinema-backend/internal/domains/order/model"
	"cinema-backend/internal/domains/payment/model"
)

// stubPaymentService answers webhook calls with a canned error.
type stubPaymentService struct {
	webhookErr error
}

func (s *stubPaymentService) CreateSession(ctx context.Context, order *orderModel.Order) (*model.Payment, error) {
	return nil, nil
}

func (s *stubPaymentService) HandleSuccess(ctx context.Context, sessionID string) (*model.CallbackResult, error) {
	return nil, nil
}

func (s *stubPaymentService) HandleCancel(ctx context.Context, sessionID string) (*model.CallbackResult, error) {
	return nil, nil
}

func (s *stubPaymentService) ProcessWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	return s.webhookErr
}

func (s *stubPaymentService) ListPayments(ctx context.Context, userID uuid.UUID, privileged bool, query model.ListPaymentsQuery) ([]model.Payment, int, error) {
	return nil, 0, nil
}

func postWebhook(t *testing.T, svc *stubPaymentService) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/payments/webhook", NewPaymentHandler(svc).Webhook)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookStatusCodes(t *testing.T) {
	t.Run("bad signature rejected with 401", func(t *testing.T) {
		svc := &stubPaymentService{webhookErr: model.NewPaymentError(
			model.ErrCodeInvalidSignature,
			"webhook signature verification failed",
			model.ErrInvalidSignature,
		)}

		w := postWebhook(t, svc)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("verified event acknowledged", func(t *testing.T) {
		w := postWebhook(t, &stubPaymentService{})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
