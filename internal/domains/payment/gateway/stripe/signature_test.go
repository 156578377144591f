package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
)

const testWebhookSecret = "whsec_test_secret"

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: testWebhookSecret,
		APIURL:        "https://api.stripe.com",
		SuccessURL:    "https://cinema.example.com/payments/success",
		CancelURL:     "https://cinema.example.com/payments/cancel",
		Currency:      "usd",
	})
	require.NoError(t, err)
	return client
}

func signPayload(payload []byte, timestamp int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifyWebhookSignature(t *testing.T) {
	client := testClient(t)
	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_abc"}}}`)

	t.Run("valid signature", func(t *testing.T) {
		header := signPayload(payload, time.Now().Unix(), testWebhookSecret)

		event, err := client.VerifyWebhookSignature(payload, header)
		require.NoError(t, err)
		assert.Equal(t, gateway.EventCheckoutCompleted, event.Type)
		assert.Equal(t, "cs_test_abc", event.SessionID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := signPayload(payload, time.Now().Unix(), "whsec_other")

		_, err := client.VerifyWebhookSignature(payload, header)
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := signPayload(payload, time.Now().Unix(), testWebhookSecret)
		tampered := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"cs_test_evil"}}}`)

		_, err := client.VerifyWebhookSignature(tampered, header)
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})

	t.Run("stale timestamp", func(t *testing.T) {
		old := time.Now().Add(-10 * time.Minute).Unix()
		header := signPayload(payload, old, testWebhookSecret)

		_, err := client.VerifyWebhookSignature(payload, header)
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := client.VerifyWebhookSignature(payload, "")
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := client.VerifyWebhookSignature(payload, "t=abc,v1=zzz")
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})

	t.Run("multiple v1 entries, one valid", func(t *testing.T) {
		ts := time.Now().Unix()
		valid := signPayload(payload, ts, testWebhookSecret)
		bogus := ",v1=" + hex.EncodeToString(make([]byte, 32))
		header := valid + bogus

		event, err := client.VerifyWebhookSignature(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "cs_test_abc", event.SessionID)
	})

	t.Run("incomplete event payload", func(t *testing.T) {
		empty := []byte(`{"type":"","data":{"object":{"id":""}}}`)
		header := signPayload(empty, time.Now().Unix(), testWebhookSecret)

		_, err := client.VerifyWebhookSignature(empty, header)
		assert.True(t, errors.Is(err, model.ErrInvalidSignature))
	})
}
