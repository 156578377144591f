package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
)

func clientForServer(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		SecretKey:     "sk_test_123",
		WebhookSecret: "whsec_test",
		APIURL:        srv.URL,
		SuccessURL:    "https://cinema.example.com/payments/success",
		CancelURL:     "https://cinema.example.com/payments/cancel",
		Currency:      "usd",
	})
	require.NoError(t, err)
	return client
}

func TestCreateSessionRequestShape(t *testing.T) {
	var gotForm map[string]string
	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotForm = map[string]string{}
		for key := range r.PostForm {
			gotForm[key] = r.PostForm.Get(key)
		}
		w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.stripe.com/pay/cs_test_123"}`))
	}))
	defer srv.Close()

	client := clientForServer(t, srv)

	session, err := client.CreateSession(context.Background(), gateway.CreateSessionRequest{
		OrderID:  "order-1",
		Amount:   decimal.RequireFromString("15.50"),
		Currency: "usd",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", session.SessionID)
	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_123", session.SessionURL)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "payment", gotForm["mode"])
	// 15.50 becomes 1550 cents, exactly.
	assert.Equal(t, "1550", gotForm["line_items[0][price_data][unit_amount]"])
	assert.Equal(t, "usd", gotForm["line_items[0][price_data][currency]"])
	assert.Equal(t, "order-1", gotForm["client_reference_id"])
	assert.Contains(t, gotForm["success_url"], "session_id={CHECKOUT_SESSION_ID}")
}

func TestCreateSessionGatewayErrors(t *testing.T) {
	t.Run("server error is retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := clientForServer(t, srv)
		_, err := client.CreateSession(context.Background(), gateway.CreateSessionRequest{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})
		assert.True(t, errors.Is(err, model.ErrGatewayUnavailable))
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := clientForServer(t, srv)
		_, err := client.CreateSession(context.Background(), gateway.CreateSessionRequest{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})
		assert.True(t, errors.Is(err, model.ErrGatewayUnavailable))
	})

	t.Run("incomplete session body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":"","url":""}`))
		}))
		defer srv.Close()

		client := clientForServer(t, srv)
		_, err := client.CreateSession(context.Background(), gateway.CreateSessionRequest{
			OrderID: "order-1",
			Amount:  decimal.RequireFromString("10.00"),
		})
		assert.True(t, errors.Is(err, model.ErrGatewayUnavailable))
	})
}
