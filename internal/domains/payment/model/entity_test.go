package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusPending, PaymentStatusCancelled, true},
		{PaymentStatusFailed, PaymentStatusCompleted, true},
		{PaymentStatusFailed, PaymentStatusCancelled, true},
		// Terminal states never move, in particular completed->cancelled.
		{PaymentStatusCompleted, PaymentStatusCancelled, false},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusCancelled, PaymentStatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.False(t, PaymentStatusFailed.IsTerminal())
	assert.True(t, PaymentStatusCompleted.IsTerminal())
	assert.True(t, PaymentStatusCancelled.IsTerminal())
}

func TestPaymentResponseHidesSessionURLWhenTerminal(t *testing.T) {
	payment := &Payment{
		Status:     PaymentStatusCompleted,
		SessionURL: "https://checkout.stripe.com/pay/cs_test_123",
	}
	resp := ToPaymentResponse(payment)
	assert.Empty(t, resp.SessionURL)

	payment.Status = PaymentStatusPending
	resp = ToPaymentResponse(payment)
	assert.NotEmpty(t, resp.SessionURL)
}
