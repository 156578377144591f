package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
	"cinema-backend/pkg/logger"
)

// sessionIDPlaceholder is substituted by the gateway with the real
// session id when it redirects the user back to us.
const sessionIDPlaceholder = "{CHECKOUT_SESSION_ID}"

var decimalHundred = decimal.NewFromInt(100)

// Client talks to the Stripe Checkout API.
type Client struct {
	config     Config
	httpClient *http.Client
}

var _ gateway.CheckoutGateway = (*Client)(nil)

func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stripe config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type checkoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession creates a hosted checkout session.
// The amount is sent in the currency's smallest unit.
func (c *Client) CreateSession(ctx context.Context, req gateway.CreateSessionRequest) (*gateway.Session, error) {
	currency := req.Currency
	if currency == "" {
		currency = c.config.Currency
	}

	amountCents := req.Amount.Mul(decimalHundred).IntPart()

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.config.SuccessURL+"?session_id="+sessionIDPlaceholder)
	form.Set("cancel_url", c.config.CancelURL+"?session_id="+sessionIDPlaceholder)
	form.Set("client_reference_id", req.OrderID)
	form.Set("metadata[order_id]", req.OrderID)
	form.Set("line_items[0][price_data][currency]", currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(amountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", "Cinema order "+req.OrderID)
	form.Set("line_items[0][quantity]", "1")

	endpoint := strings.TrimRight(c.config.APIURL, "/") + "/v1/checkout/sessions"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", model.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		_ = json.Unmarshal(body, &apiErr)

		logger.Error("stripe session creation failed", fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message))

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: status %d", model.ErrGatewayUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", model.ErrGatewayUnavailable, apiErr.Error.Message)
	}

	var session checkoutSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", model.ErrGatewayUnavailable, err)
	}

	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("%w: incomplete session in response", model.ErrGatewayUnavailable)
	}

	return &gateway.Session{
		SessionID:  session.ID,
		SessionURL: session.URL,
	}, nil
}
