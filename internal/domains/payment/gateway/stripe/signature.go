package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cinema-backend/internal/domains/payment/gateway"
	"cinema-backend/internal/domains/payment/model"
)

// webhookTolerance bounds how old a signed webhook may be; older
// timestamps are treated as replays.
const webhookTolerance = 5 * time.Minute

type webhookEnvelope struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// VerifyWebhookSignature checks the Stripe-Signature header
// (t=<unix>,v1=<hex hmac>) against HMAC-SHA256("<t>.<payload>") with
// the webhook secret. Nothing in the payload is trusted before this
// check passes.
func (c *Client) VerifyWebhookSignature(payload []byte, signatureHeader string) (*gateway.WebhookEvent, error) {
	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidSignature, err)
	}

	if time.Since(time.Unix(timestamp, 0)) > webhookTolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", model.ErrInvalidSignature)
	}

	expected := computeSignature(timestamp, payload, c.config.WebhookSecret)

	valid := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w: signature mismatch", model.ErrInvalidSignature)
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed event payload", model.ErrInvalidSignature)
	}

	if envelope.Type == "" || envelope.Data.Object.ID == "" {
		return nil, fmt.Errorf("%w: incomplete event payload", model.ErrInvalidSignature)
	}

	return &gateway.WebhookEvent{
		Type:      envelope.Type,
		SessionID: envelope.Data.Object.ID,
	}, nil
}

func parseSignatureHeader(header string) (int64, []string, error) {
	if header == "" {
		return 0, nil, fmt.Errorf("missing signature header")
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("incomplete signature header")
	}

	return timestamp, signatures, nil
}

func computeSignature(timestamp int64, payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
