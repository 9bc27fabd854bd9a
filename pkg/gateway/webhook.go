package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventOrderPaid       = "order.paid"

	// SignatureHeader is the header the gateway signs deliveries with.
	SignatureHeader = "X-Gateway-Signature"
)

// WebhookEvent is the envelope the gateway posts on settlement. Only the
// payment/order entities the reconciler needs are decoded; everything else
// is ignored.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity PaymentEntity `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity OrderEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type PaymentEntity struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type OrderEntity struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// IsSettlement reports whether the event finalizes a payment.
func (e *WebhookEvent) IsSettlement() bool {
	return e.Event == EventPaymentCaptured || e.Event == EventOrderPaid
}

// GatewayOrderID returns the gateway order the event refers to, regardless
// of which entity carried it.
func (e *WebhookEvent) GatewayOrderID() string {
	if e.Payload.Payment.Entity.OrderID != "" {
		return e.Payload.Payment.Entity.OrderID
	}
	return e.Payload.Order.Entity.ID
}

func ParseWebhook(payload []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to decode webhook payload: %w", err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("webhook payload missing event type")
	}
	return &event, nil
}

// VerifySignature checks the hex HMAC-SHA256 of the raw payload against the
// delivered signature. A "sha256=" prefix is tolerated. Comparison is
// constant-time; an empty signature always fails.
func VerifySignature(payload []byte, signature, secret string) bool {
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature the gateway would attach to payload. Used by
// tests and local tooling.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
