package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GatewayOrder is the provider's wire representation of an order. The amount
// that must survive until callback verification is recorded separately by the
// caller; this struct itself never enters the ledger.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // smallest currency unit (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayClient is a thin pass-through to the payment provider's orders API.
type GatewayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	http      *http.Client
}

// NewGatewayClient builds a client with the clinic's credentials. The timeout
// bounds the provider call; a timed-out order creation records nothing.
func NewGatewayClient(baseURL, keyID, keySecret string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GatewayClient{
		baseURL:   baseURL,
		keyID:     keyID,
		keySecret: keySecret,
		http:      &http.Client{Timeout: timeout},
	}
}

// CreateOrder opens a provider order for the given amount. The receipt ties
// the order back to a local document (invoice number); when the caller has
// none, a random one is generated.
func (c *GatewayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string, notes map[string]string) (*GatewayOrder, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	if currency == "" {
		currency = "INR"
	}
	if receipt == "" {
		receipt = uuid.NewString()
	}

	payload := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &GatewayError{Op: "create order", Err: fmt.Errorf("provider returned %d: %s", resp.StatusCode, snippet)}
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, &GatewayError{Op: "create order", Err: err}
	}
	if order.ID == "" {
		return nil, &GatewayError{Op: "create order", Err: fmt.Errorf("provider returned no order id")}
	}
	return &order, nil
}

// KeyID is echoed to clients so they can open the provider's checkout UI.
func (c *GatewayClient) KeyID() string { return c.keyID }

// VerifySignature recomputes the provider's callback signature,
// HMAC-SHA256(secret, orderID|paymentID), and compares in constant time.
// A payment is only ever recorded behind a true result.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
