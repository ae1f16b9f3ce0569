// Package razorpay is a minimal client for the Razorpay Orders API plus
// the HMAC signature verification used on the payment callback.
package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.razorpay.com"

// Config holds Razorpay API credentials and client settings.
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string        // defaults to the public Razorpay API
	Timeout   time.Duration // bound on each API call, defaults to 10s
}

// Client calls the Razorpay REST API.
type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Razorpay client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// OrderRequest is the payload for creating a Razorpay order. Amount is in
// the smallest currency unit (paise for INR).
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is a Razorpay order (a payment intent) as returned by the API.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder mints a payment intent with the processor. The call is a
// single attempt bounded by the client timeout and ctx.
func (c *Client) CreateOrder(ctx context.Context, orderReq OrderRequest) (*Order, error) {
	body, err := json.Marshal(orderReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("razorpay returned status %d: %s", resp.StatusCode, respBody)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode razorpay order response: %w", err)
	}
	return &order, nil
}

// SignPayload computes the hex HMAC-SHA256 over "<orderID>|<paymentID>",
// the proof the processor sends after a completed payment.
func SignPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a proof signature in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := SignPayload(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
