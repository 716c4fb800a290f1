package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const maxGatewayResponseBytes = 1 << 20

// GatewayCredentials is the key pair issued by the payment gateway. It is
// built once at startup and passed by value.
type GatewayCredentials struct {
	KeyID     string
	KeySecret string
}

// Configured reports whether both halves of the key pair are present.
func (c GatewayCredentials) Configured() bool {
	return c.KeyID != "" && c.KeySecret != ""
}

// String redacts the secret so credentials are safe to print.
func (c GatewayCredentials) String() string {
	return fmt.Sprintf("GatewayCredentials{KeyID: %q, KeySecret: [redacted]}", c.KeyID)
}

// RemoteOrderRequest is the payload of a gateway order-create call.
type RemoteOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

// RemoteOrder is the gateway-confirmed order.
type RemoteOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway creates orders on the external payment processor.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error)
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// RazorpayGateway calls the Razorpay Orders API over HTTPS with basic auth.
type RazorpayGateway struct {
	creds   GatewayCredentials
	baseURL string
	client  *http.Client
}

func NewRazorpayGateway(creds GatewayCredentials, baseURL string, timeout time.Duration) *RazorpayGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RazorpayGateway{
		creds:   creds,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// CreateOrder issues exactly one order-create request. It is never retried,
// so a timeout may leave an order on the gateway with no local record.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*RemoteOrder, error) {
	if !g.creds.Configured() {
		return nil, ConfigurationErr("Server misconfiguration: missing payment keys")
	}

	payload, err := json.Marshal(RemoteOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order marshal: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order request build: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.creds.KeyID, g.creds.KeySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("[Razorpay] create order request failed: %v", err)
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxGatewayResponseBytes))
	if err != nil {
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order read body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var remoteErr razorpayErrorResponse
		_ = json.Unmarshal(body, &remoteErr)
		log.Printf("[Razorpay] create order failed: status %d, code %q, description %q",
			resp.StatusCode, remoteErr.Error.Code, remoteErr.Error.Description)
		return nil, GatewayErr(resp.StatusCode, remoteErr.Error.Description,
			fmt.Errorf("razorpay order create: status %d", resp.StatusCode))
	}

	var order RemoteOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order unmarshal: %w", err))
	}
	if order.ID == "" {
		return nil, GatewayErr(0, "", fmt.Errorf("razorpay order create: empty order id"))
	}

	return &order, nil
}
