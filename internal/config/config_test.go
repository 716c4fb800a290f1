package config

import (
	"testing"
	"time"
)

func TestLoadReadsGatewaySettings(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RAZORPAY_KEY_ID", " rzp_test_key ")
	t.Setenv("RAZORPAY_KEY_SECRET", "shh")
	t.Setenv("RAZORPAY_BASE_URL", "https://gateway.example/v1/")
	t.Setenv("RAZORPAY_TIMEOUT_SECONDS", "7")
	t.Setenv("PAYMENT_CURRENCY", "inr")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	if cfg.AppPort != "9090" {
		t.Errorf("AppPort = %q, want 9090", cfg.AppPort)
	}
	if cfg.RazorpayKeyID != "rzp_test_key" {
		t.Errorf("RazorpayKeyID = %q, want trimmed key", cfg.RazorpayKeyID)
	}
	if cfg.RazorpayBaseURL != "https://gateway.example/v1" {
		t.Errorf("RazorpayBaseURL = %q", cfg.RazorpayBaseURL)
	}
	if cfg.RazorpayTimeout != 7*time.Second {
		t.Errorf("RazorpayTimeout = %v, want 7s", cfg.RazorpayTimeout)
	}
	if cfg.PaymentCurrency != "INR" {
		t.Errorf("PaymentCurrency = %q, want INR", cfg.PaymentCurrency)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.PaymentsConfigured() {
		t.Error("expected payments to be configured")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	t.Setenv("RECEIPT_HINT_LENGTH", "-3")

	cfg := Load()

	if cfg.ReceiptHintLength != 12 {
		t.Errorf("ReceiptHintLength = %d, want 12", cfg.ReceiptHintLength)
	}
	if cfg.RazorpayTimeout != 15*time.Second {
		t.Errorf("RazorpayTimeout = %v, want 15s", cfg.RazorpayTimeout)
	}
	if cfg.PaymentsConfigured() {
		t.Error("expected payments to be unconfigured without keys")
	}
}
