package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/booknest/internal/models"
)

const ledgerWriteTimeout = 5 * time.Second

// PaymentOptions tunes order creation.
type PaymentOptions struct {
	Currency          string
	ReceiptHintLength int
}

// PaymentService creates gateway orders and reconciles checkout results
// against the ledger.
type PaymentService struct {
	creds    GatewayCredentials
	gateway  Gateway
	ledger   PaymentLedger
	receipts *ReceiptGenerator
	alerter  LedgerAlerter
	opts     PaymentOptions
}

// NewPaymentService wires the orchestrator. alerter may be nil.
func NewPaymentService(creds GatewayCredentials, gateway Gateway, ledger PaymentLedger, alerter LedgerAlerter, opts PaymentOptions) *PaymentService {
	if opts.Currency == "" {
		opts.Currency = "INR"
	}
	if opts.ReceiptHintLength <= 0 {
		opts.ReceiptHintLength = 12
	}
	return &PaymentService{
		creds:    creds,
		gateway:  gateway,
		ledger:   ledger,
		receipts: NewReceiptGenerator(),
		alerter:  alerter,
		opts:     opts,
	}
}

// CreateOrderInput is a client order request. Amount is in major units.
type CreateOrderInput struct {
	BookID string
	UserID string
	Amount string
}

// CreateOrderResult is what the client needs to open the hosted checkout.
type CreateOrderResult struct {
	OrderID  string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key"`
}

// CreateOrder normalizes the amount, creates the gateway order and records it.
// Once the gateway order exists, ledger failures are logged and absorbed.
func (s *PaymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if !s.creds.Configured() {
		log.Printf("[Payments] missing gateway keys: key id present=%t, secret present=%t",
			s.creds.KeyID != "", s.creds.KeySecret != "")
		return nil, ConfigurationErr("Server misconfiguration: missing payment keys")
	}

	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		return nil, MissingFieldsErr("userId required")
	}
	if strings.TrimSpace(in.Amount) == "" {
		return nil, MissingFieldsErr("amount required")
	}

	amount, err := NormalizeAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	receipt, err := s.receipts.Generate(ReceiptHint(userID, s.opts.ReceiptHintLength))
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}

	order, err := s.gateway.CreateOrder(ctx, amount, s.opts.Currency, receipt)
	if err != nil {
		return nil, err
	}

	if order.Amount != amount {
		log.Printf("[Payments] gateway order %s amount %d differs from requested %d", order.ID, order.Amount, amount)
	}
	currency := order.Currency
	if currency == "" {
		currency = s.opts.Currency
	}
	if order.Receipt == "" {
		order.Receipt = receipt
	}

	record := &models.PaymentRecord{
		OrderID:  order.ID,
		BookID:   strings.TrimSpace(in.BookID),
		UserID:   userID,
		Amount:   order.Amount,
		Currency: currency,
		Receipt:  order.Receipt,
	}
	s.persistCreated(ctx, record)

	return &CreateOrderResult{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: currency,
		KeyID:    s.creds.KeyID,
	}, nil
}

func (s *PaymentService) persistCreated(ctx context.Context, record *models.PaymentRecord) {
	// The gateway order already exists; a client disconnect must not abort the write.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ledgerWriteTimeout)
	defer cancel()

	err := s.ledger.Create(writeCtx, record)
	if err == nil {
		return
	}

	perr := PersistenceErr(err)
	log.Printf("[Payments] %v (order %s)", perr, record.OrderID)

	if s.alerter == nil {
		return
	}
	alert := LedgerAlert{
		OrderID:  record.OrderID,
		Receipt:  record.Receipt,
		BookID:   record.BookID,
		UserID:   record.UserID,
		Amount:   record.Amount,
		Currency: record.Currency,
		Reason:   err.Error(),
	}
	go func() {
		if err := s.alerter.NotifyLedgerWriteFailed(alert); err != nil {
			log.Printf("[Payments] ledger alert for order %s failed: %v", alert.OrderID, err)
		}
	}()
}

// VerifyInput carries the identifiers returned by the hosted checkout.
type VerifyInput struct {
	PaymentID string
	OrderID   string
	Signature string
	BookID    string
	UserID    string
}

// VerifyResult describes a successfully verified payment.
type VerifyResult struct {
	OrderID   string
	PaymentID string
	Status    models.PaymentStatus
}

// SignPayment returns the hex HMAC-SHA256 the gateway issues for a completed checkout.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPayment checks the checkout signature and finalizes the ledger row.
// A mismatch marks a created row failed but never downgrades a paid one.
func (s *PaymentService) VerifyPayment(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	in.PaymentID = strings.TrimSpace(in.PaymentID)
	in.OrderID = strings.TrimSpace(in.OrderID)
	if in.PaymentID == "" || in.OrderID == "" || strings.TrimSpace(in.Signature) == "" {
		return nil, MissingFieldsErr("Missing payment verification fields")
	}

	if s.creds.KeySecret == "" {
		log.Printf("[Payments] missing gateway secret, cannot verify order %s", in.OrderID)
		return nil, ConfigurationErr("Server misconfiguration: missing payment keys")
	}

	outcome := PaymentOutcome{
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		BookID:    strings.TrimSpace(in.BookID),
		UserID:    strings.TrimSpace(in.UserID),
	}

	expected := SignPayment(s.creds.KeySecret, in.OrderID, in.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(in.Signature)) {
		log.Printf("[Payments] signature mismatch for order %s, payment %s", in.OrderID, in.PaymentID)
		updated, err := s.ledger.MarkFailed(ctx, outcome)
		if err != nil {
			log.Printf("[Payments] failed to mark order %s failed: %v", in.OrderID, err)
		} else if !updated {
			log.Printf("[Payments] order %s not in created state, failure not recorded", in.OrderID)
		}
		return nil, InvalidSignatureErr()
	}

	record, err := s.ledger.MarkPaid(ctx, outcome)
	if err != nil {
		log.Printf("[Payments] failed to mark order %s paid: %v", in.OrderID, err)
		return nil, VerificationErr(err)
	}

	log.Printf("[Payments] order %s paid with payment %s", record.OrderID, record.PaymentID)
	return &VerifyResult{
		OrderID:   record.OrderID,
		PaymentID: record.PaymentID,
		Status:    record.Status,
	}, nil
}
