package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies payment failures.
type ErrorKind string

const (
	KindConfiguration    ErrorKind = "ConfigurationError"
	KindInvalidAmount    ErrorKind = "InvalidAmount"
	KindMissingFields    ErrorKind = "MissingFields"
	KindGateway          ErrorKind = "GatewayError"
	KindPersistence      ErrorKind = "PersistenceError"
	KindInvalidSignature ErrorKind = "InvalidSignature"
	KindVerification     ErrorKind = "VerificationError"
)

// ErrRecordNotFound is returned by ledger lookups with no matching row.
var ErrRecordNotFound = errors.New("payment record not found")

// PaymentError carries a client-safe message and HTTP status.
// Message must never contain gateway credentials; Err holds the internal cause.
type PaymentError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// AsPaymentError unwraps err into a *PaymentError when possible.
func AsPaymentError(err error) (*PaymentError, bool) {
	var pe *PaymentError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsKind reports whether err is a PaymentError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	pe, ok := AsPaymentError(err)
	return ok && pe.Kind == kind
}

func ConfigurationErr(message string) *PaymentError {
	return &PaymentError{Kind: KindConfiguration, Message: message, Status: http.StatusInternalServerError}
}

func InvalidAmountErr(message string, cause error) *PaymentError {
	return &PaymentError{Kind: KindInvalidAmount, Message: message, Status: http.StatusBadRequest, Err: cause}
}

func MissingFieldsErr(message string) *PaymentError {
	return &PaymentError{Kind: KindMissingFields, Message: message, Status: http.StatusBadRequest}
}

// GatewayErr keeps the remote status when it is a usable HTTP error code.
func GatewayErr(status int, description string, cause error) *PaymentError {
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	if description == "" {
		description = "Failed to create order"
	}
	return &PaymentError{Kind: KindGateway, Message: description, Status: status, Err: cause}
}

func PersistenceErr(cause error) *PaymentError {
	return &PaymentError{Kind: KindPersistence, Message: "Failed to persist payment record", Status: http.StatusInternalServerError, Err: cause}
}

func InvalidSignatureErr() *PaymentError {
	return &PaymentError{Kind: KindInvalidSignature, Message: "Invalid signature", Status: http.StatusBadRequest}
}

func VerificationErr(cause error) *PaymentError {
	return &PaymentError{Kind: KindVerification, Message: "Verification failed", Status: http.StatusInternalServerError, Err: cause}
}
