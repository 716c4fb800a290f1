package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/booknest/internal/middleware"
	"github.com/example/booknest/internal/models"
	"github.com/example/booknest/internal/services"
	"github.com/example/booknest/internal/utils"
)

// PaymentHandler exposes order creation, checkout verification and the
// caller's ledger history.
type PaymentHandler struct {
	payments *services.PaymentService
	ledger   *services.Ledger
	validate *validator.Validate
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService, ledger *services.Ledger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		ledger:   ledger,
		validate: validator.New(),
	}
}

// amountInput accepts a JSON number or a numeric string.
type amountInput struct {
	value string
}

func (a *amountInput) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		return json.Unmarshal(data, &a.value)
	}
	a.value = raw
	return nil
}

type createOrderRequest struct {
	BookID string      `json:"bookId"`
	UserID string      `json:"userId"`
	Amount amountInput `json:"amount"`
}

type verifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	BookID            string `json:"bookId"`
	UserID            string `json:"userId"`
}

// CreateOrder creates a gateway order for a book purchase.
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.payments.CreateOrder(c.UserContext(), services.CreateOrderInput{
		BookID: req.BookID,
		UserID: req.UserID,
		Amount: req.Amount.value,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// VerifyPayment validates the checkout signature and finalizes the payment.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return services.MissingFieldsErr("Missing payment verification fields")
		}
		return err
	}

	if _, err := h.payments.VerifyPayment(c.UserContext(), services.VerifyInput{
		PaymentID: req.RazorpayPaymentID,
		OrderID:   req.RazorpayOrderID,
		Signature: req.RazorpaySignature,
		BookID:    req.BookID,
		UserID:    req.UserID,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Payment verified"})
}

// ListPayments returns the authenticated user's payment records.
func (h *PaymentHandler) ListPayments(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	filter := services.ListFilter{
		UserID: userID,
		Limit:  pg.Limit,
		Offset: pg.Offset,
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		switch s := models.PaymentStatus(status); s {
		case models.PaymentStatusCreated, models.PaymentStatusPaid, models.PaymentStatusFailed:
			filter.Status = s
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid status")
		}
	}

	records, total, err := h.ledger.ListByUser(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    records,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetPayment returns one of the authenticated user's payment records.
func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	record, err := h.ledger.FindByOrderID(c.UserContext(), c.Params("orderId"))
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return err
	}

	if record.UserID != userID {
		return fiber.NewError(fiber.StatusNotFound, "payment not found")
	}

	return c.JSON(fiber.Map{"success": true, "data": record})
}
