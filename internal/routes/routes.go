package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/booknest/internal/config"
	"github.com/example/booknest/internal/handlers"
	"github.com/example/booknest/internal/middleware"
	"github.com/example/booknest/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	creds := services.GatewayCredentials{
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
	}

	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)
	gateway := services.NewRazorpayGateway(creds, cfg.RazorpayBaseURL, cfg.RazorpayTimeout)
	ledger := services.NewLedger(db)
	paymentService := services.NewPaymentService(creds, gateway, ledger, telegramService, services.PaymentOptions{
		Currency:          cfg.PaymentCurrency,
		ReceiptHintLength: cfg.ReceiptHintLength,
	})

	paymentHandler := handlers.NewPaymentHandler(paymentService, ledger)

	app.Use(middleware.CORS(cfg))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Checkout flow
	app.Post("/create-order", middleware.CreateOrderLimiter(cfg.CreateOrderRateLimit), paymentHandler.CreateOrder)
	app.Post("/verify-payment", paymentHandler.VerifyPayment)

	// Protected routes
	protected := app.Group("/api", middleware.AuthMiddleware(cfg))
	protected.Get("/payments", paymentHandler.ListPayments)
	protected.Get("/payments/:orderId", paymentHandler.GetPayment)
}
