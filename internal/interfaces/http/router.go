package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/takealot-invoicer/internal/application/auth"
	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
	"github.com/jhoicas/takealot-invoicer/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	SettingsUC  *usecase.SettingsUseCase
	InvoicingUC *invoicing.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Configuración del vendedor
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	protected.Get("/settings", settingsHandler.Get)
	protected.Put("/settings", settingsHandler.Put)

	// Facturas
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoicingUC)
	invoices.Get("/:number", invoiceHandler.Get)
	invoices.Post("/:number/pdf", invoiceHandler.RenderPDF)

	// Solicitudes de factura
	requests := protected.Group("/invoice-requests")
	requestHandler := NewInvoiceRequestHandler(deps.InvoicingUC)
	requests.Get("/:status/report", requestHandler.Report)
	requests.Get("/:status", requestHandler.List)
	requests.Post("/:requestId/upload", requestHandler.Upload)

	protected.Get("/activity", requestHandler.Activity)
}
