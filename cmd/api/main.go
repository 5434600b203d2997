package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/takealot-invoicer/internal/application/auth"
	"github.com/jhoicas/takealot-invoicer/internal/application/invoicing"
	"github.com/jhoicas/takealot-invoicer/internal/application/usecase"
	infrapdf "github.com/jhoicas/takealot-invoicer/internal/infrastructure/pdf"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/postgres"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/storage"
	"github.com/jhoicas/takealot-invoicer/internal/infrastructure/takealot"
	httpRouter "github.com/jhoicas/takealot-invoicer/internal/interfaces/http"
	"github.com/jhoicas/takealot-invoicer/pkg/config"
	"github.com/jhoicas/takealot-invoicer/pkg/logger"

	_ "github.com/jhoicas/takealot-invoicer/docs"
)

const swaggerFile = "./docs/swagger.json"

// @title                       Takealot Invoicer API
// @version                     1.0
// @description                 Facturas de vendedores de Takealot: consulta, PDF y subida.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	eventRepo := postgres.NewDocumentEventRepository(pool)

	// Todas las llamadas a Takealot pasan por el relay CORS configurado.
	sellerAPI := takealot.NewClient(takealot.Config{
		BaseURL:     cfg.Seller.BaseURL,
		RelayURL:    cfg.Seller.RelayURL,
		RelayAPIKey: cfg.Seller.RelayAPIKey,
	}, nil)

	invoiceBuilder, err := infrapdf.NewInvoiceBuilder(infrapdf.Config{
		TimeZone:   cfg.PDF.TimeZone,
		DateLayout: cfg.PDF.DateLayout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración PDF")
	}
	saver := storage.NewFileSaver(nil, cfg.PDF.OutputDir)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	settingsUC := usecase.NewSettingsUseCase(settingsRepo)
	invoicingUC := invoicing.NewUseCase(
		sellerAPI, invoiceBuilder, infrapdf.NewRequestsReport(), saver,
		eventRepo, settingsUC, log,
		invoicing.Options{SaveLocal: cfg.PDF.SaveLocal},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Takealot Invoicer API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		SettingsUC:  settingsUC,
		InvoicingUC: invoicingUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
