package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	handlers "github.com/formworks/payments/internal/adapter/handler/http"
	"github.com/formworks/payments/internal/config"
	domainRepo "github.com/formworks/payments/internal/domain/repository"
	"github.com/formworks/payments/internal/infrastructure/database"
	"github.com/formworks/payments/internal/infrastructure/provider"
	"github.com/formworks/payments/internal/middleware/auth"
	"github.com/formworks/payments/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	config     *config.Config
	logger     *zap.Logger
	echo       *echo.Echo
	repos      *database.Repositories
	correlator domainRepo.SubscriptionCorrelator
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, correlator domainRepo.SubscriptionCorrelator) *Server {
	e := echo.New()
	e.Validator = NewRequestValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:     cfg,
		logger:     logger,
		echo:       e,
		repos:      repos,
		correlator: correlator,
	}
}

func (s *Server) Start() error {
	// Setup routes
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Provider clients are built per request from the stored mode
	// settings, never cached; credentials can change at runtime.
	factory := provider.NewFactory(s.logger)

	// Initialize usecases
	settingsService := usecase.NewSettingsService(s.repos.Settings, factory.WebhookClient, s.config.Service.PublicURL, s.logger)
	btcpaySettlement := usecase.NewBTCPaySettlement(s.logger, s.repos.Entry, s.repos.Submission, factory.InvoiceClient)
	authnetSettlement := usecase.NewAuthNetSettlement(s.logger, s.repos.Entry, s.repos.Submission, s.correlator, factory.CardClient)
	checkoutService := usecase.NewCheckoutService(s.logger, settingsService, s.repos.Submission, s.repos.Entry, factory.InvoiceClient, s.config.Service.PublicURL)

	// Initialize handlers
	btcpayWebhookHandler := handlers.NewBTCPayWebhookHandler(s.logger, settingsService, btcpaySettlement)
	authnetWebhookHandler := handlers.NewAuthNetWebhookHandler(s.logger, settingsService, authnetSettlement)
	settingsHandler := handlers.NewSettingsHandler(settingsService, s.logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, s.logger)
	subscriptionHandler := handlers.NewSubscriptionHandler(authnetSettlement, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.Service.JWTSecret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/webhooks",
		},
	}

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	// Protected routes (require JWT authentication)
	protected := v1.Group("", auth.JWTMiddleware(jwtConfig))

	// Gateway settings (all require authentication)
	protected.GET("/settings/:gateway", settingsHandler.GetSettings)
	protected.PUT("/settings/:gateway", settingsHandler.UpdateSettings)

	// Checkout order creation (called by the form frontend through the
	// platform with a platform token)
	protected.POST("/checkout/orders", checkoutHandler.CreateOrder)

	// Card subscription correlation, written by the platform when it
	// creates a subscription
	protected.POST("/subscriptions/correlations", subscriptionHandler.RegisterSubscription)

	// Webhook routes (outside API versioning, authenticated by
	// signature instead of JWT)
	s.echo.POST("/webhooks/btcpayserver", btcpayWebhookHandler.Handle)
	s.echo.POST("/webhooks/authnet/webhook_sandbox", authnetWebhookHandler.HandleSandbox)
	s.echo.POST("/webhooks/authnet/webhook_live", authnetWebhookHandler.HandleLive)
}
