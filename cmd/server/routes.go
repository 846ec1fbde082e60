package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/reflectionapp/reflection/api/internal/middleware"
	apperrors "github.com/reflectionapp/reflection/api/internal/pkg/errors"
)

// newApp builds the Fiber app with the global middleware chain and every route
func newApp(deps *Dependencies) *fiber.App {
	cfg := deps.Config
	sentryEnabled := cfg.Sentry.Enabled()

	app := fiber.New(fiber.Config{
		AppName:               "Reflection API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
		ErrorHandler:          errorHandler(deps.Logger, sentryEnabled),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.NewLoggerMiddleware(middleware.LoggerConfig{
		Logger: deps.Logger,
		Skip:   middleware.HealthSkipper,
	}).Handler())
	app.Use(middleware.RecoverWithSentry(deps.Logger, sentryEnabled))
	if sentryEnabled {
		app.Use(middleware.SentryMiddleware(true))
	}
	app.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.Server.CORSOrigins)))
	app.Use(middleware.NewMetricsMiddleware(middleware.MetricsConfig{
		Skip: middleware.HealthSkipper,
	}).Handler())

	registerRoutes(app, deps)
	return app
}

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	// Health and docs (no auth)
	deps.HealthHandler.RegisterRoutes(app)
	deps.DocsHandler.RegisterRoutes(app)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/v1", deps.AuthMiddleware.RequireJWT())

	v1.Get("/tables", deps.TablesHandler.ListTables)
	v1.Get("/tables/:name", deps.TablesHandler.GetTable)

	values := v1.Group("/values")
	deps.ConfidenceHandler.RegisterRoutes(values.Group("/confidence"))
	deps.EnergyHandler.RegisterRoutes(values.Group("/energy"))
	deps.FocusHandler.RegisterRoutes(values.Group("/focus"))
}

// errorHandler renders errors that escaped the handlers
func errorHandler(logger *zap.Logger, sentryEnabled bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := apperrors.GetStatusCode(err)
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		logger.Error("request error",
			zap.Int("status", code),
			zap.Error(err),
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)

		if sentryEnabled && code >= fiber.StatusInternalServerError {
			middleware.CaptureError(c, err)
		}

		return c.Status(code).JSON(fiber.Map{
			"error":   message,
			"code":    code,
			"message": message,
		})
	}
}
