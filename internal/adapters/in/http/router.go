package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"settlement/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterOptions carries the optional collaborators of the HTTP surface. A nil
// field disables the feature it backs.
type RouterOptions struct {
	Docs           *APIDocs
	Idempotency    IdempotencyStore
	Metrics        *metrics.Metrics
	RequestTimeout time.Duration
	HealthCheck    func(ctx context.Context) error
}

// NewRouter builds the echo instance with middleware and every route.
func NewRouter(s *Server, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = NewErrorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(opts.Metrics.Middleware())
	e.Use(requestLogger(s.logger))
	if opts.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: opts.RequestTimeout,
		}))
	}

	e.GET("/health", healthHandler(opts.HealthCheck))
	e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))

	api := e.Group("/api/v1")
	if opts.Docs != nil {
		opts.Docs.RegisterSwagger()
		e.GET("/api/openapi.json", opts.Docs.ServeJSON)
		e.GET("/swagger/*", echoSwagger.WrapHandler)
		api.Use(opts.Docs.RequestValidator())
	}

	idempotent := Idempotency(opts.Idempotency, s.logger)

	api.GET("/waiting-orders", s.ListWaitingOrders)

	api.GET("/bundles", s.ListBundles)
	api.POST("/bundles", s.CreateBundle, idempotent)
	api.GET("/bundles/:id", s.GetBundle)
	api.PUT("/bundles/:id", s.UpdateBundle, idempotent)
	api.DELETE("/bundles/:id", s.DeleteBundle, idempotent)
	api.POST("/bundles/:id/complete", s.CompleteBundle, idempotent)
	api.POST("/bundles/:id/cancel", s.CancelBundle, idempotent)
	api.POST("/bundles/:id/adjustments", s.AddBundleAdjustment, idempotent)

	api.POST("/bundle-items/:itemId/adjustments", s.AddItemAdjustment, idempotent)
	api.DELETE("/adjustments/:adjustmentId", s.RemoveAdjustment, idempotent)

	return e
}

func healthHandler(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			if err := check(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "Unhealthy")
			}
		}
		return c.String(http.StatusOK, "Healthy")
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
