package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/drowwn/weNote/docs"
	"github.com/drowwn/weNote/internal/infrastructure/http/handlers"
)

// RegisterOps mounts the operational endpoints: health checks, Prometheus
// metrics and the swagger UI. None of them require authentication.
func RegisterOps(e *echo.Echo, checks map[string]handlers.Checker) {
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
