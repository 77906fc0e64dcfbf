package app

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vmkteam/appkit"
)

// registerMetrics is a function that initializes metrics and adds /metrics endpoint to echo.
// Bot, cache and Notion metrics are registered in the default registry via promauto.
func (a *App) registerMetrics() {
	a.echo.Use(appkit.HTTPMetrics(appkit.DefaultServerName))

	a.echo.Any("/metrics", echo.WrapHandler(promhttp.Handler()))
}
