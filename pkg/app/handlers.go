package app

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmkteam/appkit"
)

// runHTTPServer is a function that starts http listener using labstack/echo.
func (a *App) runHTTPServer(ctx context.Context, host string, port int) error {
	listenAddress := fmt.Sprintf("%s:%d", host, port)
	addr := "http://" + listenAddress
	a.Print(ctx, "starting http listener", "url", addr)

	return a.echo.Start(listenAddress)
}

// registerHandlers register echo handlers.
func (a *App) registerHandlers() {
	a.echo.GET("/status", a.status)

	// show all routes in devel mode
	if a.cfg.Server.IsDevel {
		a.echo.GET("/", appkit.RenderRoutes(a.appName, a.echo))
	}
}

// registerDebugHandlers adds /debug handlers into a.echo instance.
func (a *App) registerDebugHandlers() {
	dbg := a.echo.Group("/debug")

	// add pprof integration
	dbg.Any("/pprof/*", appkit.PprofHandler)

	dbg.GET("/categories", a.categories)
	dbg.POST("/categories/reset", a.resetCategories)
}

// status checks that the Notion database is reachable.
func (a *App) status(c echo.Context) error {
	if err := a.store.Ping(c.Request().Context()); err != nil {
		a.Error(c.Request().Context(), "failed to check notion connection", "err", err)
		return c.String(http.StatusInternalServerError, "Notion error")
	}

	return c.String(http.StatusOK, "OK")
}

type categoriesResponse struct {
	Categories []string   `json:"categories"`
	FetchedAt  *time.Time `json:"fetchedAt,omitempty"`
}

// categories shows the cached category list without a remote call.
func (a *App) categories(c echo.Context) error {
	names, fetchedAt := a.expenses.Cache().Snapshot()

	resp := categoriesResponse{Categories: names}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	if !fetchedAt.IsZero() {
		resp.FetchedAt = &fetchedAt
	}

	return c.JSON(http.StatusOK, resp)
}

// resetCategories drops the cached list, the next read goes to Notion.
func (a *App) resetCategories(c echo.Context) error {
	a.expenses.Cache().Reset()
	a.Print(c.Request().Context(), "category cache reset")

	return c.NoContent(http.StatusNoContent)
}
