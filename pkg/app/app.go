package app

import (
	"context"
	"fmt"
	"time"

	"expensebot/pkg/conversation"
	"expensebot/pkg/expense"
	"expensebot/pkg/notion"
	"expensebot/pkg/services"
	"expensebot/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/vmkteam/appkit"
	"github.com/vmkteam/embedlog"
)

type Config struct {
	Server struct {
		Host    string `default:"0.0.0.0"`
		Port    int    `default:"8080"`
		IsDevel bool   `split_words:"true"`
	}
	Telegram telegram.Config
	Notion   notion.Config
	Expense  struct {
		TimeZone    string        `split_words:"true" default:"Europe/Moscow"`
		CategoryTTL time.Duration `split_words:"true" default:"5m"`
	}
	Prometheus struct {
		URL string
	}
	Log struct {
		Verbose bool
		JSON    bool
		Dev     bool
	}
}

// pinger reports whether the record store is reachable.
type pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	embedlog.Logger
	appName  string
	cfg      Config
	echo     *echo.Echo
	store    pinger
	expenses *expense.Manager
	tgBot    *telegram.Bot
}

func New(ctx context.Context, appName string, sl embedlog.Logger, cfg Config) (*App, error) {
	loc, err := time.LoadLocation(cfg.Expense.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", cfg.Expense.TimeZone, err)
	}

	nc, err := notion.New(cfg.Notion, sl)
	if err != nil {
		return nil, err
	}

	expenses := expense.NewManagerFromStores(nc, nc, sl, loc, expense.WithTTL(cfg.Expense.CategoryTTL))
	flow := conversation.NewFlow(conversation.NewSessions(), expenses, sl)

	tgBot, err := telegram.New(cfg.Telegram, flow, sl)
	if err != nil {
		return nil, err
	}

	a := &App{
		appName:  appName,
		cfg:      cfg,
		echo:     appkit.NewEcho(),
		Logger:   sl,
		store:    nc,
		expenses: expenses,
		tgBot:    tgBot,
	}

	a.restoreMetrics(ctx)

	return a, nil
}

// Run is a function that runs application.
func (a *App) Run(ctx context.Context) error {
	a.registerMetrics()
	a.registerHandlers()
	a.registerDebugHandlers()
	a.registerMetadata()

	go func() {
		if err := a.tgBot.Start(ctx); err != nil {
			a.Error(ctx, "telegram bot error", "err", err)
		}
	}()

	return a.runHTTPServer(ctx, a.cfg.Server.Host, a.cfg.Server.Port)
}

// Shutdown is a function that gracefully stops HTTP server.
func (a *App) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if a.tgBot != nil {
		a.tgBot.Stop(ctx)
	}

	return a.echo.Shutdown(ctx)
}

// restoreMetrics brings counters back from Prometheus, failures are only logged.
func (a *App) restoreMetrics(ctx context.Context) {
	if a.cfg.Prometheus.URL == "" {
		return
	}

	pc, err := services.NewPrometheusClient(a.cfg.Prometheus.URL, a.Logger)
	if err != nil {
		a.Error(ctx, "failed to create prometheus client", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := pc.CheckHealth(ctx); err != nil {
		a.Error(ctx, "prometheus is not available, metrics start from zero", "err", err)
		return
	}

	s, err := pc.RestoreMetrics(ctx)
	if err != nil {
		a.Error(ctx, "failed to restore metrics", "err", err)
		return
	}

	telegram.RestoreMetrics(s)
	expense.RestoreMetrics(s.RecordsCreated, s.CategoriesCreated)
	a.Print(ctx, "metrics restored", "records", s.RecordsCreated, "categories", s.CategoriesCreated)
}

// registerMetadata is a function that registers meta info from service.
func (a *App) registerMetadata() {
	opts := appkit.MetadataOpts{
		HasPublicAPI:  false,
		HasPrivateAPI: false,
		Services: []appkit.ServiceMetadata{
			appkit.NewServiceMetadata("telegram-bot", appkit.MetadataServiceTypeAsync),
		},
	}

	md := appkit.NewMetadataManager(opts)
	md.RegisterMetrics()

	a.echo.GET("/debug/metadata", md.Handler)
}
