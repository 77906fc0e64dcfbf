package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"expensebot/pkg/app"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/vmkteam/embedlog"
)

const appName = "expensebot"

func main() {
	// .env is optional, real environment wins
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env file: %v", err)
	}

	var cfg app.Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to process environment config: %v", err)
	}

	sl := embedlog.NewLogger(cfg.Log.Verbose, cfg.Log.JSON)
	if cfg.Log.Dev {
		sl = embedlog.NewDevLogger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, appName, sl, cfg)
	if err != nil {
		sl.Error(ctx, "failed to create app", "err", err)
		os.Exit(1)
	}

	go func() {
		if err := a.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sl.Error(ctx, "shutting down the server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	sl.Print(context.Background(), "shutting down")

	if err := a.Shutdown(5 * time.Second); err != nil {
		sl.Error(context.Background(), "failed to shutdown", "err", err)
	}
}
