package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vmkteam/embedlog"
)

// withRecover keeps a panicking handler from stopping the polling loop.
func withRecover(logger embedlog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					errorsTotal.WithLabelValues("panic").Inc()
					logger.Error(ctx, "telegram handler panic", "update_id", update.ID, "err", fmt.Sprint(r))
				}
			}()

			next(ctx, b, update)
		}
	}
}

// withUpdateLog logs every incoming update in debug mode.
func withUpdateLog(logger embedlog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			userID, kind := updateSource(update)
			logger.Print(ctx, "telegram update", "update_id", update.ID, "user_id", userID, "kind", kind)

			next(ctx, b, update)
		}
	}
}

func updateSource(update *models.Update) (userID int64, kind string) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, "message"
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, "callback"
	default:
		return 0, "other"
	}
}
