package telegram

import (
	"context"
	"errors"
	"fmt"

	"expensebot/pkg/conversation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/vmkteam/embedlog"
)

type Bot struct {
	api    *bot.Bot
	logger embedlog.Logger
	flow   *conversation.Flow
	debug  bool
}

type Config struct {
	Token string `required:"true"`
	Debug bool
}

// New creates a new Telegram bot instance
func New(cfg Config, flow *conversation.Flow, logger embedlog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(defaultHandler(logger)),
		bot.WithMiddlewares(withRecover(logger)),
	}

	if cfg.Debug {
		opts = append(opts, bot.WithDebug(), bot.WithMiddlewares(withUpdateLog(logger)))
	}

	api, err := bot.New(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		api:    api,
		logger: logger,
		flow:   flow,
		debug:  cfg.Debug,
	}

	b.registerHandlers()

	return b, nil
}

// Start starts the bot with long polling and blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) error {
	me, err := b.api.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}

	b.logger.Print(ctx, "telegram bot started", "username", me.Username, "id", me.ID)
	b.api.Start(ctx)

	return nil
}

// Stop logs bot shutdown, polling itself stops with the Start context.
func (b *Bot) Stop(ctx context.Context) {
	b.logger.Print(ctx, "stopping telegram bot", "pending_drafts", b.flow.Sessions().Len())
}

func (b *Bot) registerHandlers() {
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, b.handleStart)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, b.handleHelp)
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, b.handleCancel)

	b.api.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, b.handleCallback)

	// any other text is either a new expense or a new category name
	b.api.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, b.handleMessage)
}

// defaultHandler handles updates without text, like stickers or photos
func defaultHandler(logger embedlog.Logger) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		messagesProcessed.WithLabelValues("unsupported").Inc()
		logger.Print(ctx, "unsupported message", "chat_id", update.Message.Chat.ID)

		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    update.Message.Chat.ID,
			Text:      usageText,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			logger.Error(ctx, "failed to send message", "err", err)
		}
	}
}
