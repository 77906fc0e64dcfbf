package telegram

import (
	"context"
	"strings"

	"expensebot/pkg/conversation"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// handleStart handles /start command
func (b *Bot) handleStart(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("start").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	// start over from a clean session
	b.flow.Sessions().Clear(update.Message.From.ID)

	b.logger.Print(ctx, "user started bot", "user_id", update.Message.From.ID, "username", update.Message.From.Username)
	b.sendHTML(ctx, botAPI, update.Message.Chat.ID, welcomeText, nil)
}

// handleHelp handles /help command
func (b *Bot) handleHelp(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("help").Inc()
	if update.Message == nil {
		return
	}

	b.sendHTML(ctx, botAPI, update.Message.Chat.ID, helpText, nil)
}

// handleCancel handles /cancel command
func (b *Bot) handleCancel(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	commandsProcessed.WithLabelValues("cancel").Inc()
	if update.Message == nil || update.Message.From == nil {
		return
	}

	b.flow.Cancel(ctx, update.Message.From.ID)
	b.sendHTML(ctx, botAPI, update.Message.Chat.ID, cancelledText, nil)
}

// handleMessage handles plain text: a new expense or a new category name.
func (b *Bot) handleMessage(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	// commands may reach the prefix handler first
	switch strings.TrimSpace(update.Message.Text) {
	case "/start":
		b.handleStart(ctx, botAPI, update)
		return
	case "/help":
		b.handleHelp(ctx, botAPI, update)
		return
	case "/cancel":
		b.handleCancel(ctx, botAPI, update)
		return
	}

	chatID := update.Message.Chat.ID
	out := b.flow.HandleText(ctx, update.Message.From.ID, update.Message.Text)
	messagesProcessed.WithLabelValues(messageType(out)).Inc()

	if out.Failed() {
		errorsTotal.WithLabelValues(string(out.Kind)).Inc()
	}

	r, ok := messageReply(out)
	if !ok {
		return
	}

	b.logSkipped(ctx, r.skipped)
	b.sendHTML(ctx, botAPI, chatID, r.text, r.markup)
}

// handleCallback handles inline keyboard buttons.
func (b *Bot) handleCallback(ctx context.Context, botAPI *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}

	userID := cq.From.ID
	action, value, ok := parseCallbackData(cq.Data)
	if !ok {
		b.logger.Print(ctx, "unknown callback data", "user_id", userID, "data", cq.Data)
		b.answer(ctx, botAPI, cq.ID, toastUnknownAction)
		return
	}

	switch {
	case action == actionCategory:
		callbacksProcessed.WithLabelValues("category").Inc()
		b.renderCallback(ctx, botAPI, cq, b.flow.SelectCategory(ctx, userID, value))
	case action == actionExpense && value == expenseNewCategory:
		callbacksProcessed.WithLabelValues("new_category").Inc()
		b.renderCallback(ctx, botAPI, cq, b.flow.RequestNewCategory(ctx, userID))
	case action == actionExpense && value == expenseCancel:
		callbacksProcessed.WithLabelValues("cancel").Inc()
		b.renderCallback(ctx, botAPI, cq, b.flow.Cancel(ctx, userID))
	default:
		b.logger.Print(ctx, "unknown callback action", "user_id", userID, "action", action, "value", value)
		b.answer(ctx, botAPI, cq.ID, toastUnknownAction)
	}
}

// renderCallback answers the query and edits the message the keyboard belongs to.
func (b *Bot) renderCallback(ctx context.Context, botAPI *bot.Bot, cq *models.CallbackQuery, out conversation.Outcome) {
	if out.Failed() {
		errorsTotal.WithLabelValues(string(out.Kind)).Inc()
	}

	r := callbackReply(out)
	b.answer(ctx, botAPI, cq.ID, r.toast)
	if r.text == "" {
		return
	}

	b.logSkipped(ctx, r.skipped)
	b.edit(ctx, botAPI, cq, r.text, r.markup)
}

func (b *Bot) logSkipped(ctx context.Context, skipped []string) {
	if len(skipped) > 0 {
		b.logger.Print(ctx, "categories skipped in keyboard", "skipped", skipped)
	}
}

func (b *Bot) sendHTML(ctx context.Context, botAPI *bot.Bot, chatID int64, text string, markup models.ReplyMarkup) {
	_, err := botAPI.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		errorsTotal.WithLabelValues("send_message").Inc()
		b.logger.Error(ctx, "failed to send message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) edit(ctx context.Context, botAPI *bot.Bot, cq *models.CallbackQuery, text string, markup models.ReplyMarkup) {
	msg := cq.Message.Message
	if msg == nil {
		// message is too old to be edited, reply in a new one
		b.sendHTML(ctx, botAPI, cq.From.ID, text, markup)
		return
	}

	_, err := botAPI.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: markup,
	})
	if err != nil {
		errorsTotal.WithLabelValues("edit_message").Inc()
		b.logger.Error(ctx, "failed to edit message", "chat_id", msg.Chat.ID, "message_id", msg.ID, "err", err)
	}
}

func (b *Bot) answer(ctx context.Context, botAPI *bot.Bot, queryID, text string) {
	_, err := botAPI.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: queryID,
		Text:            text,
	})
	if err != nil {
		errorsTotal.WithLabelValues("answer_callback").Inc()
		b.logger.Error(ctx, "failed to answer callback", "err", err)
	}
}

// messageType maps a text outcome to the messages metric label.
func messageType(out conversation.Outcome) string {
	switch out.Kind {
	case conversation.KindChooseCategory:
		return "draft"
	case conversation.KindIgnored:
		return "ignored"
	case conversation.KindUsage, conversation.KindInvalidPrice, conversation.KindEmptyCategoryName:
		return "invalid"
	default:
		return "category_name"
	}
}
