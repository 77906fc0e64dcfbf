package telegram

import (
	"strings"

	"github.com/go-telegram/bot/models"
)

// maxCallbackData is the Bot API limit for callback_data in bytes.
const maxCallbackData = 64

const (
	actionCategory = "cat"
	actionExpense  = "expense"

	expenseNewCategory = "new_category"
	expenseCancel      = "cancel"
)

func callbackData(action, value string) string {
	return action + ":" + value
}

// parseCallbackData splits "action:value". Category names may contain colons.
func parseCallbackData(data string) (action, value string, ok bool) {
	parts := strings.SplitN(data, ":", 2)
	if len(parts) < 2 {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// categoryKeyboard returns one button per category followed by create and cancel buttons.
// Categories whose callback data does not fit the Bot API limit are returned as skipped.
func categoryKeyboard(categories []string) (markup models.ReplyMarkup, skipped []string) {
	rows := make([][]models.InlineKeyboardButton, 0, len(categories)+2)

	for _, cat := range categories {
		data := callbackData(actionCategory, cat)
		if cat == "" || len(data) > maxCallbackData {
			skipped = append(skipped, cat)
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{{Text: cat, CallbackData: data}})
	}

	rows = append(rows,
		[]models.InlineKeyboardButton{{Text: "➕ Создать новую", CallbackData: callbackData(actionExpense, expenseNewCategory)}},
		[]models.InlineKeyboardButton{{Text: "❌ Отмена", CallbackData: callbackData(actionExpense, expenseCancel)}},
	)

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}, skipped
}

// cancelKeyboard returns keyboard with cancel button only
func cancelKeyboard() models.ReplyMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "❌ Отмена", CallbackData: callbackData(actionExpense, expenseCancel)},
			},
		},
	}
}
