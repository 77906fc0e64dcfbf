package telegram

import (
	"fmt"
	"html"
	"strings"

	"expensebot/pkg/expense"
)

const formatHelp = "📌 Отправьте данные в формате:\n\n" +
	"Название товара/услуги\n" +
	"Цена (например: <code>150,3</code> или <code>150.3</code>)\n" +
	"Дата в формате dd.mm.yyyy (опционально)\n" +
	"Комментарий (опционально)\n\n" +
	"Пример:\n" +
	"<code>Кофта красная\n" +
	"150,3\n" +
	"21.09.2025\n" +
	"Купил на распродаже</code>"

const (
	welcomeText = "👋 Привет! Я бот для записи расходов в Notion.\n\n" +
		formatHelp + "\n\n" +
		"➡️ После этого я предложу выбрать категорию."

	usageText = formatHelp

	helpText = "📚 <b>Справка</b>\n\n" +
		formatHelp + "\n\n" +
		"/cancel - отменить текущую запись"

	invalidPriceText      = "❌ Неправильный формат цены. Используйте цифры и точку/запятую."
	emptyCategoryNameText = "❌ Название категории не может быть пустым. Попробуйте ещё раз."
	askCategoryNameText   = "✏️ Введите название новой категории:"
	cancelledText         = "🗑️ Запись отменена. Вы можете начать заново."
	noDraftText           = "❌ Данные не найдены. Попробуйте начать заново."

	selectRetryText   = "❌ Запись не сохранена. Выберите категорию ещё раз или отмените ввод."
	categoryRetryText = "❌ Не удалось создать категорию. Попробуйте ещё раз или /cancel."
	writeRetryText    = "❌ Ошибка при сохранении в Notion. Попробуйте ещё раз или /cancel."

	toastCancelled      = "❌ Ввод отменён."
	toastNoDraft        = "❌ Данные не найдены."
	toastCategoryFailed = "❌ Не удалось добавить категорию."
	toastWriteFailed    = "❌ Ошибка при сохранении в Notion."
	toastUnknownAction  = "Неизвестное действие"
)

// draftText echoes an accepted draft and asks for a category.
func draftText(d expense.Draft) string {
	date := d.Date
	if date == "" {
		date = "сегодня"
	}

	comment := d.Comment
	if comment == "" {
		comment = "—"
	}

	return fmt.Sprintf(
		"✅ Данные получены!\n\n"+
			"📄 Название: %s\n"+
			"💰 Цена: %s ₽\n"+
			"📅 Дата: %s\n"+
			"📝 Комментарий: %s\n\n"+
			"👉 Выберите категорию:",
		html.EscapeString(d.Name),
		d.Price.String(),
		html.EscapeString(date),
		html.EscapeString(comment),
	)
}

// savedText confirms a stored record.
func savedText(d expense.Draft, category, date string) string {
	var b strings.Builder

	b.WriteString("✅ Записано:\n")
	fmt.Fprintf(&b, "📄 <b>%s</b>\n", html.EscapeString(d.Name))
	fmt.Fprintf(&b, "💰 <b>%s ₽</b>\n", d.Price.String())
	fmt.Fprintf(&b, "📁 <b>%s</b>\n", html.EscapeString(category))
	fmt.Fprintf(&b, "📅 %s", html.EscapeString(date))
	if d.Comment != "" {
		fmt.Fprintf(&b, "\n💬 %s", html.EscapeString(d.Comment))
	}

	return b.String()
}

func categorySelectedToast(category string) string {
	return fmt.Sprintf("✅ Категория «%s» выбрана!", category)
}
