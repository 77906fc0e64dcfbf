package telegram

import (
	"expensebot/pkg/conversation"

	"github.com/go-telegram/bot/models"
)

// reply is what the bot sends for one outcome.
type reply struct {
	text    string
	toast   string // callback answer, empty answers silently
	markup  models.ReplyMarkup
	skipped []string // categories left off the keyboard
}

// messageReply renders an outcome of a text message. It returns false when nothing is sent.
func messageReply(out conversation.Outcome) (reply, bool) {
	switch out.Kind {
	case conversation.KindIgnored:
		return reply{}, false
	case conversation.KindUsage:
		return reply{text: usageText}, true
	case conversation.KindInvalidPrice:
		return reply{text: invalidPriceText}, true
	case conversation.KindChooseCategory:
		return categoryReply(draftText(out.Draft), out.Categories), true
	case conversation.KindEmptyCategoryName:
		return reply{text: emptyCategoryNameText, markup: cancelKeyboard()}, true
	case conversation.KindSaved:
		return reply{text: savedText(out.Draft, out.Category, out.Date)}, true
	case conversation.KindCategoryFailed:
		return reply{text: categoryRetryText, markup: cancelKeyboard()}, true
	case conversation.KindWriteFailed:
		return reply{text: writeRetryText, markup: cancelKeyboard()}, true
	case conversation.KindCancelled:
		return reply{text: cancelledText}, true
	default:
		return reply{text: usageText}, true
	}
}

// callbackReply renders an outcome of a button press. Empty text leaves the message as is.
func callbackReply(out conversation.Outcome) reply {
	switch out.Kind {
	case conversation.KindSaved:
		return reply{toast: categorySelectedToast(out.Category), text: savedText(out.Draft, out.Category, out.Date)}
	case conversation.KindNoDraft:
		return reply{toast: toastNoDraft, text: noDraftText}
	case conversation.KindAskCategoryName:
		return reply{text: askCategoryNameText, markup: cancelKeyboard()}
	case conversation.KindCancelled:
		return reply{toast: toastCancelled, text: cancelledText}
	case conversation.KindCategoryFailed:
		r := categoryReply(draftText(out.Draft)+"\n\n"+selectRetryText, out.Categories)
		r.toast = toastCategoryFailed
		return r
	case conversation.KindWriteFailed:
		r := categoryReply(draftText(out.Draft)+"\n\n"+selectRetryText, out.Categories)
		r.toast = toastWriteFailed
		return r
	default:
		return reply{}
	}
}

func categoryReply(text string, categories []string) reply {
	markup, skipped := categoryKeyboard(categories)
	return reply{text: text, markup: markup, skipped: skipped}
}
