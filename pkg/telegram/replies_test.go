package telegram

import (
	"errors"
	"strings"
	"testing"

	"expensebot/pkg/conversation"
	"expensebot/pkg/expense"

	"github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
)

var testDraft = expense.Draft{Name: "Кофта", Price: decimal.RequireFromString("150.3")}

func buttons(t *testing.T, markup models.ReplyMarkup) []string {
	t.Helper()

	kb, ok := markup.(*models.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("expected inline keyboard, got %T", markup)
	}

	var data []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			data = append(data, btn.CallbackData)
		}
	}
	return data
}

func TestMessageReply(t *testing.T) {
	fail := errors.New("notion: 500")

	tests := []struct {
		out      conversation.Outcome
		text     string
		keyboard string // expected last button, empty for none
	}{
		{out: conversation.Outcome{Kind: conversation.KindUsage}, text: usageText},
		{out: conversation.Outcome{Kind: conversation.KindInvalidPrice}, text: invalidPriceText},
		{out: conversation.Outcome{Kind: conversation.KindChooseCategory, Draft: testDraft, Categories: []string{"Одежда"}}, text: "Выберите категорию", keyboard: "expense:cancel"},
		{out: conversation.Outcome{Kind: conversation.KindEmptyCategoryName}, text: emptyCategoryNameText, keyboard: "expense:cancel"},
		{out: conversation.Outcome{Kind: conversation.KindSaved, Draft: testDraft, Category: "Одежда", Date: "2025-09-21"}, text: "✅ Записано:"},
		{out: conversation.Outcome{Kind: conversation.KindCategoryFailed, Err: fail}, text: categoryRetryText, keyboard: "expense:cancel"},
		{out: conversation.Outcome{Kind: conversation.KindWriteFailed, Err: fail}, text: writeRetryText, keyboard: "expense:cancel"},
	}

	for _, tc := range tests {
		t.Run(string(tc.out.Kind), func(t *testing.T) {
			r, ok := messageReply(tc.out)
			if !ok {
				t.Fatalf("expected a reply")
			}
			if !strings.Contains(r.text, tc.text) {
				t.Fatalf("expected %q in %q", tc.text, r.text)
			}

			if tc.keyboard == "" {
				if r.markup != nil {
					t.Fatalf("expected no keyboard, got %+v", r.markup)
				}
				return
			}
			data := buttons(t, r.markup)
			if data[len(data)-1] != tc.keyboard {
				t.Fatalf("expected last button %q, got %v", tc.keyboard, data)
			}
		})
	}

	if _, ok := messageReply(conversation.Outcome{Kind: conversation.KindIgnored}); ok {
		t.Fatalf("ignored text must not be answered")
	}
}

func TestMessageReplyCategoryKeyboard(t *testing.T) {
	long := strings.Repeat("я", 40)
	r, _ := messageReply(conversation.Outcome{Kind: conversation.KindChooseCategory, Draft: testDraft, Categories: []string{"Одежда", long}})

	data := buttons(t, r.markup)
	if len(data) != 3 || data[0] != "cat:Одежда" {
		t.Fatalf("unexpected buttons %v", data)
	}
	if len(r.skipped) != 1 || r.skipped[0] != long {
		t.Fatalf("expected long category to be reported, got %v", r.skipped)
	}
}

func TestCallbackReply(t *testing.T) {
	fail := errors.New("notion: 500")
	categories := []string{"Одежда", "Еда"}

	tests := []struct {
		out     conversation.Outcome
		toast   string
		text    string
		buttons int
	}{
		{out: conversation.Outcome{Kind: conversation.KindSaved, Draft: testDraft, Category: "Одежда", Date: "2025-09-21"}, toast: categorySelectedToast("Одежда"), text: "2025-09-21"},
		{out: conversation.Outcome{Kind: conversation.KindNoDraft}, toast: toastNoDraft, text: noDraftText},
		{out: conversation.Outcome{Kind: conversation.KindAskCategoryName, Draft: testDraft}, text: askCategoryNameText, buttons: 1},
		{out: conversation.Outcome{Kind: conversation.KindCancelled}, toast: toastCancelled, text: cancelledText},
		{out: conversation.Outcome{Kind: conversation.KindCategoryFailed, Draft: testDraft, Categories: categories, Err: fail}, toast: toastCategoryFailed, text: selectRetryText, buttons: 4},
		{out: conversation.Outcome{Kind: conversation.KindWriteFailed, Draft: testDraft, Categories: categories, Err: fail}, toast: toastWriteFailed, text: selectRetryText, buttons: 4},
	}

	for _, tc := range tests {
		t.Run(string(tc.out.Kind), func(t *testing.T) {
			r := callbackReply(tc.out)
			if r.toast != tc.toast {
				t.Fatalf("expected toast %q, got %q", tc.toast, r.toast)
			}
			if r.text == "" || !strings.Contains(r.text, tc.text) {
				t.Fatalf("expected %q in edited text %q", tc.text, r.text)
			}

			if tc.buttons == 0 {
				if r.markup != nil {
					t.Fatalf("expected keyboard to be removed, got %+v", r.markup)
				}
				return
			}
			if data := buttons(t, r.markup); len(data) != tc.buttons {
				t.Fatalf("expected %d buttons, got %v", tc.buttons, data)
			}
		})
	}
}
