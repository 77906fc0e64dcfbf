package conversation

import (
	"context"
	"errors"
	"strings"

	"expensebot/pkg/expense"

	"github.com/vmkteam/embedlog"
)

// Kind tells the transport what to reply.
type Kind string

const (
	KindIgnored           Kind = "ignored"
	KindUsage             Kind = "usage"
	KindInvalidPrice      Kind = "invalid_price"
	KindChooseCategory    Kind = "choose_category"
	KindNoDraft           Kind = "no_draft"
	KindAskCategoryName   Kind = "ask_category_name"
	KindEmptyCategoryName Kind = "empty_category_name"
	KindSaved             Kind = "saved"
	KindWriteFailed       Kind = "write_failed"
	KindCategoryFailed    Kind = "category_failed"
	KindCancelled         Kind = "cancelled"
)

// Outcome is the result of one transition.
type Outcome struct {
	Kind       Kind
	Draft      expense.Draft
	Categories []string // set when categories must be offered again
	Category   string
	Date       string // effective date of a saved record
	Err        error
}

// Failed reports whether the outcome is one of the save failures.
func (o Outcome) Failed() bool {
	return o.Kind == KindWriteFailed || o.Kind == KindCategoryFailed
}

// Completer lists categories and stores a draft under a category.
type Completer interface {
	Categories(ctx context.Context) []string
	Complete(ctx context.Context, d expense.Draft, category string) (expense.WriteResult, error)
}

// Flow is the per-user expense state machine:
//
//	idle --text--> awaiting category --button--> idle
//	awaiting category --new category--> awaiting new category name --text--> idle
//	any --cancel--> idle
//
// A failed save keeps the draft and the new category flag, so the user may
// pick a category again, send another name, or cancel.
type Flow struct {
	sessions *Sessions
	expenses Completer
	logger   embedlog.Logger
}

func NewFlow(sessions *Sessions, expenses Completer, logger embedlog.Logger) *Flow {
	return &Flow{
		sessions: sessions,
		expenses: expenses,
		logger:   logger,
	}
}

// Sessions returns the underlying session manager.
func (f *Flow) Sessions() *Sessions {
	return f.sessions
}

// HandleText handles a plain text message.
func (f *Flow) HandleText(ctx context.Context, userID int64, text string) Outcome {
	sess := f.sessions.Get(userID)

	switch sess.State() {
	case StateAwaitingNewCategoryName:
		return f.createCategory(ctx, userID, sess.Draft, text)
	case StateAwaitingCategory:
		f.logger.Print(ctx, "draft is pending, text ignored", "user_id", userID)
		return Outcome{Kind: KindIgnored, Draft: *sess.Draft}
	}

	draft, err := expense.Parse(text)
	if err != nil {
		f.logger.Print(ctx, "invalid expense input", "user_id", userID, "err", err)
		if errors.Is(err, expense.ErrInvalidPrice) {
			return Outcome{Kind: KindInvalidPrice, Err: err}
		}
		return Outcome{Kind: KindUsage, Err: err}
	}

	if !f.sessions.Start(userID, *draft) {
		f.logger.Print(ctx, "draft is pending, text ignored", "user_id", userID)
		return Outcome{Kind: KindIgnored, Draft: f.sessions.draft(userID)}
	}

	return Outcome{
		Kind:       KindChooseCategory,
		Draft:      *draft,
		Categories: f.expenses.Categories(ctx),
	}
}

// SelectCategory stores the pending draft under an existing category.
func (f *Flow) SelectCategory(ctx context.Context, userID int64, category string) Outcome {
	sess := f.sessions.Get(userID)
	if sess.Draft == nil {
		f.logger.Print(ctx, "category selected without draft", "user_id", userID, "category", category)
		return Outcome{Kind: KindNoDraft, Category: category}
	}

	f.logger.Print(ctx, "category selected", "user_id", userID, "category", category)

	out := f.complete(ctx, userID, sess.Draft, category)
	if out.Failed() {
		out.Categories = f.expenses.Categories(ctx)
	}

	return out
}

// RequestNewCategory switches the user to typing a new category name.
func (f *Flow) RequestNewCategory(ctx context.Context, userID int64) Outcome {
	if !f.sessions.AwaitNewCategory(userID) {
		return Outcome{Kind: KindNoDraft}
	}

	f.logger.Print(ctx, "awaiting new category name", "user_id", userID)
	return Outcome{Kind: KindAskCategoryName, Draft: f.sessions.draft(userID)}
}

// Cancel drops any pending draft.
func (f *Flow) Cancel(ctx context.Context, userID int64) Outcome {
	f.sessions.Clear(userID)
	f.logger.Print(ctx, "expense input cancelled", "user_id", userID)

	return Outcome{Kind: KindCancelled}
}

func (f *Flow) createCategory(ctx context.Context, userID int64, draft *expense.Draft, text string) Outcome {
	name := strings.TrimSpace(text)
	if name == "" {
		return Outcome{Kind: KindEmptyCategoryName, Draft: *draft}
	}

	return f.complete(ctx, userID, draft, name)
}

// complete stores draft, the session is cleared only if nothing replaced the draft during the write.
func (f *Flow) complete(ctx context.Context, userID int64, draft *expense.Draft, category string) Outcome {
	out := Outcome{Draft: *draft, Category: category}

	res, err := f.expenses.Complete(ctx, *draft, category)
	if err != nil {
		f.logger.Error(ctx, "failed to ensure category", "user_id", userID, "category", category, "err", err)
		out.Kind, out.Err = KindCategoryFailed, err
		return out
	}

	if !res.Success {
		f.logger.Error(ctx, "failed to save expense", "user_id", userID, "category", category, "err", res.Err)
		out.Kind, out.Err = KindWriteFailed, res.Err
		return out
	}

	if !f.sessions.ClearDraft(userID, draft) {
		f.logger.Print(ctx, "session changed during save, kept", "user_id", userID)
	}

	out.Kind, out.Date = KindSaved, res.Date
	return out
}
