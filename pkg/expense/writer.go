package expense

import (
	"context"
	"time"

	"github.com/vmkteam/embedlog"
)

// WriteResult is the outcome of a single record write.
// A failed write is reported here and never returned as an error.
type WriteResult struct {
	Success bool
	Date    string // effective yyyy-mm-dd
	Err     error
}

// Writer creates expense records in a RecordStore.
type Writer struct {
	store RecordStore
	log   embedlog.Logger
	loc   *time.Location
	now   func() time.Time
}

func NewWriter(store RecordStore, log embedlog.Logger, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.UTC
	}

	return &Writer{
		store: store,
		log:   log,
		loc:   loc,
		now:   time.Now,
	}
}

// EffectiveDate returns the draft date in ISO form, or today in the writer's zone.
func (w *Writer) EffectiveDate(d Draft) string {
	if d.HasDate() {
		return ISODate(d.Date)
	}

	return Today(w.now(), w.loc)
}

// Write issues one create call for draft under category. It never retries.
func (w *Writer) Write(ctx context.Context, d Draft, category string) WriteResult {
	rec := Record{
		Name:     d.Name,
		Price:    d.Price,
		Category: category,
		Date:     w.EffectiveDate(d),
		Comment:  d.Comment,
	}

	w.log.Print(ctx, "creating expense record", "name", rec.Name, "price", rec.Price.String(), "category", rec.Category, "date", rec.Date)

	if err := w.store.CreateRecord(ctx, rec); err != nil {
		w.log.Error(ctx, "failed to create expense record", "err", err, "name", rec.Name, "price", rec.Price.String(), "category", rec.Category, "date", rec.Date, "comment", rec.Comment)
		return WriteResult{Date: rec.Date, Err: err}
	}

	expensesCreated.Inc()
	w.log.Print(ctx, "expense record created", "name", rec.Name, "category", rec.Category)

	return WriteResult{Success: true, Date: rec.Date}
}
