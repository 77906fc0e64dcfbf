package expense

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fakeRecordStore struct {
	records []Record
	err     error
}

func (s *fakeRecordStore) CreateRecord(ctx context.Context, rec Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func newTestWriter(store RecordStore, now time.Time) *Writer {
	loc, err := time.LoadLocation(DefaultLocation)
	if err != nil {
		loc = time.FixedZone("MSK", 3*60*60)
	}

	w := NewWriter(store, testLogger(), loc)
	w.now = func() time.Time { return now }
	return w
}

func TestWriterWriteToday(t *testing.T) {
	store := &fakeRecordStore{}
	now := time.Date(2025, 9, 21, 22, 30, 0, 0, time.UTC)
	w := newTestWriter(store, now)

	res := w.Write(context.Background(), Draft{Name: "Milk", Price: decimal.NewFromInt(80)}, "Groceries")
	if !res.Success || res.Err != nil {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Date != "2025-09-22" {
		t.Fatalf("expected today in Moscow, got %q", res.Date)
	}
	if len(store.records) != 1 {
		t.Fatalf("expected one create call, got %d", len(store.records))
	}

	rec := store.records[0]
	if rec.Name != "Milk" || !rec.Price.Equal(decimal.NewFromInt(80)) || rec.Category != "Groceries" || rec.Date != "2025-09-22" || rec.Comment != "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestWriterWriteExplicitDate(t *testing.T) {
	store := &fakeRecordStore{}
	w := newTestWriter(store, time.Now())

	res := w.Write(context.Background(), Draft{Name: "Coffee", Price: decimal.RequireFromString("150.5"), Date: "1.9.2025", Comment: "Note"}, "Cafe")
	if !res.Success || res.Date != "2025-09-01" {
		t.Fatalf("expected success with explicit date, got %+v", res)
	}
	if store.records[0].Comment != "Note" {
		t.Fatalf("expected comment to be passed, got %q", store.records[0].Comment)
	}
}

func TestWriterWriteFailure(t *testing.T) {
	storeErr := errors.New("validation_error")
	store := &fakeRecordStore{err: storeErr}
	w := newTestWriter(store, time.Now())

	res := w.Write(context.Background(), Draft{Name: "Coffee", Price: decimal.NewFromInt(1)}, "Cafe")
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !errors.Is(res.Err, storeErr) {
		t.Fatalf("expected store error in result, got %v", res.Err)
	}
}

func TestManagerComplete(t *testing.T) {
	categories := &fakeCategoryStore{names: []string{"Groceries"}}
	records := &fakeRecordStore{}
	clock := newFakeClock()
	now := time.Date(2025, 9, 21, 10, 0, 0, 0, time.UTC)

	m := NewManager(newTestCache(categories, clock), newTestWriter(records, now), testLogger())
	ctx := context.Background()
	m.Categories(ctx)

	res, err := m.Complete(ctx, Draft{Name: "Milk", Price: decimal.NewFromInt(80)}, "Groceries")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.Success || res.Date != "2025-09-21" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, appends := categories.calls(); appends != 0 {
		t.Fatalf("expected no category creation, got %d", appends)
	}
	if len(records.records) != 1 {
		t.Fatalf("expected one record, got %d", len(records.records))
	}
}

func TestManagerCompleteCategoryFailure(t *testing.T) {
	categories := &fakeCategoryStore{appendErr: errors.New("forbidden")}
	records := &fakeRecordStore{}
	m := NewManager(newTestCache(categories, newFakeClock()), newTestWriter(records, time.Now()), testLogger())

	_, err := m.Complete(context.Background(), Draft{Name: "Milk", Price: decimal.NewFromInt(80)}, "Pets")
	if !errors.Is(err, ErrCategoryCreationFailed) {
		t.Fatalf("expected category creation failure, got %v", err)
	}
	if len(records.records) != 0 {
		t.Fatalf("no record must be written when category creation fails")
	}
}
