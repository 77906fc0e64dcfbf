package expense

import (
	"context"

	"github.com/shopspring/decimal"
)

// CategoryStore is the remote source of expense categories.
type CategoryStore interface {
	// Categories returns category names in remote order.
	Categories(ctx context.Context) ([]string, error)
	// AppendCategory adds a new option to the remote category set.
	AppendCategory(ctx context.Context, name string) error
}

// RecordStore persists finished expenses.
type RecordStore interface {
	CreateRecord(ctx context.Context, rec Record) error
}

// Record is an expense ready to be sent to the remote store.
type Record struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Date     string // yyyy-mm-dd
	Comment  string
}
