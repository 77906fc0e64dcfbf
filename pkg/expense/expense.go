package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/vmkteam/embedlog"
)

// Manager ties the category cache and the record writer together.
type Manager struct {
	categories *CategoryCache
	writer     *Writer
	log        embedlog.Logger
}

func NewManager(categories *CategoryCache, writer *Writer, log embedlog.Logger) *Manager {
	return &Manager{
		categories: categories,
		writer:     writer,
		log:        log,
	}
}

// NewManagerFromStores builds the cache and writer over the given stores.
func NewManagerFromStores(cs CategoryStore, rs RecordStore, log embedlog.Logger, loc *time.Location, opts ...CacheOption) *Manager {
	return NewManager(NewCategoryCache(cs, log, opts...), NewWriter(rs, log, loc), log)
}

// Categories returns the category list for display.
func (m *Manager) Categories(ctx context.Context) []string {
	return m.categories.List(ctx)
}

// Cache exposes the category cache for maintenance endpoints.
func (m *Manager) Cache() *CategoryCache {
	return m.categories
}

// Complete ensures category exists and writes the record.
//
// A category creation failure is returned as error and nothing is written.
// A write failure is reported in WriteResult with a nil error.
func (m *Manager) Complete(ctx context.Context, d Draft, category string) (WriteResult, error) {
	if err := m.categories.Ensure(ctx, category); err != nil {
		return WriteResult{}, fmt.Errorf("ensure category: %w", err)
	}

	return m.writer.Write(ctx, d, category), nil
}
