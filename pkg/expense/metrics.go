package expense

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	categoryCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_category_cache_lookups_total",
			Help: "Total number of category list lookups by result",
		},
		[]string{"result"}, // hit, miss
	)

	categoryFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expense_category_fetch_errors_total",
			Help: "Total number of failed category list fetches",
		},
	)

	expensesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expense_records_created_total",
			Help: "Total number of expense records created",
		},
	)

	categoriesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expense_categories_created_total",
			Help: "Total number of categories created",
		},
	)
)

// RestoreMetrics adds record and category counters saved before a restart.
func RestoreMetrics(records, categories float64) {
	if records > 0 {
		expensesCreated.Add(records)
	}
	if categories > 0 {
		categoriesCreated.Add(categories)
	}
}
