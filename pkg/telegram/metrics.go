package telegram

import (
	"expensebot/pkg/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Telegram bot metrics
var (
	commandsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_processed_total",
			Help: "Total number of processed commands by type",
		},
		[]string{"command"}, // start, help, cancel
	)

	messagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_messages_processed_total",
			Help: "Total number of processed messages by outcome",
		},
		[]string{"type"}, // draft, category_name, ignored, invalid, unsupported
	)

	callbacksProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_callbacks_processed_total",
			Help: "Total number of processed callback queries by action",
		},
		[]string{"action"}, // category, new_category, cancel
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // category_failed, write_failed, send_message, edit_message, answer_callback
	)
)

// RestoreMetrics adds counter values saved by Prometheus before a restart.
func RestoreMetrics(s *services.MetricsSnapshot) {
	if s == nil {
		return
	}

	restore(commandsProcessed, s.CommandsProcessed)
	restore(messagesProcessed, s.MessagesProcessed)
	restore(callbacksProcessed, s.CallbacksProcessed)
	restore(errorsTotal, s.ErrorsTotal)
}

func restore(c *prometheus.CounterVec, values map[string]float64) {
	for label, v := range values {
		if label == "" || v <= 0 {
			continue
		}
		c.WithLabelValues(label).Add(v)
	}
}
