package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// MetricsSnapshot holds counter values scraped before the last restart.
type MetricsSnapshot struct {
	CommandsProcessed  map[string]float64 // command -> count
	MessagesProcessed  map[string]float64 // type -> count
	CallbacksProcessed map[string]float64 // action -> count
	ErrorsTotal        map[string]float64 // type -> count
	RecordsCreated     float64
	CategoriesCreated  float64
}

// Logger is the subset of embedlog.Logger used here.
type Logger interface {
	Print(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
}

// PrometheusClient reads counters back from a Prometheus server.
type PrometheusClient struct {
	api    v1.API
	logger Logger
}

func NewPrometheusClient(prometheusURL string, logger Logger) (*PrometheusClient, error) {
	client, err := api.NewClient(api.Config{
		Address: prometheusURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus client: %w", err)
	}

	return &PrometheusClient{
		api:    v1.NewAPI(client),
		logger: logger,
	}, nil
}

type labeledQuery struct {
	metric string
	label  string
	dst    *map[string]float64
}

// RestoreMetrics queries Prometheus for the last known counter values.
func (p *PrometheusClient) RestoreMetrics(ctx context.Context) (*MetricsSnapshot, error) {
	s := &MetricsSnapshot{}

	labeled := []labeledQuery{
		{metric: "telegram_commands_processed_total", label: "command", dst: &s.CommandsProcessed},
		{metric: "telegram_messages_processed_total", label: "type", dst: &s.MessagesProcessed},
		{metric: "telegram_callbacks_processed_total", label: "action", dst: &s.CallbacksProcessed},
		{metric: "telegram_errors_total", label: "type", dst: &s.ErrorsTotal},
	}

	for _, q := range labeled {
		v, err := p.query(ctx, q.metric)
		if err != nil {
			return nil, err
		}
		*q.dst = vectorByLabel(v, q.label)
	}

	for metric, dst := range map[string]*float64{
		"expense_records_created_total":    &s.RecordsCreated,
		"expense_categories_created_total": &s.CategoriesCreated,
	} {
		v, err := p.query(ctx, metric)
		if err != nil {
			return nil, err
		}
		*dst = vectorSum(v)
	}

	return s, nil
}

// CheckHealth verifies Prometheus is accessible.
func (p *PrometheusClient) CheckHealth(ctx context.Context) error {
	_, err := p.api.Buildinfo(ctx)
	return err
}

func (p *PrometheusClient) query(ctx context.Context, metric string) (model.Value, error) {
	result, warnings, err := p.api.Query(ctx, metric, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", metric, err)
	}

	if len(warnings) > 0 {
		p.logger.Print(ctx, "prometheus query warnings", "metric", metric, "warnings", warnings)
	}

	return result, nil
}

// vectorByLabel groups vector samples by a label value.
func vectorByLabel(value model.Value, label string) map[string]float64 {
	result := make(map[string]float64)

	vector, ok := value.(model.Vector)
	if !ok {
		return result
	}

	for _, sample := range vector {
		result[string(sample.Metric[model.LabelName(label)])] += float64(sample.Value)
	}

	return result
}

func vectorSum(value model.Value) float64 {
	vector, ok := value.(model.Vector)
	if !ok {
		return 0
	}

	var sum float64
	for _, sample := range vector {
		sum += float64(sample.Value)
	}

	return sum
}
