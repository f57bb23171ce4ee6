// Package metrics records business operation metrics with OpenTelemetry and
// keeps them in a private Prometheus registry. The bootstrap layer has no
// network surface, so the registry is gathered and logged on shutdown instead
// of being scraped.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Provider manages the OpenTelemetry meter provider and Prometheus exporter.
type Provider struct {
	meterProvider *metric.MeterProvider
	exporter      *promexporter.Exporter
	registry      *prometheus.Registry
	namespace     string
}

// Sample is one gathered counter or histogram count.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// NewProvider creates a metrics provider backed by a private registry.
// namespace selects which metric families Snapshot reports.
func NewProvider(namespace string) (*Provider, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
	)

	return &Provider{
		meterProvider: meterProvider,
		exporter:      exporter,
		registry:      registry,
		namespace:     namespace,
	}, nil
}

// MeterProvider returns the OpenTelemetry meter provider for creating meters.
func (p *Provider) MeterProvider() *metric.MeterProvider {
	return p.meterProvider
}

// Snapshot gathers the registry and returns counter values and histogram
// sample counts of the namespace's metric families, sorted by name.
func (p *Provider) Snapshot() ([]Sample, error) {
	families, err := p.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}

	samples := []Sample{}
	for _, family := range families {
		if p.namespace != "" && !strings.HasPrefix(family.GetName(), p.namespace) {
			continue
		}
		for _, m := range family.GetMetric() {
			sample := Sample{Name: family.GetName(), Labels: labelMap(m.GetLabel())}
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				sample.Value = m.GetCounter().GetValue()
			case dto.MetricType_HISTOGRAM:
				sample.Name += "_count"
				sample.Value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			samples = append(samples, sample)
		}
	}

	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

// LogSnapshot writes every sample of Snapshot at debug level.
func (p *Provider) LogSnapshot(ctx context.Context, logger *slog.Logger) {
	samples, err := p.Snapshot()
	if err != nil {
		logger.WarnContext(ctx, "failed to collect metrics", slog.Any("error", err))
		return
	}

	for _, s := range samples {
		attrs := []any{slog.String("metric", s.Name), slog.Float64("value", s.Value)}
		for k, v := range s.Labels {
			attrs = append(attrs, slog.String(k, v))
		}
		logger.DebugContext(ctx, "metric", attrs...)
	}
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	labels := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}
