package telemetry

import (
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// ScanMetrics holds the operational counters for the audit engine
type ScanMetrics struct {
	ScansStarted   metric.Int64Counter
	ScansCompleted metric.Int64Counter
	BatchSyncs     metric.Int64Counter
	LogsAppended   metric.Int64Counter
}

// InitMetrics wires the OTEL meter provider to a Prometheus registry and
// registers the scan counters. The returned registry backs the /metrics
// scrape endpoint.
func InitMetrics() (*ScanMetrics, *promclient.Registry, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	metrics, err := NewScanMetrics(otel.Meter("github.com/azure-innovate/procheck"))
	if err != nil {
		return nil, nil, err
	}
	return metrics, registry, nil
}

// NewScanMetrics registers the scan counters on the given meter
func NewScanMetrics(meter metric.Meter) (*ScanMetrics, error) {
	m := &ScanMetrics{}
	var err error

	m.ScansStarted, err = meter.Int64Counter(
		"procheck.scans.started.total",
		metric.WithDescription("Total number of tenant audit scans started"),
		metric.WithUnit("scans"),
	)
	if err != nil {
		return nil, err
	}

	m.ScansCompleted, err = meter.Int64Counter(
		"procheck.scans.completed.total",
		metric.WithDescription("Total number of tenant audit scans completed"),
		metric.WithUnit("scans"),
	)
	if err != nil {
		return nil, err
	}

	m.BatchSyncs, err = meter.Int64Counter(
		"procheck.batch.syncs.total",
		metric.WithDescription("Total number of global audit syncs triggered"),
		metric.WithUnit("syncs"),
	)
	if err != nil {
		return nil, err
	}

	m.LogsAppended, err = meter.Int64Counter(
		"procheck.auditlog.appended.total",
		metric.WithDescription("Total number of audit log entries appended"),
		metric.WithUnit("entries"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
