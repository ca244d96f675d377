package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetrics holds the instruments recorded by the synchronization layer.
// All instruments carry the marketplace platform as an attribute so dashboards
// can break down sync health per channel.
type SyncMetrics struct {
	stockSyncTotal    metric.Int64Counter
	orderPullTotal    metric.Int64Counter
	ordersImported    metric.Int64Counter
	platformCallTime  metric.Float64Histogram
	syncFailuresTotal metric.Int64Counter
}

// NewSyncMetrics creates the sync instruments on the given meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	stockSyncTotal, err := meter.Int64Counter(
		"sync.stock.pushes",
		metric.WithDescription("Number of stock pushes attempted per platform"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock sync counter: %w", err)
	}

	orderPullTotal, err := meter.Int64Counter(
		"sync.order.pulls",
		metric.WithDescription("Number of order pull cycles per platform"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order pull counter: %w", err)
	}

	ordersImported, err := meter.Int64Counter(
		"sync.order.imported",
		metric.WithDescription("Number of marketplace orders imported into the ERP"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create orders imported counter: %w", err)
	}

	platformCallTime, err := meter.Float64Histogram(
		"sync.platform.call.duration",
		metric.WithDescription("Duration of marketplace API calls in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform call histogram: %w", err)
	}

	syncFailuresTotal, err := meter.Int64Counter(
		"sync.failures",
		metric.WithDescription("Number of failed sync operations per platform and operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync failure counter: %w", err)
	}

	return &SyncMetrics{
		stockSyncTotal:    stockSyncTotal,
		orderPullTotal:    orderPullTotal,
		ordersImported:    ordersImported,
		platformCallTime:  platformCallTime,
		syncFailuresTotal: syncFailuresTotal,
	}, nil
}

// RecordStockPush increments the stock push counter for a platform.
func (m *SyncMetrics) RecordStockPush(ctx context.Context, platform string, success bool) {
	m.stockSyncTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("platform", platform),
			attribute.Bool("success", success),
		),
	)
}

// RecordOrderPull increments the order pull counter for a platform.
func (m *SyncMetrics) RecordOrderPull(ctx context.Context, platform string, imported int64) {
	attrs := metric.WithAttributes(attribute.String("platform", platform))
	m.orderPullTotal.Add(ctx, 1, attrs)
	if imported > 0 {
		m.ordersImported.Add(ctx, imported, attrs)
	}
}

// RecordPlatformCall records the duration of one marketplace API call.
func (m *SyncMetrics) RecordPlatformCall(ctx context.Context, platform, operation string, elapsed time.Duration) {
	m.platformCallTime.Record(ctx, elapsed.Seconds(),
		metric.WithAttributes(
			attribute.String("platform", platform),
			attribute.String("operation", operation),
		),
	)
}

// RecordFailure increments the failure counter for a platform operation.
func (m *SyncMetrics) RecordFailure(ctx context.Context, platform, operation string) {
	m.syncFailuresTotal.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("platform", platform),
			attribute.String("operation", operation),
		),
	)
}
