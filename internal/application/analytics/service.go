// Package analytics assembles cross-platform sales reports. TikTok Shop
// serves native shop metrics; every other platform is aggregated from the
// orders already imported into the ERP, so all platforms report in the same
// shape.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/oceanerp/backend/internal/domain/trade"
)

// Options tunes reporting behavior.
type Options struct {
	// LowStockThreshold is the inventory quantity at or below which a product
	// counts as low stock
	LowStockThreshold int
	// MetricsCacheTTL is how long an assembled platform snapshot is served
	// from cache before the platform is asked again
	MetricsCacheTTL time.Duration
}

// DefaultOptions returns the reporting defaults.
func DefaultOptions() Options {
	return Options{
		LowStockThreshold: 5,
		MetricsCacheTTL:   15 * time.Minute,
	}
}

// Service assembles reports and maintains the daily sales warehouse.
type Service struct {
	storefrontRepo integration.StorefrontRepository
	mappingRepo    integration.MappingRepository
	orderRepo      trade.SalesOrderRepository
	statsReader    analytics.StatsReader
	warehouseRepo  analytics.WarehouseRepository
	reportCache    analytics.ReportCache
	factory        integration.ClientFactory
	opts           Options
	logger         *zap.Logger
}

// NewService creates a new analytics service
func NewService(
	storefrontRepo integration.StorefrontRepository,
	mappingRepo integration.MappingRepository,
	orderRepo trade.SalesOrderRepository,
	statsReader analytics.StatsReader,
	warehouseRepo analytics.WarehouseRepository,
	reportCache analytics.ReportCache,
	factory integration.ClientFactory,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.LowStockThreshold <= 0 {
		opts.LowStockThreshold = DefaultOptions().LowStockThreshold
	}
	if opts.MetricsCacheTTL <= 0 {
		opts.MetricsCacheTTL = DefaultOptions().MetricsCacheTTL
	}
	return &Service{
		storefrontRepo: storefrontRepo,
		mappingRepo:    mappingRepo,
		orderRepo:      orderRepo,
		statsReader:    statsReader,
		warehouseRepo:  warehouseRepo,
		reportCache:    reportCache,
		factory:        factory,
		opts:           opts,
		logger:         logger,
	}
}

// ---------------------------------------------------------------------------
// Platform metrics
// ---------------------------------------------------------------------------

// GetPlatformMetrics assembles one platform's snapshot for a reporting
// window. A platform with a native analytics API (TikTok Shop) is asked
// directly; the rest are aggregated from imported orders. Both paths produce
// the same shape, so consumers never care where the numbers came from.
func (s *Service) GetPlatformMetrics(ctx context.Context, platform integration.PlatformCode, from, to time.Time) (*analytics.PlatformMetrics, error) {
	if !platform.IsValid() {
		return nil, shared.ErrInvalidInput
	}

	if cached, err := s.reportCache.GetPlatformMetrics(ctx, platform.String(), from, to); err == nil {
		return cached, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Report cache read failed", zap.String("platform", platform.String()), zap.Error(err))
	}

	storefronts, err := s.storefrontRepo.FindActiveByPlatform(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to load storefronts: %w", err)
	}
	if len(storefronts) == 0 {
		return nil, integration.ErrStorefrontNotFound
	}

	metrics := s.nativeMetrics(ctx, &storefronts[0], from, to)
	if metrics == nil {
		metrics, err = s.fallbackMetrics(ctx, platform, storefronts, from, to)
		if err != nil {
			return nil, err
		}
	}

	metrics.ComputeAverage()

	if err := s.reportCache.SetPlatformMetrics(ctx, metrics, from, to, s.opts.MetricsCacheTTL); err != nil {
		s.logger.Warn("Report cache write failed", zap.String("platform", platform.String()), zap.Error(err))
	}
	return metrics, nil
}

// nativeMetrics tries the platform's own analytics API. Returns nil whenever
// the platform has no such API or the call fails; the caller falls back to
// ERP aggregation either way.
func (s *Service) nativeMetrics(ctx context.Context, storefront *integration.Storefront, from, to time.Time) *analytics.PlatformMetrics {
	client, err := s.factory.ClientFor(storefront)
	if err != nil {
		s.logger.Warn("Failed to build platform client for analytics",
			zap.Int64("storefront_id", storefront.ID), zap.Error(err))
		return nil
	}

	report, err := client.GetShopMetrics(ctx, from, to)
	if err != nil {
		if !errors.Is(err, integration.ErrCapabilityNotSupported) {
			s.logger.Warn("Native analytics call failed",
				zap.String("platform", storefront.Platform.String()), zap.Error(err))
		}
		return nil
	}

	metrics := &analytics.PlatformMetrics{
		Platform:     storefront.Platform.String(),
		TotalOrders:  report.TotalOrders,
		TotalRevenue: report.TotalRevenue,
		Native:       true,
	}

	if count, err := client.CountProducts(ctx); err == nil {
		metrics.TotalProducts = count
	} else if mapped, merr := s.mappingRepo.CountByType(ctx, storefront.ID, integration.EntityTypeProduct); merr == nil {
		metrics.TotalProducts = mapped
	}
	return metrics
}

// fallbackMetrics aggregates imported orders and product mappings for
// platforms without a native analytics API.
func (s *Service) fallbackMetrics(ctx context.Context, platform integration.PlatformCode, storefronts []integration.Storefront, from, to time.Time) (*analytics.PlatformMetrics, error) {
	orders, err := s.orderRepo.CountBySourcePlatform(ctx, platform.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to count platform orders: %w", err)
	}
	revenue, err := s.orderRepo.SumTotalBySourcePlatform(ctx, platform.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum platform revenue: %w", err)
	}

	var products int64
	for i := range storefronts {
		count, err := s.mappingRepo.CountByType(ctx, storefronts[i].ID, integration.EntityTypeProduct)
		if err != nil {
			return nil, fmt.Errorf("failed to count product mappings: %w", err)
		}
		products += count
	}

	return &analytics.PlatformMetrics{
		Platform:      platform.String(),
		TotalOrders:   orders,
		TotalRevenue:  revenue,
		TotalProducts: products,
	}, nil
}

// GetComparativeAnalytics assembles the snapshot for every platform with an
// active storefront. A platform that fails is skipped with a log line; the
// report ships with whatever platforms answered.
func (s *Service) GetComparativeAnalytics(ctx context.Context, from, to time.Time) ([]analytics.PlatformMetrics, error) {
	storefronts, err := s.storefrontRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load storefronts: %w", err)
	}

	seen := make(map[integration.PlatformCode]bool)
	report := make([]analytics.PlatformMetrics, 0, 3)
	for i := range storefronts {
		platform := storefronts[i].Platform
		if seen[platform] {
			continue
		}
		seen[platform] = true

		metrics, err := s.GetPlatformMetrics(ctx, platform, from, to)
		if err != nil {
			s.logger.Warn("Skipping platform in comparative report",
				zap.String("platform", platform.String()), zap.Error(err))
			continue
		}
		report = append(report, *metrics)
	}
	return report, nil
}

// ---------------------------------------------------------------------------
// Warehouse sync
// ---------------------------------------------------------------------------

// SyncSalesToWarehouse rebuilds the daily sales facts for a window from the
// imported orders. Facts are overwrite-upserted on (date, platform), so
// re-running any window converges instead of double counting. Returns the
// number of facts written.
func (s *Service) SyncSalesToWarehouse(ctx context.Context, from, to time.Time) (int, error) {
	if from.IsZero() || !to.After(from) {
		return 0, shared.ErrInvalidInput
	}

	rows, err := s.statsReader.AggregateSalesByDay(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate daily sales: %w", err)
	}

	written := 0
	for i := range rows {
		fact := analytics.NewDailySalesFact(rows[i])
		if err := s.warehouseRepo.UpsertDailyFact(ctx, fact); err != nil {
			return written, fmt.Errorf("failed to upsert daily fact %s/%s: %w",
				rows[i].Date.Format("2006-01-02"), rows[i].Platform, err)
		}
		written++
	}

	s.logger.Info("Warehouse sync completed",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("facts", written),
	)
	return written, nil
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// GetSalesTrend returns the per-day, per-platform sales facts in a window.
func (s *Service) GetSalesTrend(ctx context.Context, from, to time.Time) ([]analytics.SalesTrendPoint, error) {
	if from.IsZero() || !to.After(from) {
		return nil, shared.ErrInvalidInput
	}
	return s.warehouseRepo.FindTrend(ctx, from, to)
}

// GetTopSellingProducts ranks products by units sold in a window.
func (s *Service) GetTopSellingProducts(ctx context.Context, from, to time.Time, limit int) ([]analytics.TopProduct, error) {
	if from.IsZero() || !to.After(from) {
		return nil, shared.ErrInvalidInput
	}
	return s.statsReader.TopProducts(ctx, from, to, limit)
}

// GetInventoryAnalytics returns the current stock position snapshot.
func (s *Service) GetInventoryAnalytics(ctx context.Context) (*analytics.InventoryAnalytics, error) {
	return s.statsReader.InventorySummary(ctx, s.opts.LowStockThreshold)
}
