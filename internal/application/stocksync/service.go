// Package stocksync pushes authoritative ERP stock quantities to every
// marketplace listing mapped to a product, and exposes the reservation
// primitives order intake relies on.
package stocksync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/inventory"
	"github.com/oceanerp/backend/internal/domain/shared"
)

// Service coordinates stock pushes across storefronts.
type Service struct {
	stockRepo      inventory.StockRepository
	mappingRepo    integration.MappingRepository
	storefrontRepo integration.StorefrontRepository
	factory        integration.ClientFactory
	syncLogs       integration.SyncLogRepository
	logger         *zap.Logger
}

// NewService creates a new stock sync service
func NewService(
	stockRepo inventory.StockRepository,
	mappingRepo integration.MappingRepository,
	storefrontRepo integration.StorefrontRepository,
	factory integration.ClientFactory,
	syncLogs integration.SyncLogRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		stockRepo:      stockRepo,
		mappingRepo:    mappingRepo,
		storefrontRepo: storefrontRepo,
		factory:        factory,
		syncLogs:       syncLogs,
		logger:         logger,
	}
}

// ---------------------------------------------------------------------------
// Stock push fan-out
// ---------------------------------------------------------------------------

// SyncStockToAllPlatforms pushes an absolute quantity to every storefront the
// product is mapped on, sequentially. A platform failure is recorded and the
// fan-out continues; it never aborts the run. The ERP stock row is written
// last and unconditionally, so the ERP stays authoritative even when every
// platform push failed.
func (s *Service) SyncStockToAllPlatforms(ctx context.Context, productID int64, quantity int) (*integration.StockSyncResult, error) {
	if productID <= 0 || quantity < 0 {
		return nil, shared.ErrInvalidInput
	}

	result := &integration.StockSyncResult{
		ProductID: productID,
		Quantity:  quantity,
	}

	mappings, err := s.mappingRepo.FindProductMappings(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product mappings: %w", err)
	}

	for i := range mappings {
		mapping := &mappings[i]
		if err := s.pushToStorefront(ctx, mapping, quantity); err != nil {
			s.logger.Warn("Stock push failed",
				zap.Int64("product_id", productID),
				zap.String("platform", mapping.Platform.String()),
				zap.Int64("storefront_id", mapping.StorefrontID),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, integration.SyncError{
				Platform:     mapping.Platform,
				StorefrontID: mapping.StorefrontID,
				Message:      err.Error(),
			})
			continue
		}
		result.Synced = append(result.Synced, mapping.Platform)
	}

	// ERP write last, always: the platforms mirror the ERP, never the reverse.
	if err := s.stockRepo.SetQuantity(ctx, productID, quantity); err != nil {
		return nil, fmt.Errorf("failed to write stock level: %w", err)
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// pushToStorefront pushes one quantity update through one mapping and records
// the attempt in the sync log.
func (s *Service) pushToStorefront(ctx context.Context, mapping *integration.Mapping, quantity int) error {
	storefront, err := s.storefrontRepo.FindByID(ctx, mapping.StorefrontID)
	if err != nil {
		return fmt.Errorf("failed to load storefront %d: %w", mapping.StorefrontID, err)
	}

	client, err := s.factory.ClientFor(storefront)
	if err != nil {
		return err
	}

	if err := client.UpdateStock(ctx, mapping.ExternalID, quantity); err != nil {
		s.appendLog(ctx, mapping.IntegrationKey(), "stock_sync", "error", map[string]interface{}{
			"productId":  mapping.InternalID,
			"externalId": mapping.ExternalID,
			"quantity":   quantity,
			"error":      err.Error(),
		})
		return err
	}

	mapping.TouchSynced()
	if err := s.mappingRepo.Upsert(ctx, mapping); err != nil {
		s.logger.Warn("Failed to touch mapping after stock push",
			zap.Int64("mapping_id", mapping.ID),
			zap.Error(err),
		)
	}

	s.appendLog(ctx, mapping.IntegrationKey(), "stock_sync", "success", map[string]interface{}{
		"productId":  mapping.InternalID,
		"externalId": mapping.ExternalID,
		"quantity":   quantity,
	})
	return nil
}

// ---------------------------------------------------------------------------
// Reservations
// ---------------------------------------------------------------------------

// ReserveStock atomically holds quantity for an order. Returns false with a
// nil error when stock is insufficient; insufficiency is an expected outcome,
// not a failure.
func (s *Service) ReserveStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	if productID <= 0 || quantity <= 0 {
		return false, shared.ErrInvalidInput
	}
	return s.stockRepo.Reserve(ctx, productID, quantity)
}

// ReleaseStock returns previously reserved quantity to sellable stock.
func (s *Service) ReleaseStock(ctx context.Context, productID int64, quantity int) error {
	if productID <= 0 || quantity <= 0 {
		return shared.ErrInvalidInput
	}
	return s.stockRepo.Release(ctx, productID, quantity)
}

// GetStockLevel returns the ERP stock row for a product.
func (s *Service) GetStockLevel(ctx context.Context, productID int64) (*inventory.StockLevel, error) {
	if productID <= 0 {
		return nil, shared.ErrInvalidInput
	}
	return s.stockRepo.FindByProduct(ctx, productID)
}

// appendLog writes a sync audit record. Audit failures are logged and
// swallowed; they never fail the sync itself.
func (s *Service) appendLog(ctx context.Context, integrationKey, action, status string, details map[string]interface{}) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}
	log := &integration.SyncLog{
		ID:             uuid.New().String(),
		IntegrationKey: integrationKey,
		Action:         action,
		Status:         status,
		Details:        string(payload),
		CreatedAt:      time.Now(),
	}
	if err := s.syncLogs.Append(ctx, log); err != nil {
		s.logger.Warn("Failed to append sync log", zap.String("action", action), zap.Error(err))
	}
}
