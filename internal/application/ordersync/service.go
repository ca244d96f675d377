// Package ordersync pulls marketplace orders into the ERP. Imports are
// idempotent: every platform order is keyed by its mapping, so re-pulling a
// window updates or skips existing orders instead of duplicating them.
package ordersync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/shared"
	"github.com/oceanerp/backend/internal/domain/trade"
)

// ErrSyncInProgress indicates another pull already holds the storefront's
// sync lock.
var ErrSyncInProgress = errors.New("ordersync: sync already running for storefront")

// Options tunes the pull behavior.
type Options struct {
	// PullWindow is how far back the first pull of a storefront reaches
	PullWindow time.Duration
	// PageSize caps orders per platform listing call
	PageSize int
	// LockTTL bounds how long a crashed pull can block a storefront
	LockTTL time.Duration
}

// DefaultOptions returns the pull defaults.
func DefaultOptions() Options {
	return Options{
		PullWindow: 24 * time.Hour,
		PageSize:   50,
		LockTTL:    5 * time.Minute,
	}
}

// Service pulls orders per storefront.
type Service struct {
	storefrontRepo integration.StorefrontRepository
	mappingRepo    integration.MappingRepository
	orderRepo      trade.SalesOrderRepository
	syncState      integration.SyncStateStore
	factory        integration.ClientFactory
	syncLogs       integration.SyncLogRepository
	opts           Options
	logger         *zap.Logger
}

// NewService creates a new order sync service
func NewService(
	storefrontRepo integration.StorefrontRepository,
	mappingRepo integration.MappingRepository,
	orderRepo trade.SalesOrderRepository,
	syncState integration.SyncStateStore,
	factory integration.ClientFactory,
	syncLogs integration.SyncLogRepository,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.PullWindow <= 0 {
		opts.PullWindow = DefaultOptions().PullWindow
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = DefaultOptions().LockTTL
	}
	return &Service{
		storefrontRepo: storefrontRepo,
		mappingRepo:    mappingRepo,
		orderRepo:      orderRepo,
		syncState:      syncState,
		factory:        factory,
		syncLogs:       syncLogs,
		opts:           opts,
		logger:         logger,
	}
}

// ---------------------------------------------------------------------------
// Pull
// ---------------------------------------------------------------------------

// SyncOrdersFromPlatform pulls one storefront's recent orders and imports
// them. The storefront's sync lock guarantees a single concurrent pull; the
// cursor advances to the pull start time only after the run, so orders that
// land mid-pull are picked up next time.
func (s *Service) SyncOrdersFromPlatform(ctx context.Context, storefrontID int64) (*integration.OrderSyncResult, error) {
	storefront, err := s.storefrontRepo.FindByID(ctx, storefrontID)
	if err != nil {
		return nil, err
	}

	key := storefront.IntegrationKey()
	acquired, err := s.syncState.AcquireLock(ctx, key, s.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	if !acquired {
		return nil, ErrSyncInProgress
	}
	defer func() {
		if err := s.syncState.ReleaseLock(ctx, key); err != nil {
			s.logger.Warn("Failed to release sync lock", zap.String("integration_key", key), zap.Error(err))
		}
	}()

	client, err := s.factory.ClientFor(storefront)
	if err != nil {
		return nil, err
	}

	pullStart := time.Now()
	since, err := s.syncState.GetCursor(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync cursor: %w", err)
	}
	if since.IsZero() {
		since = pullStart.Add(-s.opts.PullWindow)
	}

	orders, err := client.PullOrders(ctx, integration.OrderPullRequest{
		Since:    since,
		PageSize: s.opts.PageSize,
	})
	if err != nil {
		s.appendLog(ctx, key, "order_sync", "error", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("failed to pull orders: %w", err)
	}

	result := &integration.OrderSyncResult{
		StorefrontID: storefront.ID,
		Platform:     storefront.Platform,
	}
	for i := range orders {
		s.importOrder(ctx, storefront, &orders[i], result)
	}

	if err := s.syncState.SetCursor(ctx, key, pullStart); err != nil {
		s.logger.Warn("Failed to advance sync cursor", zap.String("integration_key", key), zap.Error(err))
	}

	s.appendLog(ctx, key, "order_sync", "success", map[string]interface{}{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"errors":  len(result.Errors),
	})
	s.logger.Info("Order pull completed",
		zap.String("integration_key", key),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// SyncAllStorefronts pulls every active storefront sequentially. A storefront
// that fails outright (auth, lock, listing call) yields a result with a
// single error entry; the loop always continues.
func (s *Service) SyncAllStorefronts(ctx context.Context) ([]integration.OrderSyncResult, error) {
	storefronts, err := s.storefrontRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load storefronts: %w", err)
	}

	results := make([]integration.OrderSyncResult, 0, len(storefronts))
	for i := range storefronts {
		storefront := &storefronts[i]
		result, err := s.SyncOrdersFromPlatform(ctx, storefront.ID)
		if err != nil {
			s.logger.Warn("Storefront pull failed",
				zap.Int64("storefront_id", storefront.ID),
				zap.String("platform", storefront.Platform.String()),
				zap.Error(err),
			)
			results = append(results, integration.OrderSyncResult{
				StorefrontID: storefront.ID,
				Platform:     storefront.Platform,
				Errors: []integration.SyncError{{
					Platform:     storefront.Platform,
					StorefrontID: storefront.ID,
					Message:      err.Error(),
				}},
			})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// SyncSingleOrder fetches one platform order on demand and imports it,
// bypassing the cursor. Used when a webhook or an operator points at a
// specific order.
func (s *Service) SyncSingleOrder(ctx context.Context, storefrontID int64, externalOrderID string) (*integration.OrderSyncResult, error) {
	storefront, err := s.storefrontRepo.FindByID(ctx, storefrontID)
	if err != nil {
		return nil, err
	}

	client, err := s.factory.ClientFor(storefront)
	if err != nil {
		return nil, err
	}

	order, err := client.GetOrder(ctx, externalOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %s: %w", externalOrderID, err)
	}

	result := &integration.OrderSyncResult{
		StorefrontID: storefront.ID,
		Platform:     storefront.Platform,
	}
	s.importOrder(ctx, storefront, order, result)
	if len(result.Errors) > 0 {
		return result, fmt.Errorf("failed to import order %s: %s", externalOrderID, result.Errors[0].Message)
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Push
// ---------------------------------------------------------------------------

// UpdateOrderStatus pushes an ERP-side status change out to the platform the
// order was imported from, then records it locally. Only transitions the
// platform acts on trigger a call: CONFIRMED accepts the order, SHIPPED with
// a tracking number ships it, CANCELLED cancels it. Any other status is a
// local write plus the audit log.
func (s *Service) UpdateOrderStatus(ctx context.Context, storefrontID, orderID int64, newStatus trade.OrderStatus, trackingNumber string) error {
	if !newStatus.IsValid() {
		return shared.ErrInvalidInput
	}
	if newStatus == trade.OrderStatusShipped && trackingNumber == "" {
		return shared.ErrInvalidInput
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := order.TransitionTo(newStatus); err != nil {
		return err
	}

	storefront, err := s.storefrontRepo.FindByID(ctx, storefrontID)
	if err != nil {
		return err
	}
	mapping, err := s.mappingRepo.FindByInternal(ctx, storefront.ID, integration.EntityTypeOrder, orderID)
	if errors.Is(err, integration.ErrMappingNotFound) {
		return integration.ErrOrderNotSynced
	}
	if err != nil {
		return fmt.Errorf("failed to resolve order mapping: %w", err)
	}

	client, err := s.factory.ClientFor(storefront)
	if err != nil {
		return err
	}

	key := storefront.IntegrationKey()
	switch newStatus {
	case trade.OrderStatusConfirmed:
		err = client.AcceptOrder(ctx, mapping.ExternalID)
	case trade.OrderStatusShipped:
		err = client.ShipOrder(ctx, mapping.ExternalID, integration.ShipmentRequest{
			TrackingNumber:     trackingNumber,
			ShippingProviderID: storefront.Config.ShippingProviderID,
		})
	case trade.OrderStatusCancelled:
		err = client.CancelOrder(ctx, mapping.ExternalID, "cancelled by seller")
	}
	if err != nil {
		s.appendLog(ctx, key, "order_status_update", "error", map[string]interface{}{
			"order_id": orderID,
			"status":   newStatus.String(),
			"error":    err.Error(),
		})
		return fmt.Errorf("failed to push status to platform: %w", err)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if trackingNumber != "" && trackingNumber != order.TrackingNumber {
		if err := s.orderRepo.UpdateTracking(ctx, orderID, trackingNumber); err != nil {
			return fmt.Errorf("failed to update tracking number: %w", err)
		}
	}

	s.appendLog(ctx, key, "order_status_update", "success", map[string]interface{}{
		"order_id": orderID,
		"status":   newStatus.String(),
	})
	return nil
}

// ---------------------------------------------------------------------------
// Import
// ---------------------------------------------------------------------------

// importOrder imports one platform order, isolating its failure into the
// result so one bad order never aborts the pull.
func (s *Service) importOrder(ctx context.Context, storefront *integration.Storefront, po *integration.PlatformOrder, result *integration.OrderSyncResult) {
	mapping, err := s.mappingRepo.FindByExternal(ctx, storefront.ID, integration.EntityTypeOrder, po.ExternalID)
	switch {
	case errors.Is(err, integration.ErrMappingNotFound):
		if err := s.createOrder(ctx, storefront, po); err != nil {
			s.recordError(storefront, po, result, err)
			return
		}
		result.Created++
	case err != nil:
		s.recordError(storefront, po, result, err)
	default:
		updated, err := s.updateOrder(ctx, mapping.InternalID, po)
		if err != nil {
			s.recordError(storefront, po, result, err)
			return
		}
		if updated {
			result.Updated++
		} else {
			result.Skipped++
		}
	}
}

// createOrder inserts the ERP order and establishes its mapping.
func (s *Service) createOrder(ctx context.Context, storefront *integration.Storefront, po *integration.PlatformOrder) error {
	order := toSalesOrder(storefront, po)
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	mapping, err := integration.NewMapping(storefront.ID, storefront.Platform, integration.EntityTypeOrder, order.ID, po.ExternalID)
	if err != nil {
		return err
	}
	mapping.TouchSynced()
	if err := s.mappingRepo.Upsert(ctx, mapping); err != nil {
		return fmt.Errorf("failed to upsert order mapping: %w", err)
	}
	return nil
}

// updateOrder advances an already-imported order to the platform's current
// status. Stale or backwards poll results are skipped, not failed.
func (s *Service) updateOrder(ctx context.Context, orderID int64, po *integration.PlatformOrder) (bool, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}

	newStatus := trade.OrderStatus(po.Status)
	changed := false

	if newStatus != order.Status {
		if err := order.TransitionTo(newStatus); err == nil {
			if err := s.orderRepo.UpdateStatus(ctx, orderID, newStatus); err != nil {
				return false, fmt.Errorf("failed to update order status: %w", err)
			}
			changed = true
		}
	}

	if po.TrackingNumber != "" && po.TrackingNumber != order.TrackingNumber {
		if err := s.orderRepo.UpdateTracking(ctx, orderID, po.TrackingNumber); err != nil {
			return false, fmt.Errorf("failed to update tracking number: %w", err)
		}
		changed = true
	}

	return changed, nil
}

// toSalesOrder builds the ERP order row from the platform snapshot.
func toSalesOrder(storefront *integration.Storefront, po *integration.PlatformOrder) *trade.SalesOrder {
	items := make([]trade.SalesOrderItem, 0, len(po.Items))
	for _, item := range po.Items {
		items = append(items, trade.SalesOrderItem{
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	orderNumber := po.OrderNumber
	if orderNumber == "" {
		orderNumber = fmt.Sprintf("%s-%s", storefront.Platform.String(), po.ExternalID)
	}

	return &trade.SalesOrder{
		OrderNumber:     orderNumber,
		SourcePlatform:  storefront.Platform.String(),
		Status:          trade.OrderStatus(po.Status),
		Total:           po.Total,
		Currency:        po.Currency,
		CustomerName:    po.CustomerName,
		CustomerPhone:   po.CustomerPhone,
		ShippingAddress: po.ShippingAddress,
		TrackingNumber:  po.TrackingNumber,
		Items:           items,
		PlacedAt:        po.CreatedAt,
	}
}

func (s *Service) recordError(storefront *integration.Storefront, po *integration.PlatformOrder, result *integration.OrderSyncResult, err error) {
	s.logger.Warn("Order import failed",
		zap.String("external_id", po.ExternalID),
		zap.String("platform", storefront.Platform.String()),
		zap.Error(err),
	)
	result.Errors = append(result.Errors, integration.SyncError{
		Platform:     storefront.Platform,
		StorefrontID: storefront.ID,
		Message:      fmt.Sprintf("%s: %s", po.ExternalID, err.Error()),
	})
}

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
