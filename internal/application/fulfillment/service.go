// Package fulfillment pushes order lifecycle actions from the ERP out to the
// owning marketplace: accept, ship, cancel, label retrieval, and the bulk
// variant the operations UI drives.
package fulfillment

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

// Service coordinates outbound fulfillment actions.
type Service struct {
	orderRepo      trade.SalesOrderRepository
	shippingRepo   trade.ShippingOrderRepository
	mappingRepo    integration.MappingRepository
	storefrontRepo integration.StorefrontRepository
	factory        integration.ClientFactory
	syncLogs       integration.SyncLogRepository
	logger         *zap.Logger
}

// NewService creates a new fulfillment service
func NewService(
	orderRepo trade.SalesOrderRepository,
	shippingRepo trade.ShippingOrderRepository,
	mappingRepo integration.MappingRepository,
	storefrontRepo integration.StorefrontRepository,
	factory integration.ClientFactory,
	syncLogs integration.SyncLogRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		orderRepo:      orderRepo,
		shippingRepo:   shippingRepo,
		mappingRepo:    mappingRepo,
		storefrontRepo: storefrontRepo,
		factory:        factory,
		syncLogs:       syncLogs,
		logger:         logger,
	}
}

// orderContext is everything resolved once per fulfillment action: the ERP
// order, the storefront it was imported from, the platform client, and the
// platform-side order identifier.
type orderContext struct {
	order      *trade.SalesOrder
	storefront *integration.Storefront
	client     integration.MarketplaceClient
	externalID string
}

// resolve loads the order and walks the platform's active storefronts until
// one holds an order mapping for it. An order without a mapping was never
// imported from a marketplace and cannot be fulfilled through one.
func (s *Service) resolve(ctx context.Context, orderID int64) (*orderContext, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.SourcePlatform == "" {
		return nil, integration.ErrOrderNotSynced
	}

	platform := integration.PlatformCode(order.SourcePlatform)
	storefronts, err := s.storefrontRepo.FindActiveByPlatform(ctx, platform)
	if err != nil {
		return nil, fmt.Errorf("failed to load storefronts: %w", err)
	}

	for i := range storefronts {
		storefront := &storefronts[i]
		mapping, err := s.mappingRepo.FindByInternal(ctx, storefront.ID, integration.EntityTypeOrder, orderID)
		if errors.Is(err, integration.ErrMappingNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve order mapping: %w", err)
		}

		client, err := s.factory.ClientFor(storefront)
		if err != nil {
			return nil, err
		}
		return &orderContext{
			order:      order,
			storefront: storefront,
			client:     client,
			externalID: mapping.ExternalID,
		}, nil
	}

	return nil, integration.ErrOrderNotSynced
}

// ---------------------------------------------------------------------------
// Single-order actions
// ---------------------------------------------------------------------------

// AcceptOrder acknowledges the order on its platform and moves the ERP order
// to CONFIRMED. Shopee and TikTok Shop auto-accept, so their adapters treat
// the platform call as a no-op; Tokopedia performs an explicit accept.
func (s *Service) AcceptOrder(ctx context.Context, orderID int64) (*integration.FulfillmentResult, error) {
	oc, err := s.resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &integration.FulfillmentResult{
		OrderID:  orderID,
		Platform: oc.storefront.Platform,
		Action:   "accept",
	}

	if err := oc.client.AcceptOrder(ctx, oc.externalID); err != nil {
		return s.platformFailure(ctx, oc, result, err), nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, trade.OrderStatusConfirmed); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	result.Success = true
	s.appendLog(ctx, oc, result)
	return result, nil
}

// ShipOrder marks the order shipped on its platform, then records the
// tracking number, the SHIPPED status, and the shipment row in the ERP.
func (s *Service) ShipOrder(ctx context.Context, orderID int64, trackingNumber, carrier string) (*integration.FulfillmentResult, error) {
	if trackingNumber == "" {
		return nil, shared.ErrInvalidInput
	}

	oc, err := s.resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &integration.FulfillmentResult{
		OrderID:  orderID,
		Platform: oc.storefront.Platform,
		Action:   "ship",
	}

	req := integration.ShipmentRequest{
		TrackingNumber:     trackingNumber,
		ShippingProviderID: oc.storefront.Config.ShippingProviderID,
	}
	if err := oc.client.ShipOrder(ctx, oc.externalID, req); err != nil {
		return s.platformFailure(ctx, oc, result, err), nil
	}

	if err := s.orderRepo.UpdateTracking(ctx, orderID, trackingNumber); err != nil {
		return nil, fmt.Errorf("failed to record tracking number: %w", err)
	}
	if err := s.orderRepo.UpdateStatus(ctx, orderID, trade.OrderStatusShipped); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	now := time.Now()
	shipping := &trade.ShippingOrder{
		OrderID:        orderID,
		TrackingNumber: trackingNumber,
		Carrier:        carrier,
		Status:         trade.ShippingStatusShipped,
		ShippedAt:      now,
	}
	if err := s.shippingRepo.Upsert(ctx, shipping); err != nil {
		return nil, fmt.Errorf("failed to upsert shipping order: %w", err)
	}

	result.Success = true
	s.appendLog(ctx, oc, result)
	return result, nil
}

// CancelOrder cancels the order on its platform and moves the ERP order to
// CANCELLED.
func (s *Service) CancelOrder(ctx context.Context, orderID int64, reason string) (*integration.FulfillmentResult, error) {
	oc, err := s.resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &integration.FulfillmentResult{
		OrderID:  orderID,
		Platform: oc.storefront.Platform,
		Action:   "cancel",
	}

	if err := oc.client.CancelOrder(ctx, oc.externalID, reason); err != nil {
		return s.platformFailure(ctx, oc, result, err), nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, trade.OrderStatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	result.Success = true
	s.appendLog(ctx, oc, result)
	return result, nil
}

// GetShippingLabel fetches the printable label URL where the platform exposes
// one. A platform without a label API is not an error: the result is
// successful with an empty URL and the caller falls back to its own document.
func (s *Service) GetShippingLabel(ctx context.Context, orderID int64) (*integration.LabelResult, error) {
	oc, err := s.resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &integration.LabelResult{
		OrderID:  orderID,
		Platform: oc.storefront.Platform,
	}

	url, err := oc.client.GetShippingLabel(ctx, oc.externalID)
	if errors.Is(err, integration.ErrCapabilityNotSupported) {
		result.Success = true
		return result, nil
	}
	if err != nil {
		result.Message = err.Error()
		return result, nil
	}

	result.Success = true
	result.LabelURL = url
	return result, nil
}

// ---------------------------------------------------------------------------
// Bulk fulfillment
// ---------------------------------------------------------------------------

// BulkOrderInput is one order inside a bulk fulfillment request.
type BulkOrderInput struct {
	// OrderID is the ERP sales order
	OrderID int64 `json:"orderId" binding:"required"`
	// TrackingNumber is required for the ship action
	TrackingNumber string `json:"trackingNumber,omitempty"`
	// Carrier names the carrier for the ship action
	Carrier string `json:"carrier,omitempty"`
	// Reason is the cancellation reason for the cancel action
	Reason string `json:"reason,omitempty"`
}

// Bulk actions
const (
	ActionAccept = "accept"
	ActionShip   = "ship"
	ActionCancel = "cancel"
)

// BulkFulfillOrders runs one action over many orders sequentially. Every
// order is attempted regardless of earlier failures; per-order failures are
// reported in the aggregate, never as a Go error.
func (s *Service) BulkFulfillOrders(ctx context.Context, action string, orders []BulkOrderInput) (*integration.BulkFulfillResult, error) {
	if action != ActionAccept && action != ActionShip && action != ActionCancel {
		return nil, shared.ErrInvalidInput
	}
	if len(orders) == 0 {
		return nil, shared.ErrInvalidInput
	}

	bulk := &integration.BulkFulfillResult{}
	for _, input := range orders {
		result, err := s.applyAction(ctx, action, input)
		if err != nil {
			// Resolution failures (unknown order, never synced) become a
			// failed entry so one bad ID never aborts the batch.
			result = &integration.FulfillmentResult{
				OrderID: input.OrderID,
				Action:  action,
				Message: err.Error(),
			}
		}
		bulk.Results = append(bulk.Results, *result)
		if result.Success {
			bulk.Succeeded++
		} else {
			bulk.Failed++
		}
	}
	return bulk, nil
}

func (s *Service) applyAction(ctx context.Context, action string, input BulkOrderInput) (*integration.FulfillmentResult, error) {
	switch action {
	case ActionShip:
		return s.ShipOrder(ctx, input.OrderID, input.TrackingNumber, input.Carrier)
	case ActionCancel:
		return s.CancelOrder(ctx, input.OrderID, input.Reason)
	default:
		return s.AcceptOrder(ctx, input.OrderID)
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// platformFailure finalizes a result for an expected platform-side failure
// and records it in the sync log.
func (s *Service) platformFailure(ctx context.Context, oc *orderContext, result *integration.FulfillmentResult, err error) *integration.FulfillmentResult {
	s.logger.Warn("Platform fulfillment call failed",
		zap.Int64("order_id", result.OrderID),
		zap.String("platform", result.Platform.String()),
		zap.String("action", result.Action),
		zap.Error(err),
	)
	result.Success = false
	result.Message = err.Error()
	s.appendLog(ctx, oc, result)
	return result
}

func (s *Service) appendLog(ctx context.Context, oc *orderContext, result *integration.FulfillmentResult) {
	status := "success"
	if !result.Success {
		status = "error"
	}
	details, err := json.Marshal(map[string]interface{}{
		"orderId":    result.OrderID,
		"externalId": oc.externalID,
		"action":     result.Action,
		"message":    result.Message,
	})
	if err != nil {
		details = []byte("{}")
	}
	log := &integration.SyncLog{
		ID:             uuid.New().String(),
		IntegrationKey: oc.storefront.IntegrationKey(),
		Action:         "fulfillment_" + result.Action,
		Status:         status,
		Details:        string(details),
		CreatedAt:      time.Now(),
	}
	if err := s.syncLogs.Append(ctx, log); err != nil {
		s.logger.Warn("Failed to append sync log", zap.String("action", result.Action), zap.Error(err))
	}
}
