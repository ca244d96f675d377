package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/inventory"
	"github.com/oceanerp/backend/internal/domain/trade"
)

// ---------------------------------------------------------------------------
// Repository mocks shared by the handler tests. Handlers are tested over the
// real application services with mocked persistence and platform clients.
// ---------------------------------------------------------------------------

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindByProduct(ctx context.Context, productID int64) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockStockRepository) SetQuantity(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) Reserve(ctx context.Context, productID int64, quantity int) (bool, error) {
	args := m.Called(ctx, productID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockRepository) Release(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) ConsumeReserved(ctx context.Context, productID int64, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

type MockMappingRepository struct {
	mock.Mock
}

func (m *MockMappingRepository) FindByInternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, internalID int64) (*integration.Mapping, error) {
	args := m.Called(ctx, storefrontID, entityType, internalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindByExternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, externalID string) (*integration.Mapping, error) {
	args := m.Called(ctx, storefrontID, entityType, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Mapping), args.Error(1)
}

func (m *MockMappingRepository) FindProductMappings(ctx context.Context, productID int64) ([]integration.Mapping, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Mapping), args.Error(1)
}

func (m *MockMappingRepository) CountByType(ctx context.Context, storefrontID int64, entityType integration.EntityType) (int64, error) {
	args := m.Called(ctx, storefrontID, entityType)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMappingRepository) Upsert(ctx context.Context, mapping *integration.Mapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

func (m *MockMappingRepository) DeleteByInternal(ctx context.Context, storefrontID int64, entityType integration.EntityType, internalID int64) error {
	args := m.Called(ctx, storefrontID, entityType, internalID)
	return args.Error(0)
}

func (m *MockMappingRepository) DeleteByStorefront(ctx context.Context, storefrontID int64) error {
	args := m.Called(ctx, storefrontID)
	return args.Error(0)
}

type MockStorefrontRepository struct {
	mock.Mock
}

func (m *MockStorefrontRepository) FindByID(ctx context.Context, id int64) (*integration.Storefront, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Storefront), args.Error(1)
}

func (m *MockStorefrontRepository) FindActive(ctx context.Context) ([]integration.Storefront, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Storefront), args.Error(1)
}

func (m *MockStorefrontRepository) FindActiveByPlatform(ctx context.Context, platform integration.PlatformCode) ([]integration.Storefront, error) {
	args := m.Called(ctx, platform)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Storefront), args.Error(1)
}

func (m *MockStorefrontRepository) Save(ctx context.Context, storefront *integration.Storefront) error {
	args := m.Called(ctx, storefront)
	return args.Error(0)
}

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) FindByID(ctx context.Context, id int64) (*trade.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SalesOrder, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *trade.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) UpdateStatus(ctx context.Context, id int64, status trade.OrderStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) UpdateTracking(ctx context.Context, id int64, trackingNumber string) error {
	args := m.Called(ctx, id, trackingNumber)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) CountBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (int64, error) {
	args := m.Called(ctx, platform, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSalesOrderRepository) SumTotalBySourcePlatform(ctx context.Context, platform string, from, to time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, platform, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockShippingOrderRepository struct {
	mock.Mock
}

func (m *MockShippingOrderRepository) FindByOrderID(ctx context.Context, orderID int64) (*trade.ShippingOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.ShippingOrder), args.Error(1)
}

func (m *MockShippingOrderRepository) Upsert(ctx context.Context, shipping *trade.ShippingOrder) error {
	args := m.Called(ctx, shipping)
	return args.Error(0)
}

type MockSyncLogRepository struct {
	mock.Mock
}

func (m *MockSyncLogRepository) Append(ctx context.Context, log *integration.SyncLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockSyncLogRepository) FindRecent(ctx context.Context, integrationKey string, limit int) ([]integration.SyncLog, error) {
	args := m.Called(ctx, integrationKey, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.SyncLog), args.Error(1)
}

type MockSyncStateStore struct {
	mock.Mock
}

func (m *MockSyncStateStore) GetCursor(ctx context.Context, integrationKey string) (time.Time, error) {
	args := m.Called(ctx, integrationKey)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockSyncStateStore) SetCursor(ctx context.Context, integrationKey string, cursor time.Time) error {
	args := m.Called(ctx, integrationKey, cursor)
	return args.Error(0)
}

func (m *MockSyncStateStore) AcquireLock(ctx context.Context, integrationKey string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, integrationKey, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncStateStore) ReleaseLock(ctx context.Context, integrationKey string) error {
	args := m.Called(ctx, integrationKey)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// Platform client mocks
// ---------------------------------------------------------------------------

type MockMarketplaceClient struct {
	mock.Mock
	platform integration.PlatformCode
}

func (m *MockMarketplaceClient) PlatformCode() integration.PlatformCode {
	return m.platform
}

func (m *MockMarketplaceClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	args := m.Called(ctx, externalID, quantity)
	return args.Error(0)
}

func (m *MockMarketplaceClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	args := m.Called(ctx, externalOrderID)
	return args.Error(0)
}

func (m *MockMarketplaceClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	args := m.Called(ctx, externalOrderID, req)
	return args.Error(0)
}

func (m *MockMarketplaceClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	args := m.Called(ctx, externalOrderID, reason)
	return args.Error(0)
}

func (m *MockMarketplaceClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	args := m.Called(ctx, externalOrderID)
	return args.String(0), args.Error(1)
}

func (m *MockMarketplaceClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.PlatformOrder), args.Error(1)
}

func (m *MockMarketplaceClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PlatformOrder), args.Error(1)
}

func (m *MockMarketplaceClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ShopMetricsReport), args.Error(1)
}

func (m *MockMarketplaceClient) CountProducts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockChatClient struct {
	mock.Mock
}

func (m *MockChatClient) ListConversations(ctx context.Context, page int, unreadOnly bool) ([]integration.Conversation, error) {
	args := m.Called(ctx, page, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Conversation), args.Error(1)
}

func (m *MockChatClient) GetMessages(ctx context.Context, conversationID string, page int) ([]integration.ChatMessage, error) {
	args := m.Called(ctx, conversationID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ChatMessage), args.Error(1)
}

func (m *MockChatClient) SendMessage(ctx context.Context, conversationID string, text string) (*integration.ChatMessage, error) {
	args := m.Called(ctx, conversationID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ChatMessage), args.Error(1)
}

func (m *MockChatClient) MarkRead(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) ClientFor(storefront *integration.Storefront) (integration.MarketplaceClient, error) {
	args := m.Called(storefront)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.MarketplaceClient), args.Error(1)
}

func (m *MockClientFactory) ChatClientFor(storefront *integration.Storefront) (integration.ChatClient, error) {
	args := m.Called(storefront)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.ChatClient), args.Error(1)
}

// ---------------------------------------------------------------------------
// Analytics mocks
// ---------------------------------------------------------------------------

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) AggregateSalesByDay(ctx context.Context, from, to time.Time) ([]analytics.SalesTrendPoint, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.SalesTrendPoint), args.Error(1)
}

func (m *MockStatsReader) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]analytics.TopProduct, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.TopProduct), args.Error(1)
}

func (m *MockStatsReader) InventorySummary(ctx context.Context, lowStockBelow int) (*analytics.InventoryAnalytics, error) {
	args := m.Called(ctx, lowStockBelow)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.InventoryAnalytics), args.Error(1)
}

type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) UpsertDailyFact(ctx context.Context, fact *analytics.DailySalesFact) error {
	args := m.Called(ctx, fact)
	return args.Error(0)
}

func (m *MockWarehouseRepository) FindTrend(ctx context.Context, from, to time.Time) ([]analytics.SalesTrendPoint, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]analytics.SalesTrendPoint), args.Error(1)
}

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) GetPlatformMetrics(ctx context.Context, platform string, from, to time.Time) (*analytics.PlatformMetrics, error) {
	args := m.Called(ctx, platform, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.PlatformMetrics), args.Error(1)
}

func (m *MockReportCache) SetPlatformMetrics(ctx context.Context, metrics *analytics.PlatformMetrics, from, to time.Time, ttl time.Duration) error {
	args := m.Called(ctx, metrics, from, to, ttl)
	return args.Error(0)
}
