package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	analyticsapp "github.com/oceanerp/backend/internal/application/analytics"
	"github.com/oceanerp/backend/internal/domain/analytics"
	"github.com/oceanerp/backend/internal/domain/integration"
	"github.com/oceanerp/backend/internal/domain/shared"
)

type analyticsTestMocks struct {
	storefrontRepo *MockStorefrontRepository
	mappingRepo    *MockMappingRepository
	orderRepo      *MockSalesOrderRepository
	statsReader    *MockStatsReader
	warehouseRepo  *MockWarehouseRepository
	reportCache    *MockReportCache
	factory        *MockClientFactory
}

func setupAnalyticsTestRouter() (*gin.Engine, *analyticsTestMocks) {
	m := &analyticsTestMocks{
		storefrontRepo: new(MockStorefrontRepository),
		mappingRepo:    new(MockMappingRepository),
		orderRepo:      new(MockSalesOrderRepository),
		statsReader:    new(MockStatsReader),
		warehouseRepo:  new(MockWarehouseRepository),
		reportCache:    new(MockReportCache),
		factory:        new(MockClientFactory),
	}
	service := analyticsapp.NewService(m.storefrontRepo, m.mappingRepo, m.orderRepo, m.statsReader,
		m.warehouseRepo, m.reportCache, m.factory, analyticsapp.DefaultOptions(), zap.NewNop())
	engine := newTestRouter(NewAnalyticsHandler(service))
	return engine, m
}

func TestGetPlatformMetricsEndpoint(t *testing.T) {
	t.Run("serves a cached snapshot", func(t *testing.T) {
		engine, m := setupAnalyticsTestRouter()
		cached := &analytics.PlatformMetrics{Platform: "shopee", TotalOrders: 12, TotalRevenue: decimal.NewFromInt(600)}
		m.reportCache.On("GetPlatformMetrics", mock.Anything, "shopee", mock.Anything, mock.Anything).Return(cached, nil)

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/platforms/shopee", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		body := resp.Data.(map[string]any)
		assert.Equal(t, "shopee", body["platform"])
	})

	t.Run("rejects an unknown platform", func(t *testing.T) {
		engine, _ := setupAnalyticsTestRouter()

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/platforms/amazon", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("responds 404 when the platform has no active storefront", func(t *testing.T) {
		engine, m := setupAnalyticsTestRouter()
		m.reportCache.On("GetPlatformMetrics", mock.Anything, "tiktok", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
		m.storefrontRepo.On("FindActiveByPlatform", mock.Anything, integration.PlatformTikTok).
			Return([]integration.Storefront{}, nil)

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/platforms/tiktok", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("rejects an inverted window", func(t *testing.T) {
		engine, _ := setupAnalyticsTestRouter()

		w := performRequest(engine, http.MethodGet,
			"/api/v1/analytics/platforms/shopee?from=2026-04-01&to=2026-03-01", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetSalesTrendEndpoint(t *testing.T) {
	t.Run("returns warehouse facts", func(t *testing.T) {
		engine, m := setupAnalyticsTestRouter()
		m.warehouseRepo.On("FindTrend", mock.Anything, mock.Anything, mock.Anything).
			Return([]analytics.SalesTrendPoint{}, nil)

		w := performRequest(engine, http.MethodGet,
			"/api/v1/analytics/trend?from=2026-03-01&to=2026-04-01", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		engine, _ := setupAnalyticsTestRouter()

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/trend?from=yesterday", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTopSellingProductsEndpoint(t *testing.T) {
	t.Run("passes the limit through", func(t *testing.T) {
		engine, m := setupAnalyticsTestRouter()
		m.statsReader.On("TopProducts", mock.Anything, mock.Anything, mock.Anything, 5).
			Return([]analytics.TopProduct{}, nil)

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/top-products?limit=5", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		m.statsReader.AssertExpectations(t)
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		engine, _ := setupAnalyticsTestRouter()

		w := performRequest(engine, http.MethodGet, "/api/v1/analytics/top-products?limit=many", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetInventoryAnalyticsEndpoint(t *testing.T) {
	engine, m := setupAnalyticsTestRouter()
	m.statsReader.On("InventorySummary", mock.Anything, 5).
		Return(&analytics.InventoryAnalytics{}, nil)

	w := performRequest(engine, http.MethodGet, "/api/v1/analytics/inventory", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	m.statsReader.AssertExpectations(t)
}

func TestSyncWarehouseEndpoint(t *testing.T) {
	t.Run("rebuilds facts and reports the count", func(t *testing.T) {
		engine, m := setupAnalyticsTestRouter()
		rows := []analytics.SalesTrendPoint{
			{Platform: "shopee", Orders: 3, Revenue: decimal.NewFromInt(150)},
			{Platform: "tiktok", Orders: 1, Revenue: decimal.NewFromInt(90)},
		}
		m.statsReader.On("AggregateSalesByDay", mock.Anything, mock.Anything, mock.Anything).Return(rows, nil)
		m.warehouseRepo.On("UpsertDailyFact", mock.Anything, mock.Anything).Return(nil).Twice()

		w := performRequest(engine, http.MethodPost, "/api/v1/analytics/warehouse-sync",
			gin.H{"from": "2026-03-01", "to": "2026-04-01"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		body := resp.Data.(map[string]any)
		assert.Equal(t, float64(2), body["factsWritten"])
		m.warehouseRepo.AssertExpectations(t)
	})

	t.Run("rejects a missing window", func(t *testing.T) {
		engine, _ := setupAnalyticsTestRouter()

		w := performRequest(engine, http.MethodPost, "/api/v1/analytics/warehouse-sync",
			gin.H{"from": "2026-03-01"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
