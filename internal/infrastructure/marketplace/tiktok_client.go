package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

const tiktokOrderPageSize = 50

// TikTokClient implements the MarketplaceClient port for TikTok Shop. It is
// the only platform with a native analytics API and a shipping-label
// endpoint; orders auto-accept, and there is no chat API.
type TikTokClient struct {
	config     *TikTokConfig
	httpClient *http.Client
}

// NewTikTokClient creates a TikTok Shop client from a validated configuration.
func NewTikTokClient(config *TikTokConfig) (*TikTokClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &TikTokClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform code this client handles
func (c *TikTokClient) PlatformCode() integration.PlatformCode {
	return integration.PlatformTikTok
}

// ---------------------------------------------------------------------------
// Stock
// ---------------------------------------------------------------------------

// UpdateStock pushes an absolute quantity to a TikTok Shop listing. The
// stocks endpoint is SKU-addressed, so the listing's first SKU is resolved
// through the product detail endpoint before the write.
func (c *TikTokClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	skuID, err := c.firstSkuID(ctx, externalID)
	if err != nil {
		return err
	}

	body := tiktokUpdateStockRequest{
		ProductID: externalID,
		Skus: []tiktokSkuStock{{
			ID: skuID,
			StockInfos: []tiktokStockInfo{{
				WarehouseID:    c.config.WarehouseID,
				AvailableStock: quantity,
			}},
		}},
	}

	return withRetry(ctx, func() error {
		var resp tiktokBaseResponse
		return c.doRequest(ctx, http.MethodPut, "/api/products/stocks", nil, body, &resp)
	})
}

// firstSkuID resolves the listing's first SKU identifier.
func (c *TikTokClient) firstSkuID(ctx context.Context, productID string) (string, error) {
	query := url.Values{}
	query.Set("product_id", productID)

	var resp tiktokProductDetailResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/products/details", query, nil, &resp)
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data.Skus) == 0 {
		return "", fmt.Errorf("%w: product %s has no SKUs", integration.ErrPlatformInvalidResponse, productID)
	}
	return resp.Data.Skus[0].ID, nil
}

// ---------------------------------------------------------------------------
// Fulfillment
// ---------------------------------------------------------------------------

// AcceptOrder is a no-op: TikTok Shop orders are accepted automatically.
func (c *TikTokClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	return nil
}

// ShipOrder marks the order ready to ship with tracking details. TikTok
// requires a shipping provider ID; the storefront default applies when the
// request carries none.
func (c *TikTokClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	providerID := req.ShippingProviderID
	if providerID == "" {
		providerID = c.config.ShippingProviderID
	}
	body := tiktokShipOrderRequest{
		OrderID:            externalOrderID,
		TrackingNumber:     req.TrackingNumber,
		ShippingProviderID: providerID,
	}
	return withRetry(ctx, func() error {
		var resp tiktokBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/fulfillment/rts", nil, body, &resp)
	})
}

// CancelOrder cancels the order with a TikTok cancel reason key.
func (c *TikTokClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	body := tiktokCancelOrderRequest{OrderID: externalOrderID, CancelReason: reason}
	return withRetry(ctx, func() error {
		var resp tiktokBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/reverse/order/cancel", nil, body, &resp)
	})
}

// GetShippingLabel fetches the printable shipping document URL.
func (c *TikTokClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	query := url.Values{}
	query.Set("order_id", externalOrderID)
	query.Set("document_type", "SHIPPING_LABEL")

	var resp tiktokShippingDocumentResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/fulfillment/shipping_document", query, nil, &resp)
	})
	if err != nil {
		return "", err
	}
	return resp.Data.DocURL, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// PullOrders lists orders updated inside the window.
func (c *TikTokClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	until := req.Until
	if until.IsZero() {
		until = time.Now()
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = tiktokOrderPageSize
	}

	orders := make([]integration.PlatformOrder, 0)
	cursor := ""
	for {
		query := url.Values{}
		query.Set("update_time_from", strconv.FormatInt(req.Since.Unix(), 10))
		query.Set("update_time_to", strconv.FormatInt(until.Unix(), 10))
		query.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var resp tiktokOrderSearchResponse
		err := withRetry(ctx, func() error {
			return c.doRequest(ctx, http.MethodPost, "/api/orders/search", query, nil, &resp)
		})
		if err != nil {
			return nil, err
		}

		for i := range resp.Data.OrderList {
			orders = append(orders, convertTikTokOrder(&resp.Data.OrderList[i]))
		}

		if !resp.Data.More || resp.Data.NextCursor == "" {
			break
		}
		cursor = resp.Data.NextCursor
	}

	return orders, nil
}

// GetOrder fetches one order with items.
func (c *TikTokClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	query := url.Values{}
	query.Set("order_id_list", externalOrderID)

	var resp tiktokOrderDetailResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/orders/detail/query", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data.OrderList) == 0 {
		return nil, integration.ErrMappingNotFound
	}
	order := convertTikTokOrder(&resp.Data.OrderList[0])
	return &order, nil
}

// convertTikTokOrder maps a TikTok order onto the platform-agnostic shape.
func convertTikTokOrder(o *tiktokOrder) integration.PlatformOrder {
	order := integration.PlatformOrder{
		ExternalID:      o.OrderID,
		OrderNumber:     o.OrderID,
		Status:          mapTikTokOrderStatus(o.OrderStatus),
		PlatformStatus:  o.OrderStatus,
		Total:           parseDecimal(o.PaymentInfo.TotalAmount),
		Currency:        o.PaymentInfo.Currency,
		CustomerName:    o.RecipientAddress.Name,
		CustomerPhone:   o.RecipientAddress.Phone,
		ShippingAddress: o.RecipientAddress.FullAddress,
		TrackingNumber:  o.TrackingNumber,
		CreatedAt:       time.Unix(o.CreateTime, 0),
		UpdatedAt:       time.Unix(o.UpdateTime, 0),
		Items:           make([]integration.PlatformOrderItem, 0, len(o.ItemList)),
	}
	for _, item := range o.ItemList {
		order.Items = append(order.Items, integration.PlatformOrderItem{
			ExternalProductID: item.ProductID,
			SKU:               item.SellerSku,
			Name:              item.ProductName,
			Quantity:          item.Quantity,
			UnitPrice:         parseDecimal(item.SalePrice),
		})
	}
	return order
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// GetShopMetrics fetches the native shop performance report for the window.
// Zero bounds fall back to the trailing 30 days.
func (c *TikTokClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}

	query := url.Values{}
	query.Set("start_date", from.Format("2006-01-02"))
	query.Set("end_date", to.Format("2006-01-02"))

	var resp tiktokShopPerformanceResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/shop/performance", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &integration.ShopMetricsReport{
		TotalOrders:  resp.Data.OrderCount,
		TotalRevenue: parseDecimal(resp.Data.GMV),
		Currency:     resp.Data.Currency,
	}, nil
}

// CountProducts returns the live listing count.
func (c *TikTokClient) CountProducts(ctx context.Context) (int64, error) {
	query := url.Values{}
	query.Set("page_size", "1")
	query.Set("page_number", "1")

	var resp tiktokProductSearchResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodPost, "/api/products/search", query, nil, &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Data.TotalCount, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// tiktokEnvelope is implemented by every typed response so doRequest can
// check the platform-level code after decoding.
type tiktokEnvelope interface {
	IsSuccess() bool
}

// doRequest performs one signed HTTP call against the TikTok Shop API and
// decodes the response into out.
func (c *TikTokClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("app_key", c.config.AppKey)
	query.Set("timestamp", strconv.FormatInt(time.Now().Unix(), 10))
	if c.config.ShopCipher != "" {
		query.Set("shop_cipher", c.config.ShopCipher)
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tiktok: failed to encode request: %w", err)
		}
	}

	params := make(map[string]string, len(query))
	for k := range query {
		params[k] = query.Get(k)
	}
	query.Set("sign", c.config.Sign(path, params, payload))
	query.Set("access_token", c.config.AccessToken)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.APIBaseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return fmt.Errorf("tiktok: failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-tts-access-token", c.config.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("tiktok: failed to read response: %w", err)
	}

	if err := classifyHTTPStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	if env, ok := out.(tiktokEnvelope); ok && !env.IsSuccess() {
		return classifyTikTokError(raw)
	}
	return nil
}

// classifyTikTokError maps a platform-level error envelope onto the error
// sentinels. TikTok uses 105xxx for auth failures and 429-style codes for
// throttling.
func classifyTikTokError(raw []byte) error {
	var env tiktokBaseResponse
	_ = json.Unmarshal(raw, &env)
	switch {
	case env.Code >= 105000 && env.Code < 106000:
		return fmt.Errorf("%w: %s", integration.ErrPlatformAuthFailed, env.Message)
	case env.Code == 429 || env.Code == 36009001:
		return fmt.Errorf("%w: %s", integration.ErrPlatformRateLimited, env.Message)
	default:
		return fmt.Errorf("%w: %d - %s", integration.ErrPlatformRequestFailed, env.Code, env.Message)
	}
}

// ---------------------------------------------------------------------------
// Status Mapping
// ---------------------------------------------------------------------------

// mapTikTokOrderStatus maps a TikTok Shop order status onto the unified set.
func mapTikTokOrderStatus(status string) integration.OrderStatus {
	switch status {
	case "UNPAID":
		return integration.OrderStatusNew
	case "ON_HOLD", "AWAITING_SHIPMENT":
		return integration.OrderStatusConfirmed
	case "AWAITING_COLLECTION":
		return integration.OrderStatusProcessing
	case "IN_TRANSIT":
		return integration.OrderStatusShipped
	case "DELIVERED":
		return integration.OrderStatusDelivered
	case "COMPLETED":
		return integration.OrderStatusCompleted
	case "CANCELLED":
		return integration.OrderStatusCancelled
	default:
		return integration.OrderStatusNew
	}
}

// Ensure TikTokClient implements the platform port
var _ integration.MarketplaceClient = (*TikTokClient)(nil)
