package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

// tokopediaStatusShipped is the numeric order status for "shipment confirmed"
const tokopediaStatusShipped = 500

// ErrTokopediaInvalidProductID indicates a non-numeric Tokopedia product ID
var ErrTokopediaInvalidProductID = errors.New("tokopedia: invalid product ID format")

// TokopediaClient implements the MarketplaceClient port for Tokopedia. It is
// the only platform requiring an explicit order acceptance step; there is no
// shipping-label endpoint, no native analytics, and no chat API.
type TokopediaClient struct {
	config     *TokopediaConfig
	httpClient *http.Client
}

// NewTokopediaClient creates a Tokopedia client from a validated
// configuration.
func NewTokopediaClient(config *TokopediaConfig) (*TokopediaClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &TokopediaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform code this client handles
func (c *TokopediaClient) PlatformCode() integration.PlatformCode {
	return integration.PlatformTokopedia
}

// ---------------------------------------------------------------------------
// Stock
// ---------------------------------------------------------------------------

// UpdateStock pushes an absolute quantity to a Tokopedia listing.
func (c *TokopediaClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	productID, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrTokopediaInvalidProductID, externalID)
	}

	path := fmt.Sprintf("/inventory/v1/fs/%s/stock/update", c.config.FsID)
	query := url.Values{}
	query.Set("shop_id", c.config.ShopID)
	body := []tokopediaStockUpdate{{ProductID: productID, NewStock: quantity}}

	return withRetry(ctx, func() error {
		var resp tokopediaBaseResponse
		return c.doRequest(ctx, http.MethodPost, path, query, body, &resp)
	})
}

// ---------------------------------------------------------------------------
// Fulfillment
// ---------------------------------------------------------------------------

// AcceptOrder acknowledges a new order. Tokopedia is the one platform where
// acceptance is an explicit API call.
func (c *TokopediaClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	path := fmt.Sprintf("/v1/order/%s/fs/%s/ack", externalOrderID, c.config.FsID)
	return withRetry(ctx, func() error {
		var resp tokopediaBaseResponse
		return c.doRequest(ctx, http.MethodPost, path, nil, nil, &resp)
	})
}

// ShipOrder confirms shipment with the carrier reference number.
func (c *TokopediaClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	path := fmt.Sprintf("/v1/order/%s/fs/%s/status", externalOrderID, c.config.FsID)
	body := tokopediaConfirmShippingRequest{
		OrderStatus:    tokopediaStatusShipped,
		ShippingRefNum: req.TrackingNumber,
	}
	return withRetry(ctx, func() error {
		var resp tokopediaBaseResponse
		return c.doRequest(ctx, http.MethodPost, path, nil, body, &resp)
	})
}

// CancelOrder rejects the order.
func (c *TokopediaClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	path := fmt.Sprintf("/v1/order/%s/fs/%s/nack", externalOrderID, c.config.FsID)
	body := tokopediaCancelRequest{ReasonCode: 1, Reason: reason}
	return withRetry(ctx, func() error {
		var resp tokopediaBaseResponse
		return c.doRequest(ctx, http.MethodPost, path, nil, body, &resp)
	})
}

// GetShippingLabel is not available on Tokopedia.
func (c *TokopediaClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	return "", integration.ErrCapabilityNotSupported
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// PullOrders lists orders created inside the window.
func (c *TokopediaClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	until := req.Until
	if until.IsZero() {
		until = time.Now()
	}

	query := url.Values{}
	query.Set("fs_id", c.config.FsID)
	query.Set("shop_id", c.config.ShopID)
	query.Set("from_date", strconv.FormatInt(req.Since.Unix(), 10))
	query.Set("to_date", strconv.FormatInt(until.Unix(), 10))
	if req.PageSize > 0 {
		query.Set("per_page", strconv.Itoa(req.PageSize))
	}

	var resp tokopediaOrderListResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/v2/order/list", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	orders := make([]integration.PlatformOrder, 0, len(resp.Data))
	for i := range resp.Data {
		orders = append(orders, convertTokopediaOrder(&resp.Data[i]))
	}
	return orders, nil
}

// GetOrder fetches one order with items.
func (c *TokopediaClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	path := fmt.Sprintf("/v2/fs/%s/order", c.config.FsID)
	query := url.Values{}
	query.Set("order_id", externalOrderID)

	var resp tokopediaOrderDetailResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, path, query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}
	order := convertTokopediaOrder(&resp.Data)
	return &order, nil
}

// convertTokopediaOrder maps a Tokopedia order onto the platform-agnostic
// shape.
func convertTokopediaOrder(o *tokopediaOrder) integration.PlatformOrder {
	order := integration.PlatformOrder{
		ExternalID:      strconv.FormatInt(o.OrderID, 10),
		OrderNumber:     o.InvoiceNum,
		Status:          mapTokopediaOrderStatus(o.OrderStatus),
		PlatformStatus:  o.OrderStatus,
		Total:           parseDecimal(o.AmtTotal),
		Currency:        "IDR",
		CustomerName:    o.Recipient.Name,
		CustomerPhone:   o.Recipient.Phone,
		ShippingAddress: o.Recipient.Address.AddressFull,
		TrackingNumber:  o.ShippingRefNum,
		CreatedAt:       time.Unix(o.CreateTime, 0),
		UpdatedAt:       time.Unix(o.UpdateTime, 0),
		Items:           make([]integration.PlatformOrderItem, 0, len(o.Products)),
	}
	if order.CustomerName == "" {
		order.CustomerName = o.Buyer.Name
	}
	for _, p := range o.Products {
		order.Items = append(order.Items, integration.PlatformOrderItem{
			ExternalProductID: strconv.FormatInt(p.ID, 10),
			SKU:               p.SKU,
			Name:              p.Name,
			Quantity:          p.Quantity,
			UnitPrice:         parseDecimal(p.Price),
		})
	}
	return order
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// GetShopMetrics is not available on Tokopedia; callers fall back to ERP
// stats.
func (c *TokopediaClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	return nil, integration.ErrCapabilityNotSupported
}

// CountProducts returns the live listing count.
func (c *TokopediaClient) CountProducts(ctx context.Context) (int64, error) {
	path := fmt.Sprintf("/inventory/v1/fs/%s/product/info", c.config.FsID)
	query := url.Values{}
	query.Set("shop_id", c.config.ShopID)
	query.Set("page", "1")
	query.Set("per_page", "1")

	var resp tokopediaProductListResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, path, query, nil, &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Data.TotalData, nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// tokopediaEnvelope is implemented by every typed response so doRequest can
// check the header error code after decoding.
type tokopediaEnvelope interface {
	IsSuccess() bool
}

// doRequest performs one bearer-authenticated HTTP call against the
// Tokopedia API and decodes the response into out.
func (c *TokopediaClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	endpoint := c.config.APIBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("tokopedia: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("tokopedia: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("tokopedia: failed to read response: %w", err)
	}

	if err := classifyHTTPStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	if env, ok := out.(tokopediaEnvelope); ok && !env.IsSuccess() {
		var base tokopediaBaseResponse
		_ = json.Unmarshal(raw, &base)
		return fmt.Errorf("%w: %s - %s", integration.ErrPlatformRequestFailed, base.Header.ErrorCode, base.Header.Reason)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Status Mapping
// ---------------------------------------------------------------------------

// mapTokopediaOrderStatus maps a Tokopedia order status onto the unified set.
func mapTokopediaOrderStatus(status string) integration.OrderStatus {
	switch status {
	case "NEW":
		return integration.OrderStatusNew
	case "CONFIRM_SHIPPING":
		return integration.OrderStatusConfirmed
	case "REQUEST_PICKUP", "ON_PROCESS":
		return integration.OrderStatusProcessing
	case "SHIPPED":
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

// Ensure TokopediaClient implements the platform port
var _ integration.MarketplaceClient = (*TokopediaClient)(nil)
