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
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oceanerp/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed platform response size (10MB)
const maxResponseSize = 10 * 1024 * 1024

const (
	// shopeeConversationPageSize matches the platform's chat list page limit
	shopeeConversationPageSize = 50
	// shopeeMessagePageSize matches the platform's message page limit
	shopeeMessagePageSize = 20
	// shopeeOrderPageSize is the order listing page size
	shopeeOrderPageSize = 50
)

// ErrShopeeInvalidItemID indicates a non-numeric Shopee item identifier
var ErrShopeeInvalidItemID = errors.New("shopee: invalid item ID format")

// ShopeeClient implements the MarketplaceClient and ChatClient ports for
// Shopee. Orders auto-accept on Shopee, so AcceptOrder is a no-op; shipping
// labels and native analytics are not available.
type ShopeeClient struct {
	config     *ShopeeConfig
	httpClient *http.Client
}

// NewShopeeClient creates a Shopee client from a validated configuration.
func NewShopeeClient(config *ShopeeConfig) (*ShopeeClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShopeeClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// PlatformCode returns the platform code this client handles
func (c *ShopeeClient) PlatformCode() integration.PlatformCode {
	return integration.PlatformShopee
}

// ---------------------------------------------------------------------------
// Stock
// ---------------------------------------------------------------------------

// UpdateStock pushes an absolute quantity to a Shopee listing.
func (c *ShopeeClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	itemID, err := strconv.ParseInt(externalID, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrShopeeInvalidItemID, externalID)
	}

	body := shopeeUpdateStockRequest{
		ItemID:    itemID,
		StockList: []shopeeStockList{{ModelID: 0, NormalStock: quantity}},
	}

	return withRetry(ctx, func() error {
		var resp shopeeBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/v2/product/update_stock", nil, body, &resp)
	})
}

// ---------------------------------------------------------------------------
// Fulfillment
// ---------------------------------------------------------------------------

// AcceptOrder is a no-op: Shopee orders are accepted automatically on payment.
func (c *ShopeeClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	return nil
}

// ShipOrder marks the order ready to ship. Shopee assigns tracking itself, so
// the request carries no tracking details.
func (c *ShopeeClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	body := shopeeShipOrderRequest{OrderSN: externalOrderID}
	return withRetry(ctx, func() error {
		var resp shopeeBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/v2/logistics/ship_order", nil, body, &resp)
	})
}

// CancelOrder cancels the order with a Shopee cancel reason code.
func (c *ShopeeClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	body := shopeeCancelOrderRequest{OrderSN: externalOrderID, CancelReason: reason}
	return withRetry(ctx, func() error {
		var resp shopeeBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/v2/order/cancel_order", nil, body, &resp)
	})
}

// GetShippingLabel is not available on Shopee.
func (c *ShopeeClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	return "", integration.ErrCapabilityNotSupported
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// PullOrders lists orders updated inside the window, then hydrates them page
// by page through the detail endpoint.
func (c *ShopeeClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	until := req.Until
	if until.IsZero() {
		until = time.Now()
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = shopeeOrderPageSize
	}

	orders := make([]integration.PlatformOrder, 0)
	cursor := ""
	for {
		query := url.Values{}
		query.Set("time_range_field", "update_time")
		query.Set("time_from", strconv.FormatInt(req.Since.Unix(), 10))
		query.Set("time_to", strconv.FormatInt(until.Unix(), 10))
		query.Set("page_size", strconv.Itoa(pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var listResp shopeeOrderListResponse
		err := withRetry(ctx, func() error {
			return c.doRequest(ctx, http.MethodGet, "/api/v2/order/get_order_list", query, nil, &listResp)
		})
		if err != nil {
			return nil, err
		}

		if len(listResp.Response.OrderList) > 0 {
			orderSNs := make([]string, 0, len(listResp.Response.OrderList))
			for _, o := range listResp.Response.OrderList {
				orderSNs = append(orderSNs, o.OrderSN)
			}
			page, err := c.fetchOrderDetails(ctx, orderSNs)
			if err != nil {
				return nil, err
			}
			orders = append(orders, page...)
		}

		if !listResp.Response.More || listResp.Response.NextCursor == "" {
			break
		}
		cursor = listResp.Response.NextCursor
	}

	return orders, nil
}

// GetOrder fetches one order with items.
func (c *ShopeeClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	orders, err := c.fetchOrderDetails(ctx, []string{externalOrderID})
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, integration.ErrMappingNotFound
	}
	return &orders[0], nil
}

// fetchOrderDetails hydrates a batch of order SNs through get_order_detail.
func (c *ShopeeClient) fetchOrderDetails(ctx context.Context, orderSNs []string) ([]integration.PlatformOrder, error) {
	query := url.Values{}
	query.Set("order_sn_list", strings.Join(orderSNs, ","))
	query.Set("response_optional_fields", "item_list,recipient_address,total_amount,package_list,buyer_username")

	var resp shopeeOrderDetailResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/v2/order/get_order_detail", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	orders := make([]integration.PlatformOrder, 0, len(resp.Response.OrderList))
	for i := range resp.Response.OrderList {
		orders = append(orders, c.convertOrder(&resp.Response.OrderList[i]))
	}
	return orders, nil
}

// convertOrder maps a Shopee order onto the platform-agnostic shape.
func (c *ShopeeClient) convertOrder(o *shopeeOrder) integration.PlatformOrder {
	order := integration.PlatformOrder{
		ExternalID:      o.OrderSN,
		OrderNumber:     o.OrderSN,
		Status:          mapShopeeOrderStatus(o.OrderStatus),
		PlatformStatus:  o.OrderStatus,
		Total:           parseDecimal(o.TotalAmount),
		Currency:        o.Currency,
		CustomerName:    o.RecipientAddress.Name,
		CustomerPhone:   o.RecipientAddress.Phone,
		ShippingAddress: o.RecipientAddress.FullAddress,
		CreatedAt:       time.Unix(o.CreateTime, 0),
		UpdatedAt:       time.Unix(o.UpdateTime, 0),
		Items:           make([]integration.PlatformOrderItem, 0, len(o.ItemList)),
	}
	if order.CustomerName == "" {
		order.CustomerName = o.BuyerUsername
	}
	if len(o.PackageList) > 0 {
		order.TrackingNumber = o.PackageList[0].TrackingNumber
	}
	for _, item := range o.ItemList {
		order.Items = append(order.Items, integration.PlatformOrderItem{
			ExternalProductID: strconv.FormatInt(item.ItemID, 10),
			SKU:               item.ItemSKU,
			Name:              item.ItemName,
			Quantity:          item.ModelQuantity,
			UnitPrice:         parseDecimal(item.ModelDiscountedPrice),
		})
	}
	return order
}

// ---------------------------------------------------------------------------
// Analytics
// ---------------------------------------------------------------------------

// GetShopMetrics is not available on Shopee; callers fall back to ERP stats.
func (c *ShopeeClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	return nil, integration.ErrCapabilityNotSupported
}

// CountProducts returns the live listing count.
func (c *ShopeeClient) CountProducts(ctx context.Context) (int64, error) {
	query := url.Values{}
	query.Set("offset", "0")
	query.Set("page_size", "1")
	query.Set("item_status", "NORMAL")

	var resp shopeeItemListResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/v2/product/get_item_list", query, nil, &resp)
	})
	if err != nil {
		return 0, err
	}
	return resp.Response.TotalCount, nil
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

// ListConversations pages the shop's chat threads, newest first.
func (c *ShopeeClient) ListConversations(ctx context.Context, page int, unreadOnly bool) ([]integration.Conversation, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("direction", "latest")
	query.Set("type", "all")
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(shopeeConversationPageSize))

	var resp shopeeConversationListResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/v2/sellerchat/get_conversation_list", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	conversations := make([]integration.Conversation, 0, len(resp.Response.Conversations))
	for _, conv := range resp.Response.Conversations {
		if unreadOnly && conv.UnreadCount == 0 {
			continue
		}
		conversations = append(conversations, integration.Conversation{
			ID:            conv.ConversationID,
			Platform:      integration.PlatformShopee,
			BuyerName:     conv.ToName,
			LastMessage:   conv.LatestMessage,
			LastMessageAt: time.Unix(conv.LastMessageTime, 0),
			UnreadCount:   conv.UnreadCount,
		})
	}
	return conversations, nil
}

// GetMessages pages one conversation's messages, newest first.
func (c *ShopeeClient) GetMessages(ctx context.Context, conversationID string, page int) ([]integration.ChatMessage, error) {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("conversation_id", conversationID)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(shopeeMessagePageSize))

	var resp shopeeMessageListResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodGet, "/api/v2/sellerchat/get_message", query, nil, &resp)
	})
	if err != nil {
		return nil, err
	}

	messages := make([]integration.ChatMessage, 0, len(resp.Response.Messages))
	for _, msg := range resp.Response.Messages {
		messages = append(messages, convertShopeeMessage(&msg, c.config.ShopID))
	}
	return messages, nil
}

// SendMessage sends a text reply into a conversation.
func (c *ShopeeClient) SendMessage(ctx context.Context, conversationID string, text string) (*integration.ChatMessage, error) {
	body := shopeeSendMessageRequest{ToID: conversationID, MessageType: "text"}
	body.Content.Text = text

	var resp shopeeSendMessageResponse
	err := withRetry(ctx, func() error {
		return c.doRequest(ctx, http.MethodPost, "/api/v2/sellerchat/send_message", nil, body, &resp)
	})
	if err != nil {
		return nil, err
	}
	msg := convertShopeeMessage(&resp.Response, c.config.ShopID)
	if msg.ConversationID == "" {
		msg.ConversationID = conversationID
	}
	return &msg, nil
}

// MarkRead marks the conversation read up to its latest message.
func (c *ShopeeClient) MarkRead(ctx context.Context, conversationID string) error {
	body := shopeeReadConversationRequest{ConversationID: conversationID}
	return withRetry(ctx, func() error {
		var resp shopeeBaseResponse
		return c.doRequest(ctx, http.MethodPost, "/api/v2/sellerchat/read_conversation", nil, body, &resp)
	})
}

func convertShopeeMessage(msg *shopeeMessage, shopID string) integration.ChatMessage {
	return integration.ChatMessage{
		ID:             msg.MessageID,
		ConversationID: msg.ConversationID,
		FromBuyer:      strconv.FormatInt(msg.FromShopID, 10) != shopID,
		Text:           msg.Content.Text,
		SentAt:         time.Unix(msg.CreatedTimestamp, 0),
	}
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// shopeeEnvelope is implemented by every typed response so doRequest can
// check the platform-level error code after decoding.
type shopeeEnvelope interface {
	IsSuccess() bool
}

// doRequest performs one signed HTTP call against the Shopee API and decodes
// the response into out.
func (c *ShopeeClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	timestamp := time.Now().Unix()

	if query == nil {
		query = url.Values{}
	}
	query.Set("partner_id", c.config.PartnerID)
	query.Set("timestamp", strconv.FormatInt(timestamp, 10))
	query.Set("access_token", c.config.AccessToken)
	query.Set("shop_id", c.config.ShopID)
	query.Set("sign", c.config.Sign(path, timestamp))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shopee: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.APIBaseURL+path+"?"+query.Encode(), reader)
	if err != nil {
		return fmt.Errorf("shopee: failed to create request: %w", err)
	}
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
		return fmt.Errorf("shopee: failed to read response: %w", err)
	}

	if err := classifyHTTPStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", integration.ErrPlatformInvalidResponse, err)
	}

	if env, ok := out.(shopeeEnvelope); ok && !env.IsSuccess() {
		return classifyShopeeError(raw)
	}
	return nil
}

// classifyShopeeError maps a platform-level error envelope onto the error
// sentinels.
func classifyShopeeError(raw []byte) error {
	var env shopeeBaseResponse
	_ = json.Unmarshal(raw, &env)
	switch env.Error {
	case "error_auth", "invalid_access_token", "error_permission":
		return fmt.Errorf("%w: %s", integration.ErrPlatformAuthFailed, env.Message)
	case "error_request_limit":
		return fmt.Errorf("%w: %s", integration.ErrPlatformRateLimited, env.Message)
	default:
		return fmt.Errorf("%w: %s - %s", integration.ErrPlatformRequestFailed, env.Error, env.Message)
	}
}

// classifyHTTPStatus maps HTTP-level failures onto the error sentinels.
func classifyHTTPStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformAuthFailed, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRateLimited, status)
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformUnavailable, status)
	case status >= 400:
		return fmt.Errorf("%w: HTTP %d", integration.ErrPlatformRequestFailed, status)
	default:
		return nil
	}
}

// parseDecimal parses a platform money string, returning zero on garbage.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ---------------------------------------------------------------------------
// Status Mapping
// ---------------------------------------------------------------------------

// mapShopeeOrderStatus maps a Shopee order status onto the unified set.
func mapShopeeOrderStatus(status string) integration.OrderStatus {
	switch status {
	case "UNPAID":
		return integration.OrderStatusNew
	case "READY_TO_SHIP":
		return integration.OrderStatusConfirmed
	case "PROCESSED":
		return integration.OrderStatusProcessing
	case "SHIPPED":
		return integration.OrderStatusShipped
	case "TO_CONFIRM_RECEIVE":
		return integration.OrderStatusDelivered
	case "COMPLETED":
		return integration.OrderStatusCompleted
	case "CANCELLED", "IN_CANCEL":
		return integration.OrderStatusCancelled
	default:
		return integration.OrderStatusNew
	}
}

// Ensure ShopeeClient implements the platform ports
var (
	_ integration.MarketplaceClient = (*ShopeeClient)(nil)
	_ integration.ChatClient        = (*ShopeeClient)(nil)
)
