package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/oceanerp/backend/internal/domain/integration"
)

// InstrumentedFactory decorates a ClientFactory so every client it hands out
// records call durations and failures on SyncMetrics. Capability gaps are not
// failures; only real platform errors count.
type InstrumentedFactory struct {
	inner   integration.ClientFactory
	metrics *SyncMetrics
}

// InstrumentFactory wraps the factory. A nil metrics leaves the factory
// untouched.
func InstrumentFactory(inner integration.ClientFactory, metrics *SyncMetrics) integration.ClientFactory {
	if metrics == nil {
		return inner
	}
	return &InstrumentedFactory{inner: inner, metrics: metrics}
}

func (f *InstrumentedFactory) ClientFor(storefront *integration.Storefront) (integration.MarketplaceClient, error) {
	client, err := f.inner.ClientFor(storefront)
	if err != nil {
		return nil, err
	}
	return &instrumentedClient{inner: client, metrics: f.metrics}, nil
}

func (f *InstrumentedFactory) ChatClientFor(storefront *integration.Storefront) (integration.ChatClient, error) {
	client, err := f.inner.ChatClientFor(storefront)
	if err != nil {
		return nil, err
	}
	return &instrumentedChatClient{
		inner:    client,
		platform: string(storefront.Platform),
		metrics:  f.metrics,
	}, nil
}

type instrumentedClient struct {
	inner   integration.MarketplaceClient
	metrics *SyncMetrics
}

func (c *instrumentedClient) observe(ctx context.Context, operation string, start time.Time, err error) {
	platform := string(c.inner.PlatformCode())
	c.metrics.RecordPlatformCall(ctx, platform, operation, time.Since(start))
	if err != nil && !errors.Is(err, integration.ErrCapabilityNotSupported) {
		c.metrics.RecordFailure(ctx, platform, operation)
	}
}

func (c *instrumentedClient) PlatformCode() integration.PlatformCode {
	return c.inner.PlatformCode()
}

func (c *instrumentedClient) UpdateStock(ctx context.Context, externalID string, quantity int) error {
	start := time.Now()
	err := c.inner.UpdateStock(ctx, externalID, quantity)
	c.observe(ctx, "update_stock", start, err)
	c.metrics.RecordStockPush(ctx, string(c.inner.PlatformCode()), err == nil)
	return err
}

func (c *instrumentedClient) AcceptOrder(ctx context.Context, externalOrderID string) error {
	start := time.Now()
	err := c.inner.AcceptOrder(ctx, externalOrderID)
	c.observe(ctx, "accept_order", start, err)
	return err
}

func (c *instrumentedClient) ShipOrder(ctx context.Context, externalOrderID string, req integration.ShipmentRequest) error {
	start := time.Now()
	err := c.inner.ShipOrder(ctx, externalOrderID, req)
	c.observe(ctx, "ship_order", start, err)
	return err
}

func (c *instrumentedClient) CancelOrder(ctx context.Context, externalOrderID string, reason string) error {
	start := time.Now()
	err := c.inner.CancelOrder(ctx, externalOrderID, reason)
	c.observe(ctx, "cancel_order", start, err)
	return err
}

func (c *instrumentedClient) GetShippingLabel(ctx context.Context, externalOrderID string) (string, error) {
	start := time.Now()
	url, err := c.inner.GetShippingLabel(ctx, externalOrderID)
	c.observe(ctx, "get_shipping_label", start, err)
	return url, err
}

func (c *instrumentedClient) PullOrders(ctx context.Context, req integration.OrderPullRequest) ([]integration.PlatformOrder, error) {
	start := time.Now()
	orders, err := c.inner.PullOrders(ctx, req)
	c.observe(ctx, "pull_orders", start, err)
	return orders, err
}

func (c *instrumentedClient) GetOrder(ctx context.Context, externalOrderID string) (*integration.PlatformOrder, error) {
	start := time.Now()
	order, err := c.inner.GetOrder(ctx, externalOrderID)
	c.observe(ctx, "get_order", start, err)
	return order, err
}

func (c *instrumentedClient) GetShopMetrics(ctx context.Context, from, to time.Time) (*integration.ShopMetricsReport, error) {
	start := time.Now()
	report, err := c.inner.GetShopMetrics(ctx, from, to)
	c.observe(ctx, "get_shop_metrics", start, err)
	return report, err
}

func (c *instrumentedClient) CountProducts(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := c.inner.CountProducts(ctx)
	c.observe(ctx, "count_products", start, err)
	return count, err
}

type instrumentedChatClient struct {
	inner    integration.ChatClient
	platform string
	metrics  *SyncMetrics
}

func (c *instrumentedChatClient) observe(ctx context.Context, operation string, start time.Time, err error) {
	c.metrics.RecordPlatformCall(ctx, c.platform, operation, time.Since(start))
	if err != nil && !errors.Is(err, integration.ErrCapabilityNotSupported) {
		c.metrics.RecordFailure(ctx, c.platform, operation)
	}
}

func (c *instrumentedChatClient) ListConversations(ctx context.Context, page int, unreadOnly bool) ([]integration.Conversation, error) {
	start := time.Now()
	conversations, err := c.inner.ListConversations(ctx, page, unreadOnly)
	c.observe(ctx, "list_conversations", start, err)
	return conversations, err
}

func (c *instrumentedChatClient) GetMessages(ctx context.Context, conversationID string, page int) ([]integration.ChatMessage, error) {
	start := time.Now()
	messages, err := c.inner.GetMessages(ctx, conversationID, page)
	c.observe(ctx, "get_messages", start, err)
	return messages, err
}

func (c *instrumentedChatClient) SendMessage(ctx context.Context, conversationID string, text string) (*integration.ChatMessage, error) {
	start := time.Now()
	message, err := c.inner.SendMessage(ctx, conversationID, text)
	c.observe(ctx, "send_message", start, err)
	return message, err
}

func (c *instrumentedChatClient) MarkRead(ctx context.Context, conversationID string) error {
	start := time.Now()
	err := c.inner.MarkRead(ctx, conversationID)
	c.observe(ctx, "mark_read", start, err)
	return err
}

var _ integration.ClientFactory = (*InstrumentedFactory)(nil)
var _ integration.MarketplaceClient = (*instrumentedClient)(nil)
var _ integration.ChatClient = (*instrumentedChatClient)(nil)
