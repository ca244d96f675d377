package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanerp/backend/internal/domain/integration"
)

func newTestShopeeClient(t *testing.T, handler http.HandlerFunc) (*ShopeeClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := NewShopeeConfig("1001", "partner-key", "access-token", "2002")
	config.APIBaseURL = server.URL
	client, err := NewShopeeClient(config)
	require.NoError(t, err)
	return client, server
}

func TestShopeeClientUpdateStock(t *testing.T) {
	var captured shopeeUpdateStockRequest
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/update_stock", r.URL.Path)
		assert.Equal(t, "1001", r.URL.Query().Get("partner_id"))
		assert.Equal(t, "2002", r.URL.Query().Get("shop_id"))
		assert.NotEmpty(t, r.URL.Query().Get("sign"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"error":"","message":""}`))
	})

	err := client.UpdateStock(context.Background(), "9001", 15)
	require.NoError(t, err)
	assert.Equal(t, int64(9001), captured.ItemID)
	require.Len(t, captured.StockList, 1)
	assert.Equal(t, 15, captured.StockList[0].NormalStock)
}

func TestShopeeClientUpdateStockInvalidItemID(t *testing.T) {
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for an invalid item ID")
	})

	err := client.UpdateStock(context.Background(), "not-a-number", 5)
	assert.ErrorIs(t, err, ErrShopeeInvalidItemID)
}

func TestShopeeClientAcceptOrderIsNoOp(t *testing.T) {
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("accept must not call the platform")
	})

	assert.NoError(t, client.AcceptOrder(context.Background(), "SN-1"))
}

func TestShopeeClientShipOrder(t *testing.T) {
	var captured shopeeShipOrderRequest
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/logistics/ship_order", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"error":""}`))
	})

	err := client.ShipOrder(context.Background(), "SN-42", integration.ShipmentRequest{TrackingNumber: "ignored"})
	require.NoError(t, err)
	assert.Equal(t, "SN-42", captured.OrderSN)
}

func TestShopeeClientGetShippingLabelUnsupported(t *testing.T) {
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.GetShippingLabel(context.Background(), "SN-1")
	assert.ErrorIs(t, err, integration.ErrCapabilityNotSupported)
}

func TestShopeeClientErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"platform auth error", http.StatusOK, `{"error":"error_auth","message":"invalid token"}`, integration.ErrPlatformAuthFailed},
		{"http auth error", http.StatusUnauthorized, `{}`, integration.ErrPlatformAuthFailed},
		{"validation error", http.StatusOK, `{"error":"error_param","message":"bad item"}`, integration.ErrPlatformRequestFailed},
		{"server error", http.StatusBadGateway, `{}`, integration.ErrPlatformUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			err := client.ShipOrder(context.Background(), "SN-1", integration.ShipmentRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShopeeClientPullOrders(t *testing.T) {
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v2/order/get_order_list":
			_, _ = w.Write([]byte(`{"error":"","response":{"more":false,"order_list":[{"order_sn":"SN-1"},{"order_sn":"SN-2"}]}}`))
		case "/api/v2/order/get_order_detail":
			assert.Equal(t, "SN-1,SN-2", r.URL.Query().Get("order_sn_list"))
			_, _ = w.Write([]byte(`{"error":"","response":{"order_list":[
				{"order_sn":"SN-1","order_status":"READY_TO_SHIP","total_amount":"120000.00","currency":"IDR",
				 "item_list":[{"item_id":9001,"item_sku":"SKU-A","item_name":"Widget","model_quantity_purchased":2,"model_discounted_price":"60000.00"}]},
				{"order_sn":"SN-2","order_status":"CANCELLED","total_amount":"5000.00","currency":"IDR"}
			]}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	orders, err := client.PullOrders(context.Background(), integration.OrderPullRequest{Since: testWindowStart()})
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "SN-1", orders[0].ExternalID)
	assert.Equal(t, integration.OrderStatusConfirmed, orders[0].Status)
	assert.Equal(t, "READY_TO_SHIP", orders[0].PlatformStatus)
	assert.True(t, orders[0].Total.Equal(parseDecimal("120000.00")))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "9001", orders[0].Items[0].ExternalProductID)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)

	assert.Equal(t, integration.OrderStatusCancelled, orders[1].Status)
}

func TestShopeeClientListConversationsUnreadOnly(t *testing.T) {
	client, _ := newTestShopeeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/sellerchat/get_conversation_list", r.URL.Path)
		assert.Equal(t, "50", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"error":"","response":{"conversations":[
			{"conversation_id":"c1","to_name":"budi","latest_message_content":"hi","unread_count":2},
			{"conversation_id":"c2","to_name":"sari","latest_message_content":"ok","unread_count":0}
		]}}`))
	})

	conversations, err := client.ListConversations(context.Background(), 1, true)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "c1", conversations[0].ID)
	assert.Equal(t, 2, conversations[0].UnreadCount)
	assert.Equal(t, integration.PlatformShopee, conversations[0].Platform)
}

func TestMapShopeeOrderStatus(t *testing.T) {
	tests := []struct {
		platform string
		want     integration.OrderStatus
	}{
		{"UNPAID", integration.OrderStatusNew},
		{"READY_TO_SHIP", integration.OrderStatusConfirmed},
		{"PROCESSED", integration.OrderStatusProcessing},
		{"SHIPPED", integration.OrderStatusShipped},
		{"TO_CONFIRM_RECEIVE", integration.OrderStatusDelivered},
		{"COMPLETED", integration.OrderStatusCompleted},
		{"CANCELLED", integration.OrderStatusCancelled},
		{"IN_CANCEL", integration.OrderStatusCancelled},
		{"SOMETHING_ELSE", integration.OrderStatusNew},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapShopeeOrderStatus(tt.platform), tt.platform)
	}
}
