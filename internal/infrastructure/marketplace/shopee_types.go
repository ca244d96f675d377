package marketplace

// Shopee Open Platform v2 wire types. Every response carries a top-level
// error code string; an empty code means success.

// shopeeBaseResponse is the envelope shared by all v2 responses
type shopeeBaseResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// IsSuccess reports whether the call succeeded
func (r *shopeeBaseResponse) IsSuccess() bool {
	return r.Error == ""
}

// shopeeStockList is one entry of a stock update request
type shopeeStockList struct {
	ModelID     int64 `json:"model_id"`
	NormalStock int   `json:"normal_stock"`
}

// shopeeUpdateStockRequest is the body for /api/v2/product/update_stock
type shopeeUpdateStockRequest struct {
	ItemID    int64             `json:"item_id"`
	StockList []shopeeStockList `json:"stock_list"`
}

// shopeeShipOrderRequest is the body for /api/v2/logistics/ship_order
type shopeeShipOrderRequest struct {
	OrderSN string `json:"order_sn"`
}

// shopeeCancelOrderRequest is the body for /api/v2/order/cancel_order
type shopeeCancelOrderRequest struct {
	OrderSN      string `json:"order_sn"`
	CancelReason string `json:"cancel_reason"`
}

// shopeeOrderListResponse is the response of /api/v2/order/get_order_list
type shopeeOrderListResponse struct {
	shopeeBaseResponse
	Response struct {
		More       bool   `json:"more"`
		NextCursor string `json:"next_cursor"`
		OrderList  []struct {
			OrderSN string `json:"order_sn"`
		} `json:"order_list"`
	} `json:"response"`
}

// shopeeOrder is one order of a get_order_detail response
type shopeeOrder struct {
	OrderSN       string `json:"order_sn"`
	OrderStatus   string `json:"order_status"`
	TotalAmount   string `json:"total_amount"`
	Currency      string `json:"currency"`
	CreateTime    int64  `json:"create_time"`
	UpdateTime    int64  `json:"update_time"`
	BuyerUsername string `json:"buyer_username"`
	RecipientAddress struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		FullAddress string `json:"full_address"`
	} `json:"recipient_address"`
	PackageList []struct {
		TrackingNumber string `json:"tracking_number"`
	} `json:"package_list"`
	ItemList []struct {
		ItemID             int64  `json:"item_id"`
		ItemSKU            string `json:"item_sku"`
		ItemName           string `json:"item_name"`
		ModelQuantity      int    `json:"model_quantity_purchased"`
		ModelDiscountedPrice string `json:"model_discounted_price"`
	} `json:"item_list"`
}

// shopeeOrderDetailResponse is the response of /api/v2/order/get_order_detail
type shopeeOrderDetailResponse struct {
	shopeeBaseResponse
	Response struct {
		OrderList []shopeeOrder `json:"order_list"`
	} `json:"response"`
}

// shopeeItemListResponse is the response of /api/v2/product/get_item_list
type shopeeItemListResponse struct {
	shopeeBaseResponse
	Response struct {
		TotalCount int64 `json:"total_count"`
	} `json:"response"`
}

// shopeeConversationListResponse is the response of
// /api/v2/sellerchat/get_conversation_list
type shopeeConversationListResponse struct {
	shopeeBaseResponse
	Response struct {
		Conversations []struct {
			ConversationID   string `json:"conversation_id"`
			ToName           string `json:"to_name"`
			LatestMessage    string `json:"latest_message_content"`
			LastMessageTime  int64  `json:"last_message_timestamp"`
			UnreadCount      int    `json:"unread_count"`
		} `json:"conversations"`
	} `json:"response"`
}

// shopeeMessage is one message of a get_message response
type shopeeMessage struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	FromShopID     int64  `json:"from_shop_id"`
	Content        struct {
		Text string `json:"text"`
	} `json:"content"`
	CreatedTimestamp int64 `json:"created_timestamp"`
}

// shopeeMessageListResponse is the response of /api/v2/sellerchat/get_message
type shopeeMessageListResponse struct {
	shopeeBaseResponse
	Response struct {
		Messages []shopeeMessage `json:"messages"`
	} `json:"response"`
}

// shopeeSendMessageRequest is the body for /api/v2/sellerchat/send_message
type shopeeSendMessageRequest struct {
	ToID        string `json:"to_id"`
	MessageType string `json:"message_type"`
	Content     struct {
		Text string `json:"text"`
	} `json:"content"`
}

// shopeeSendMessageResponse is the response of /api/v2/sellerchat/send_message
type shopeeSendMessageResponse struct {
	shopeeBaseResponse
	Response shopeeMessage `json:"response"`
}

// shopeeReadConversationRequest is the body for
// /api/v2/sellerchat/read_conversation
type shopeeReadConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}
