package marketplace

// TikTok Shop open API wire types. Every response carries a numeric code;
// zero means success.

// tiktokBaseResponse is the envelope shared by all responses
type tiktokBaseResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// IsSuccess reports whether the call succeeded
func (r *tiktokBaseResponse) IsSuccess() bool {
	return r.Code == 0
}

// tiktokProductDetailResponse is the response of /api/products/details
type tiktokProductDetailResponse struct {
	tiktokBaseResponse
	Data struct {
		ProductID string `json:"product_id"`
		Skus      []struct {
			ID        string `json:"id"`
			SellerSku string `json:"seller_sku"`
		} `json:"skus"`
	} `json:"data"`
}

// tiktokStockInfo is one warehouse stock figure
type tiktokStockInfo struct {
	WarehouseID    string `json:"warehouse_id"`
	AvailableStock int    `json:"available_stock"`
}

// tiktokSkuStock is one SKU entry of a stock update request
type tiktokSkuStock struct {
	ID         string            `json:"id"`
	StockInfos []tiktokStockInfo `json:"stock_infos"`
}

// tiktokUpdateStockRequest is the body for /api/products/stocks
type tiktokUpdateStockRequest struct {
	ProductID string           `json:"product_id"`
	Skus      []tiktokSkuStock `json:"skus"`
}

// tiktokShipOrderRequest is the body for /api/fulfillment/rts
type tiktokShipOrderRequest struct {
	OrderID            string `json:"order_id"`
	TrackingNumber     string `json:"tracking_number"`
	ShippingProviderID string `json:"shipping_provider_id"`
}

// tiktokCancelOrderRequest is the body for /api/reverse/order/cancel
type tiktokCancelOrderRequest struct {
	OrderID      string `json:"order_id"`
	CancelReason string `json:"cancel_reason"`
}

// tiktokShippingDocumentResponse is the response of
// /api/fulfillment/shipping_document
type tiktokShippingDocumentResponse struct {
	tiktokBaseResponse
	Data struct {
		DocURL string `json:"doc_url"`
	} `json:"data"`
}

// tiktokOrder is one order of an order search response
type tiktokOrder struct {
	OrderID        string `json:"order_id"`
	OrderStatus    string `json:"order_status"`
	PaymentInfo    struct {
		TotalAmount string `json:"total_amount"`
		Currency    string `json:"currency"`
	} `json:"payment_info"`
	RecipientAddress struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		FullAddress string `json:"full_address"`
	} `json:"recipient_address"`
	TrackingNumber string `json:"tracking_number"`
	CreateTime     int64  `json:"create_time"`
	UpdateTime     int64  `json:"update_time"`
	ItemList       []struct {
		ProductID    string `json:"product_id"`
		SkuID        string `json:"sku_id"`
		SellerSku    string `json:"seller_sku"`
		ProductName  string `json:"product_name"`
		Quantity     int    `json:"quantity"`
		SalePrice    string `json:"sale_price"`
	} `json:"item_list"`
}

// tiktokOrderSearchResponse is the response of /api/orders/search
type tiktokOrderSearchResponse struct {
	tiktokBaseResponse
	Data struct {
		More      bool          `json:"more"`
		NextCursor string       `json:"next_cursor"`
		OrderList []tiktokOrder `json:"order_list"`
	} `json:"data"`
}

// tiktokOrderDetailResponse is the response of /api/orders/detail/query
type tiktokOrderDetailResponse struct {
	tiktokBaseResponse
	Data struct {
		OrderList []tiktokOrder `json:"order_list"`
	} `json:"data"`
}

// tiktokShopPerformanceResponse is the response of /api/shop/performance
type tiktokShopPerformanceResponse struct {
	tiktokBaseResponse
	Data struct {
		OrderCount int64  `json:"order_count"`
		GMV        string `json:"gmv"`
		Currency   string `json:"currency"`
	} `json:"data"`
}

// tiktokProductSearchResponse is the response of /api/products/search
type tiktokProductSearchResponse struct {
	tiktokBaseResponse
	Data struct {
		TotalCount int64 `json:"total_count"`
	} `json:"data"`
}
