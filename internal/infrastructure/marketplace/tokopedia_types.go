package marketplace

// Tokopedia fulfillment service API wire types. Responses carry a header
// block with process time and an optional error message list.

// tokopediaBaseResponse is the envelope shared by all responses
type tokopediaBaseResponse struct {
	Header struct {
		ProcessTime float64  `json:"process_time"`
		Messages    string   `json:"messages"`
		Reason      string   `json:"reason"`
		ErrorCode   string   `json:"error_code"`
	} `json:"header"`
}

// IsSuccess reports whether the call succeeded
func (r *tokopediaBaseResponse) IsSuccess() bool {
	return r.Header.ErrorCode == "" || r.Header.ErrorCode == "0"
}

// tokopediaStockUpdate is one entry of a stock update request
type tokopediaStockUpdate struct {
	ProductID int64 `json:"product_id"`
	NewStock  int   `json:"new_stock"`
}

// tokopediaConfirmShippingRequest is the body for the status endpoint when
// confirming shipment
type tokopediaConfirmShippingRequest struct {
	OrderStatus    int    `json:"order_status"`
	ShippingRefNum string `json:"shipping_ref_num"`
}

// tokopediaCancelRequest is the body for the nack endpoint
type tokopediaCancelRequest struct {
	ReasonCode int    `json:"reason_code"`
	Reason     string `json:"reason"`
}

// tokopediaOrder is one order of an order list response
type tokopediaOrder struct {
	OrderID     int64  `json:"order_id"`
	InvoiceNum  string `json:"invoice_num"`
	OrderStatus string `json:"order_status"`
	AmtTotal    string `json:"amt_total"`
	Buyer       struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	} `json:"buyer"`
	Recipient struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Address struct {
			AddressFull string `json:"address_full"`
		} `json:"address"`
	} `json:"recipient"`
	ShippingRefNum string `json:"shipping_ref_num"`
	CreateTime     int64  `json:"create_time"`
	UpdateTime     int64  `json:"update_time"`
	Products       []struct {
		ID       int64  `json:"id"`
		SKU      string `json:"sku"`
		Name     string `json:"name"`
		Quantity int    `json:"quantity"`
		Price    string `json:"price"`
	} `json:"products"`
}

// tokopediaOrderListResponse is the response of the order list endpoint
type tokopediaOrderListResponse struct {
	tokopediaBaseResponse
	Data []tokopediaOrder `json:"data"`
}

// tokopediaOrderDetailResponse is the response of the single order endpoint
type tokopediaOrderDetailResponse struct {
	tokopediaBaseResponse
	Data tokopediaOrder `json:"data"`
}

// tokopediaProductListResponse is the response of the product list endpoint
type tokopediaProductListResponse struct {
	tokopediaBaseResponse
	Data struct {
		TotalData int64 `json:"total_data"`
	} `json:"data"`
}
