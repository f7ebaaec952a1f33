package mapper

import (
	"time"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
)

// LineItem is the transport shape of an order product row.
type LineItem struct {
	ProductID       int64   `json:"product_id"`
	Name            *string `json:"name,omitempty"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	FinalPrice      float64 `json:"final_price"`
	Model           string  `json:"model"`
	PurchaseOrderID string  `json:"po_id"`
}

// OrderSummary is one row of an order listing. Status fields other than the
// lifecycle status are present only when the view exposes them.
type OrderSummary struct {
	OrderID        int64      `json:"order_id"`
	OrderSerial    string     `json:"order_serial"`
	DatePurchased  time.Time  `json:"date_purchased"`
	Status         string     `json:"status"`
	StatusPayment  *string    `json:"status_payment,omitempty"`
	StatusShipping *string    `json:"status_shipping,omitempty"`
	StatusReturn   *string    `json:"status_return,omitempty"`
	StatusDispute  *string    `json:"status_dispute,omitempty"`
	TotalQuantity  int        `json:"total_quantity"`
	Products       []LineItem `json:"products"`
}

// OrderList is the listing envelope.
type OrderList struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Orders     []OrderSummary `json:"orders"`
}

// OrderDetail is the single-order lookup response.
type OrderDetail struct {
	OrderID       int64      `json:"order_id"`
	OrderSerial   string     `json:"order_serial"`
	BuyerID       int64      `json:"buyer_id"`
	SellerID      int64      `json:"seller_id"`
	Status        string     `json:"status"`
	DatePurchased time.Time  `json:"date_purchased"`
	ChinaProcess  string     `json:"china_process"`
	TotalQuantity int        `json:"total_quantity"`
	Products      []LineItem `json:"products"`
}

// ToTransportList projects a listing page through the view's field set.
func ToTransportList(list *ports.OrderList) OrderList {
	out := OrderList{
		TotalCount: list.Orders.TotalCount,
		Page:       list.Orders.Page,
		PageSize:   list.Orders.PageSize,
		Orders:     make([]OrderSummary, 0, len(list.Orders.Items)),
	}
	for _, order := range list.Orders.Items {
		out.Orders = append(out.Orders, ToTransportSummary(list.View, order))
	}
	return out
}

// ToTransportSummary maps one order under view.
func ToTransportSummary(view domain.View, order *domain.Order) OrderSummary {
	summary := OrderSummary{
		OrderID:       order.ID,
		OrderSerial:   order.Serial,
		DatePurchased: order.DatePurchased,
		Status:        string(order.Status.Lifecycle),
		TotalQuantity: order.TotalQuantity(),
		Products:      toLineItems(order.LineItems, false),
	}
	summary.StatusPayment = exposed(view, domain.AxisPayment, order.Status)
	summary.StatusShipping = exposed(view, domain.AxisShipping, order.Status)
	summary.StatusReturn = exposed(view, domain.AxisReturn, order.Status)
	summary.StatusDispute = exposed(view, domain.AxisDispute, order.Status)
	return summary
}

// ToTransportDetail maps a looked-up order including product names.
func ToTransportDetail(order *domain.Order) OrderDetail {
	return OrderDetail{
		OrderID:       order.ID,
		OrderSerial:   order.Serial,
		BuyerID:       order.BuyerID,
		SellerID:      order.SellerID,
		Status:        string(order.Status.Lifecycle),
		DatePurchased: order.DatePurchased,
		ChinaProcess:  order.ChinaProcess,
		TotalQuantity: order.TotalQuantity(),
		Products:      toLineItems(order.LineItems, true),
	}
}

func exposed(view domain.View, axis domain.Axis, statuses domain.Statuses) *string {
	if !view.Exposes(axis) {
		return nil
	}
	code := string(statuses.Get(axis))
	return &code
}

func toLineItems(items []domain.LineItem, withName bool) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		li := LineItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			Price:           item.UnitPrice.InexactFloat64(),
			FinalPrice:      item.FinalPrice.InexactFloat64(),
			Model:           item.Model,
			PurchaseOrderID: item.PurchaseOrderID,
		}
		if withName {
			name := item.Name
			li.Name = &name
		}
		out = append(out, li)
	}
	return out
}
