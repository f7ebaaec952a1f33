package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Axis names one of the five independent status dimensions of an order.
type Axis string

const (
	AxisLifecycle Axis = "status"
	AxisPayment   Axis = "payment"
	AxisShipping  Axis = "shipping"
	AxisReturn    Axis = "return"
	AxisDispute   Axis = "dispute"
)

// Code is a status value on one axis. The known sets are listed below; rows
// carrying other codes are still returned untouched.
type Code string

// Lifecycle codes.
const (
	LifecycleOS        Code = "OS"
	LifecycleOB        Code = "OB"
	LifecycleCancelled Code = "OC"
)

// Payment codes.
const (
	PaymentUnpaid Code = "PU"
	PaymentPaid   Code = "PD"
)

// Shipping codes.
const (
	ShippingShipped   Code = "SS"
	ShippingUnshipped Code = "SU"
	ShippingPartial   Code = "SP"
)

// Return codes.
const (
	ReturnRA Code = "RA"
	ReturnRR Code = "RR"
	ReturnRC Code = "RC"
	ReturnRS Code = "RS"
	ReturnRD Code = "RD"
)

// Dispute codes.
const (
	DisputeDP Code = "DP"
	DisputeDD Code = "DD"
	DisputeDN Code = "DN"
	DisputeAD Code = "AD"
)

// Statuses carries one code per axis.
type Statuses struct {
	Lifecycle Code
	Payment   Code
	Shipping  Code
	Return    Code
	Dispute   Code
}

// Get returns the code held on axis.
func (s Statuses) Get(axis Axis) Code {
	switch axis {
	case AxisLifecycle:
		return s.Lifecycle
	case AxisPayment:
		return s.Payment
	case AxisShipping:
		return s.Shipping
	case AxisReturn:
		return s.Return
	case AxisDispute:
		return s.Dispute
	default:
		return ""
	}
}

// Order is a marketplace order placed through the platform.
type Order struct {
	ID            int64
	Serial        string
	BuyerID       int64
	SellerID      int64
	Source        int
	DatePurchased time.Time
	LastModified  time.Time
	CurrencyValue decimal.Decimal
	ShippingFee   decimal.Decimal
	AmazonOrderID string
	DeliveryName  string
	ChinaProcess  string
	Status        Statuses
	LineItems     []LineItem
}

// LineItem is one product row of an order. Line items live and die with their order.
type LineItem struct {
	ProductID       int64
	PurchaseOrderID string
	Model           string
	Name            string
	Quantity        int
	UnitPrice       decimal.Decimal
	FinalPrice      decimal.Decimal
}

// TotalQuantity sums line-item quantities.
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.LineItems {
		total += item.Quantity
	}
	return total
}

// Total is currency value plus shipping fee, the price sort key.
func (o *Order) Total() decimal.Decimal {
	return o.CurrencyValue.Add(o.ShippingFee)
}

// Clone deep-copies the order including its line items.
func (o *Order) Clone() *Order {
	clone := *o
	if o.LineItems != nil {
		clone.LineItems = append([]LineItem(nil), o.LineItems...)
	}
	return &clone
}
