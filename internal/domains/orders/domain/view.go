package domain

import "errors"

var ErrUnknownView = errors.New("unknown order view")

// ViewName identifies one of the fixed order listings.
type ViewName string

const (
	ViewAll             ViewName = "all"
	ViewUnpaid          ViewName = "unpaid"
	ViewWaitForConfirm  ViewName = "wait-for-confirm"
	ViewWaitForShipping ViewName = "wait-for-shipping"
	ViewReturnOrDispute ViewName = "return-or-dispute"
	ViewCombinedPayment ViewName = "combined-payment"
	ViewCancelled       ViewName = "cancelled"
)

// View pairs a status predicate with the status axes its listing exposes
// besides the lifecycle status.
type View struct {
	Name      ViewName
	Predicate Predicate
	Fields    []Axis
}

// Exposes reports whether the listing includes axis. The lifecycle status is
// always present.
func (v View) Exposes(axis Axis) bool {
	if axis == AxisLifecycle {
		return true
	}
	for _, field := range v.Fields {
		if field == axis {
			return true
		}
	}
	return false
}

var openLifecycle = OneOf(AxisLifecycle, LifecycleOS, LifecycleOB)

var views = []View{
	{
		Name:   ViewAll,
		Fields: []Axis{AxisPayment, AxisShipping, AxisReturn, AxisDispute},
	},
	{
		Name:      ViewUnpaid,
		Predicate: Eq(AxisPayment, PaymentUnpaid),
		Fields:    []Axis{AxisPayment},
	},
	{
		Name: ViewWaitForConfirm,
		Predicate: And(
			openLifecycle,
			Eq(AxisPayment, PaymentPaid),
			Eq(AxisShipping, ShippingShipped),
		),
		Fields: []Axis{AxisPayment, AxisShipping},
	},
	{
		Name: ViewWaitForShipping,
		Predicate: And(
			openLifecycle,
			Eq(AxisPayment, PaymentPaid),
			OneOf(AxisShipping, ShippingUnshipped, ShippingPartial),
		),
		Fields: []Axis{AxisPayment, AxisShipping},
	},
	{
		Name: ViewReturnOrDispute,
		Predicate: Or(
			OneOf(AxisReturn, ReturnRA, ReturnRR, ReturnRC, ReturnRS, ReturnRD),
			OneOf(AxisDispute, DisputeDP, DisputeDD),
		),
		Fields: []Axis{AxisReturn, AxisDispute},
	},
	{
		Name: ViewCombinedPayment,
		Predicate: And(
			openLifecycle,
			Eq(AxisPayment, PaymentUnpaid),
			OneOf(AxisDispute, DisputeDN, DisputeAD, DisputeDD),
		),
		Fields: []Axis{AxisPayment, AxisDispute},
	},
	{
		Name:      ViewCancelled,
		Predicate: Eq(AxisLifecycle, LifecycleCancelled),
	},
}

// LookupView returns the view registered under name.
func LookupView(name ViewName) (View, bool) {
	for _, v := range views {
		if v.Name == name {
			return v, true
		}
	}
	return View{}, false
}

// Views lists every registered view.
func Views() []View {
	return append([]View(nil), views...)
}
