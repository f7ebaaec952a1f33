package dropshipserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/Apurer/dropship-order-service/internal/domains/auth/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/auth/adapters/http/middleware"
	orderhttpmapper "github.com/Apurer/dropship-order-service/internal/domains/orders/adapters/http/mapper"
	orderapp "github.com/Apurer/dropship-order-service/internal/domains/orders/application"
	orderdomain "github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// OrderAPI implements the order listing and lookup endpoints.
type OrderAPI struct {
	service orderports.Service
}

// NewOrderAPI wires dependencies.
func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Get /orders/get-all-orders
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewAll)
}

// Get /orders/get-unpaid-orders
func (api *OrderAPI) GetUnpaidOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewUnpaid)
}

// Get /orders/get-confirmed-orders
// Orders paid by the buyer and awaiting confirmation.
func (api *OrderAPI) GetWaitForConfirmOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewWaitForConfirm)
}

// Get /orders/get-unshipped-orders
func (api *OrderAPI) GetWaitForShippingOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewWaitForShipping)
}

// Get /orders/get-returned-orders
func (api *OrderAPI) GetReturnOrDisputeOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewReturnOrDispute)
}

// Get /orders/get-combined-payment-orders
func (api *OrderAPI) GetCombinedPaymentOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewCombinedPayment)
}

// Get /orders/get-cancelled-orders
func (api *OrderAPI) GetCancelledOrders(c *gin.Context) {
	api.list(c, orderdomain.ViewCancelled)
}

// Get /orders/order/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		apierrors.DefaultResponder.BadRequest(c, "order id must be a positive integer")
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), orderdomain.ScopeFor(identity.CustomerID), id)
	if errors.Is(err, orderports.ErrNotFound) {
		orderResponder.NotFound(c, "order", id)
		return
	}
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.ToTransportDetail(order))
}

func (api *OrderAPI) list(c *gin.Context, view orderdomain.ViewName) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	page, err := pagination.Parse(c.Query("page"), c.Query("page_size"))
	if err != nil {
		orderResponder.RespondError(c, fmt.Errorf("%w: %w", orderapp.ErrInvalidInput, err))
		return
	}
	list, err := api.service.ListOrders(c.Request.Context(), orderports.ListOrdersInput{
		View:     view,
		Scope:    orderdomain.ScopeFor(identity.CustomerID),
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		Search:   c.Query("order_search_item"),
		Source:   c.Query("source_option"),
		SortBy:   c.Query("store_by"),
		Page:     page,
	})
	if err != nil {
		orderResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.ToTransportList(list))
}

// requireIdentity reads the authenticated caller, answering 401 when the
// route was reached without one.
func requireIdentity(c *gin.Context) (authdomain.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		apierrors.DefaultResponder.Unauthorized(c, authdomain.ErrUnauthenticated.Error())
		return authdomain.Identity{}, false
	}
	return identity, true
}
