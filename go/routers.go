package dropshipserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Public routes skip bearer authentication.
	Public bool
}

// ApiHandleFunctions groups the handlers of every API section.
type ApiHandleFunctions struct {
	// Routes for the SystemAPI part of the API
	SystemAPI SystemAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the WalletAPI part of the API
	WalletAPI WalletAPI
}

// RouterOptions carries cross-cutting handlers.
type RouterOptions struct {
	// Authenticate runs before every non-public route.
	Authenticate gin.HandlerFunc
	// Middleware is installed globally, in order, after panic recovery.
	Middleware []gin.HandlerFunc
	// Metrics is served on GET /metrics when set.
	Metrics gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, opts)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, opts RouterOptions) *gin.Engine {
	registerValidatorTagNames()
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		apierrors.Respond(c, apierrors.ErrInternal)
	}))
	router.Use(opts.Middleware...)

	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		chain := make([]gin.HandlerFunc, 0, 2)
		if !route.Public && opts.Authenticate != nil {
			chain = append(chain, opts.Authenticate)
		}
		chain = append(chain, route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, chain...)
	}
	if opts.Metrics != nil {
		router.GET("/metrics", opts.Metrics)
	}
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithDetail("route not found"))
	})
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Root",
			http.MethodGet,
			"/",
			handleFunctions.SystemAPI.Root,
			true,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.SystemAPI.Healthz,
			true,
		},
		{
			"GetAllOrders",
			http.MethodGet,
			"/orders/get-all-orders",
			handleFunctions.OrderAPI.GetAllOrders,
			false,
		},
		{
			"GetUnpaidOrders",
			http.MethodGet,
			"/orders/get-unpaid-orders",
			handleFunctions.OrderAPI.GetUnpaidOrders,
			false,
		},
		{
			"GetConfirmedOrders",
			http.MethodGet,
			"/orders/get-confirmed-orders",
			handleFunctions.OrderAPI.GetWaitForConfirmOrders,
			false,
		},
		{
			"GetUnshippedOrders",
			http.MethodGet,
			"/orders/get-unshipped-orders",
			handleFunctions.OrderAPI.GetWaitForShippingOrders,
			false,
		},
		{
			"GetReturnedOrders",
			http.MethodGet,
			"/orders/get-returned-orders",
			handleFunctions.OrderAPI.GetReturnOrDisputeOrders,
			false,
		},
		{
			"GetCombinedPaymentOrders",
			http.MethodGet,
			"/orders/get-combined-payment-orders",
			handleFunctions.OrderAPI.GetCombinedPaymentOrders,
			false,
		},
		{
			"GetCancelledOrders",
			http.MethodGet,
			"/orders/get-cancelled-orders",
			handleFunctions.OrderAPI.GetCancelledOrders,
			false,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/order/:id",
			handleFunctions.OrderAPI.GetOrder,
			false,
		},
		{
			"GetWalletBalance",
			http.MethodGet,
			"/wallet/balance",
			handleFunctions.WalletAPI.GetBalance,
			false,
		},
		{
			"UpdateWalletBalance",
			http.MethodPost,
			"/wallet/update",
			handleFunctions.WalletAPI.UpdateBalance,
			false,
		},
		{
			"RechargeWallet",
			http.MethodPost,
			"/wallet/recharge",
			handleFunctions.WalletAPI.Recharge,
			false,
		},
		{
			"GetWalletTransactions",
			http.MethodGet,
			"/wallet/transactions",
			handleFunctions.WalletAPI.ListTransactions,
			false,
		},
	}
}
