package api

import (
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	dropshipserver "github.com/Apurer/dropship-order-service/go"
	"github.com/Apurer/dropship-order-service/internal/domains/auth/adapters/http/middleware"
	authports "github.com/Apurer/dropship-order-service/internal/domains/auth/ports"
	orderports "github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/platform/metrics"
	apierrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
)

// Services is everything the HTTP surface depends on.
type Services struct {
	Orders        orderports.Service
	Wallet        walletports.Service
	Authenticator authports.Authenticator
	HealthChecks  map[string]dropshipserver.HealthCheck
	Metrics       *metrics.HTTPMetrics
	Logger        *slog.Logger
	ServiceName   string
}

// NewRouter assembles the gin engine: tracing, request ids, metrics and
// access logs run on every request, bearer auth on every non-public route.
func NewRouter(s Services) *gin.Engine {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	handlers := dropshipserver.ApiHandleFunctions{
		SystemAPI: dropshipserver.NewSystemAPI(s.HealthChecks),
		OrderAPI:  dropshipserver.NewOrderAPI(s.Orders),
		WalletAPI: dropshipserver.NewWalletAPI(s.Wallet),
	}

	opts := dropshipserver.RouterOptions{
		Authenticate: middleware.RequireBearer(s.Authenticator, apierrors.DefaultResponder),
	}
	if s.ServiceName != "" {
		opts.Middleware = append(opts.Middleware, otelgin.Middleware(s.ServiceName))
	}
	opts.Middleware = append(opts.Middleware, dropshipserver.RequestID())
	if s.Metrics != nil {
		opts.Middleware = append(opts.Middleware, s.Metrics.Middleware())
		opts.Metrics = s.Metrics.Handler()
	}
	opts.Middleware = append(opts.Middleware, dropshipserver.AccessLog(logger))

	return dropshipserver.NewRouter(handlers, opts)
}
