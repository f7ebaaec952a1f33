package dropshipserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	wallethttpmapper "github.com/Apurer/dropship-order-service/internal/domains/wallet/adapters/http/mapper"
	walletapp "github.com/Apurer/dropship-order-service/internal/domains/wallet/application"
	walletdomain "github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	apierrors "github.com/Apurer/dropship-order-service/internal/shared/errors"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

const invalidTransactionTypeFilter = "Invalid transaction_type. Must be 'add', 'subtract', or omitted for all transactions."

// WalletUpdateRequest is the body of POST /wallet/update.
type WalletUpdateRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	TransactionType string  `json:"transaction_type" binding:"required"`
	Description     string  `json:"description" binding:"omitempty,max=255"`
}

// WalletRechargeRequest is the body of POST /wallet/recharge.
type WalletRechargeRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" binding:"omitempty,max=64"`
}

// WalletEnvelope wraps every successful wallet response.
type WalletEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// WalletAPI implements the wallet endpoints for the authenticated customer.
type WalletAPI struct {
	service walletports.Service
}

// NewWalletAPI wires dependencies.
func NewWalletAPI(service walletports.Service) WalletAPI {
	return WalletAPI{service: service}
}

// Get /wallet/balance
func (api *WalletAPI) GetBalance(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	result, err := api.service.GetBalance(c.Request.Context(), identity.CustomerID)
	if err != nil {
		walletResponder.RespondError(c, err)
		return
	}
	envelope := WalletEnvelope{Success: true, Data: wallethttpmapper.ToTransportBalance(result.Balance)}
	if !result.Found {
		envelope.Message = "Balance not found"
	}
	c.JSON(http.StatusOK, envelope)
}

// Post /wallet/update
func (api *WalletAPI) UpdateBalance(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req WalletUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	api.apply(c, walletports.UpdateCommand{
		CustomerID:  identity.CustomerID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Type:        req.TransactionType,
		Description: req.Description,
	}, func(r *walletports.UpdateResult) string {
		return fmt.Sprintf("Wallet balance %sed successfully", r.Type)
	})
}

// Post /wallet/recharge
// A recharge is an add whose description names the payment method.
func (api *WalletAPI) Recharge(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req WalletRechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	description := "Wallet recharge"
	if method := strings.TrimSpace(req.PaymentMethod); method != "" {
		description += " via " + method
	}
	api.apply(c, walletports.UpdateCommand{
		CustomerID:  identity.CustomerID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Type:        string(walletdomain.TransactionAdd),
		Description: description,
	}, func(*walletports.UpdateResult) string {
		return "Wallet recharged successfully"
	})
}

func (api *WalletAPI) apply(c *gin.Context, cmd walletports.UpdateCommand, message func(*walletports.UpdateResult) string) {
	result, err := api.service.UpdateBalance(c.Request.Context(), cmd)
	if err != nil {
		walletResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, WalletEnvelope{
		Success: true,
		Data:    wallethttpmapper.ToTransportUpdate(result),
		Message: message(result),
	})
}

// Get /wallet/transactions
func (api *WalletAPI) ListTransactions(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	page, err := pagination.Parse(c.Query("page"), c.Query("page_size"))
	if err != nil {
		walletResponder.RespondError(c, fmt.Errorf("%w: %w", walletapp.ErrInvalidInput, err))
		return
	}
	result, err := api.service.ListTransactions(c.Request.Context(), walletports.TransactionQuery{
		CustomerID: identity.CustomerID,
		Type:       c.Query("transaction_type"),
		Page:       page,
	})
	if err != nil {
		if errors.Is(err, walletdomain.ErrInvalidTransactionType) {
			apierrors.DefaultResponder.BadRequest(c, invalidTransactionTypeFilter)
			return
		}
		walletResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, WalletEnvelope{Success: true, Data: wallethttpmapper.ToTransportTransactions(result)})
}
