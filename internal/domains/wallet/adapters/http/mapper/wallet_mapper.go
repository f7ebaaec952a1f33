package mapper

import (
	"time"

	walletdomain "github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	walletports "github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// Balance is the data payload of GET /wallet/balance.
type Balance struct {
	CustomerID        int64   `json:"customer_id"`
	CurrenciesBalance float64 `json:"currencies_balance"`
}

// UpdateResult is the data payload of a balance change.
type UpdateResult struct {
	CustomerID    int64   `json:"customer_id"`
	OldBalance    float64 `json:"old_balance"`
	NewBalance    float64 `json:"new_balance"`
	TransactionID int64   `json:"transaction_id"`
}

type Transaction struct {
	ID              int64     `json:"id"`
	Amount          float64   `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	Description     string    `json:"description"`
	BalanceBefore   float64   `json:"balance_before"`
	BalanceAfter    float64   `json:"balance_after"`
	CreatedAt       time.Time `json:"created_at"`
}

type TransactionList struct {
	TotalCount   int64         `json:"total_count"`
	Page         int           `json:"page"`
	PageSize     int           `json:"page_size"`
	Transactions []Transaction `json:"transactions"`
}

func ToTransportBalance(b walletdomain.Balance) Balance {
	return Balance{CustomerID: b.CustomerID, CurrenciesBalance: b.Amount.InexactFloat64()}
}

func ToTransportUpdate(r *walletports.UpdateResult) UpdateResult {
	return UpdateResult{
		CustomerID:    r.CustomerID,
		OldBalance:    r.OldBalance.InexactFloat64(),
		NewBalance:    r.NewBalance.InexactFloat64(),
		TransactionID: r.TransactionID,
	}
}

func ToTransportTransactions(page *pagination.Page[*walletdomain.Transaction]) TransactionList {
	out := TransactionList{
		TotalCount:   page.TotalCount,
		Page:         page.Page,
		PageSize:     page.PageSize,
		Transactions: make([]Transaction, 0, len(page.Items)),
	}
	for _, tx := range page.Items {
		out.Transactions = append(out.Transactions, Transaction{
			ID:              tx.ID,
			Amount:          tx.Amount.InexactFloat64(),
			TransactionType: string(tx.Type),
			Description:     tx.Description,
			BalanceBefore:   tx.BalanceBefore.InexactFloat64(),
			BalanceAfter:    tx.BalanceAfter.InexactFloat64(),
			CreatedAt:       tx.CreatedAt,
		})
	}
	return out
}
