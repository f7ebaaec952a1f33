package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/wallet/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

var _ ports.Store = (*Store)(nil)

// Store keeps balances and the ledger in PostgreSQL. Concurrent updates of
// one customer are serialized by a row lock on customer_balance.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed wallet store. Caller manages DB lifecycle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

type balanceRecord struct {
	CustomerID int64           `gorm:"primaryKey;column:customer_id;autoIncrement:false"`
	Balance    decimal.Decimal `gorm:"column:currencies_balance;type:numeric(12,2)"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at"`
}

func (balanceRecord) TableName() string { return "customer_balance" }

type transactionRecord struct {
	ID            int64           `gorm:"primaryKey;column:id"`
	CustomerID    int64           `gorm:"column:customer_id"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2)"`
	Type          string          `gorm:"column:transaction_type"`
	Description   string          `gorm:"column:description"`
	BalanceBefore decimal.Decimal `gorm:"column:balance_before;type:numeric(12,2)"`
	BalanceAfter  decimal.Decimal `gorm:"column:balance_after;type:numeric(12,2)"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

func (transactionRecord) TableName() string { return "wallet_transactions" }

// Apply runs the balance change in one database transaction: the balance row
// is created if missing, locked FOR UPDATE, rewritten and the ledger row
// inserted. Any failure rolls everything back, including a freshly created row.
func (s *Store) Apply(ctx context.Context, customerID int64, mutate ports.MutateFunc) (*domain.Transaction, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if mutate == nil {
		return nil, errors.New("mutate func is nil")
	}
	var out *domain.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := balanceRecord{CustomerID: customerID, Balance: decimal.Zero}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}
		var current balanceRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "customer_id = ?", customerID).Error; err != nil {
			return err
		}

		ledger, err := mutate(domain.Balance{CustomerID: customerID, Amount: current.Balance})
		if err != nil {
			return err
		}
		if ledger == nil {
			return errors.New("mutate returned no transaction")
		}

		if err := tx.Model(&balanceRecord{}).
			Where("customer_id = ?", customerID).
			Updates(map[string]any{
				"currencies_balance": ledger.BalanceAfter,
				"updated_at":         time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		rec := toTransactionRecord(customerID, ledger)
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		out = rec.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetBalance reads the balance row without creating it.
func (s *Store) GetBalance(ctx context.Context, customerID int64) (*domain.Balance, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var rec balanceRecord
	if err := s.db.WithContext(ctx).First(&rec, "customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrBalanceNotFound
		}
		return nil, err
	}
	return &domain.Balance{CustomerID: rec.CustomerID, Amount: rec.Balance}, nil
}

// ListTransactions counts the filtered ledger, then loads one page newest first.
func (s *Store) ListTransactions(ctx context.Context, filter ports.TransactionFilter) ([]*domain.Transaction, int64, error) {
	if err := s.ensureDB(); err != nil {
		return nil, 0, err
	}
	page := filter.Page
	if page == (pagination.Request{}) {
		page = pagination.Default()
	}

	var total int64
	if err := filterTransactions(s.db.WithContext(ctx), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.Transaction{}, 0, nil
	}

	var records []transactionRecord
	if err := newestFirst(filterTransactions(s.db.WithContext(ctx), filter)).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	out := make([]*domain.Transaction, 0, len(records))
	for i := range records {
		out = append(out, records[i].toDomain())
	}
	return out, total, nil
}

func filterTransactions(db *gorm.DB, filter ports.TransactionFilter) *gorm.DB {
	tx := db.Model(&transactionRecord{}).Where("customer_id = ?", filter.CustomerID)
	if filter.Type != nil {
		tx = tx.Where("transaction_type = ?", string(*filter.Type))
	}
	return tx
}

func newestFirst(tx *gorm.DB) *gorm.DB {
	return tx.Order("created_at DESC").Order("id DESC")
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres wallet store not configured")
	}
	return nil
}

func toTransactionRecord(customerID int64, t *domain.Transaction) transactionRecord {
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return transactionRecord{
		CustomerID:    customerID,
		Amount:        t.Amount,
		Type:          string(t.Type),
		Description:   t.Description,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		CreatedAt:     created,
	}
}

func (r transactionRecord) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:            r.ID,
		CustomerID:    r.CustomerID,
		Amount:        r.Amount,
		Type:          domain.TransactionType(r.Type),
		Description:   r.Description,
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
		CreatedAt:     r.CreatedAt,
	}
}
