package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/domains/orders/ports"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository reads orders from PostgreSQL using GORM. Schema is owned by the
// migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID                   int64           `gorm:"primaryKey;column:orders_id"`
	Serial               string          `gorm:"column:orders_serial"`
	BuyerID              int64           `gorm:"column:orders_buyer_id"`
	SellerID             int64           `gorm:"column:orders_seller_id"`
	Source               int             `gorm:"column:source"`
	DatePurchased        time.Time       `gorm:"column:date_purchased"`
	LastModified         time.Time       `gorm:"column:last_modified"`
	CurrencyValue        decimal.Decimal `gorm:"column:currency_value;type:numeric(12,2)"`
	ShippingFee          decimal.Decimal `gorm:"column:orders_shipping_fee;type:numeric(12,2)"`
	AmazonOrderID        string          `gorm:"column:amazon_order_id"`
	DeliveryName         string          `gorm:"column:delivery_name"`
	ChinaProcess         string          `gorm:"column:china_process"`
	OrdersStatus         string          `gorm:"column:orders_status"`
	OrdersStatusPayment  string          `gorm:"column:orders_status_payment"`
	OrdersStatusShipping string          `gorm:"column:orders_status_shipping"`
	OrdersStatusReturn   string          `gorm:"column:orders_status_return"`
	OrdersStatusDispute  string          `gorm:"column:orders_status_dispute"`
	Products             []productRecord `gorm:"foreignKey:OrderID;references:ID"`
}

func (orderRecord) TableName() string { return "orders" }

type productRecord struct {
	ID              int64           `gorm:"primaryKey;column:orders_products_id"`
	OrderID         int64           `gorm:"column:orders_id"`
	ProductID       int64           `gorm:"column:product_id"`
	PurchaseOrderID string          `gorm:"column:po_id"`
	Model           string          `gorm:"column:product_model"`
	Name            string          `gorm:"column:pd_name"`
	Quantity        int             `gorm:"column:product_quantity"`
	Price           decimal.Decimal `gorm:"column:product_price;type:numeric(12,2)"`
	FinalPrice      decimal.Decimal `gorm:"column:final_price;type:numeric(12,2)"`
}

func (productRecord) TableName() string { return "order_products" }

// Find runs a COUNT over the filtered set, then loads the requested page with line items.
func (r *Repository) Find(ctx context.Context, q domain.Query) ([]*domain.Order, int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, 0, err
	}
	page := q.Page
	if page == (pagination.Request{}) {
		page = pagination.Default()
	}

	counted, err := applyFilters(r.db.WithContext(ctx).Model(&orderRecord{}), q)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := counted.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*domain.Order{}, 0, nil
	}

	listed, err := applyFilters(r.db.WithContext(ctx).Model(&orderRecord{}), q)
	if err != nil {
		return nil, 0, err
	}
	var records []orderRecord
	if err := applySort(listed, q.Sort).
		Preload("Products", orderedProducts).
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, total, nil
}

// GetByID fetches an order with its line items.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).
		Preload("Products", orderedProducts).
		First(&record, "orders_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Create inserts an order together with its line items. The service never
// writes orders; integration tests seed fixtures through it.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func orderedProducts(tx *gorm.DB) *gorm.DB {
	return tx.Order("orders_products_id")
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:                   order.ID,
		Serial:               order.Serial,
		BuyerID:              order.BuyerID,
		SellerID:             order.SellerID,
		Source:               order.Source,
		DatePurchased:        order.DatePurchased,
		LastModified:         order.LastModified,
		CurrencyValue:        order.CurrencyValue,
		ShippingFee:          order.ShippingFee,
		AmazonOrderID:        order.AmazonOrderID,
		DeliveryName:         order.DeliveryName,
		ChinaProcess:         order.ChinaProcess,
		OrdersStatus:         string(order.Status.Lifecycle),
		OrdersStatusPayment:  string(order.Status.Payment),
		OrdersStatusShipping: string(order.Status.Shipping),
		OrdersStatusReturn:   string(order.Status.Return),
		OrdersStatusDispute:  string(order.Status.Dispute),
	}
	if rec.LastModified.IsZero() {
		rec.LastModified = time.Now().UTC()
	}
	for _, item := range order.LineItems {
		rec.Products = append(rec.Products, productRecord{
			ProductID:       item.ProductID,
			PurchaseOrderID: item.PurchaseOrderID,
			Model:           item.Model,
			Name:            item.Name,
			Quantity:        item.Quantity,
			Price:           item.UnitPrice,
			FinalPrice:      item.FinalPrice,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:            r.ID,
		Serial:        r.Serial,
		BuyerID:       r.BuyerID,
		SellerID:      r.SellerID,
		Source:        r.Source,
		DatePurchased: r.DatePurchased,
		LastModified:  r.LastModified,
		CurrencyValue: r.CurrencyValue,
		ShippingFee:   r.ShippingFee,
		AmazonOrderID: r.AmazonOrderID,
		DeliveryName:  r.DeliveryName,
		ChinaProcess:  r.ChinaProcess,
		Status: domain.Statuses{
			Lifecycle: domain.Code(r.OrdersStatus),
			Payment:   domain.Code(r.OrdersStatusPayment),
			Shipping:  domain.Code(r.OrdersStatusShipping),
			Return:    domain.Code(r.OrdersStatusReturn),
			Dispute:   domain.Code(r.OrdersStatusDispute),
		},
		LineItems: make([]domain.LineItem, 0, len(r.Products)),
	}
	for _, p := range r.Products {
		order.LineItems = append(order.LineItems, domain.LineItem{
			ProductID:       p.ProductID,
			PurchaseOrderID: p.PurchaseOrderID,
			Model:           p.Model,
			Name:            p.Name,
			Quantity:        p.Quantity,
			UnitPrice:       p.Price,
			FinalPrice:      p.FinalPrice,
		})
	}
	return order
}
