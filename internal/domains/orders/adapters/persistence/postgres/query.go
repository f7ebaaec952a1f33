package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
)

var axisColumns = map[domain.Axis]string{
	domain.AxisLifecycle: "orders_status",
	domain.AxisPayment:   "orders_status_payment",
	domain.AxisShipping:  "orders_status_shipping",
	domain.AxisReturn:    "orders_status_return",
	domain.AxisDispute:   "orders_status_dispute",
}

var sortColumns = map[domain.SortField]string{
	domain.SortLastModified:  "last_modified",
	domain.SortDatePurchased: "date_purchased",
	domain.SortTotal:         "(currency_value + orders_shipping_fee)",
	domain.SortSerial:        "orders_serial",
}

// applyFilters narrows tx to the rows matched by q. Sorting and paging are left to the caller.
func applyFilters(tx *gorm.DB, q domain.Query) (*gorm.DB, error) {
	if buyerID, ok := q.Scope.BuyerID(); ok {
		tx = tx.Where("orders_buyer_id = ?", buyerID)
	}
	if q.Status != nil {
		sql, args, err := predicateSQL(q.Status)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(sql, args...)
	}
	if q.Purchased.From != nil {
		tx = tx.Where("date_purchased >= ?", *q.Purchased.From)
	}
	if q.Purchased.To != nil {
		tx = tx.Where("date_purchased <= ?", *q.Purchased.To)
	}
	if term := strings.TrimSpace(q.Search); term != "" {
		tx = tx.Where("(amazon_order_id = ? OR orders_serial = ? OR delivery_name ILIKE ?)",
			term, term, "%"+escapeLike(term)+"%")
	}
	if q.Source != nil {
		tx = tx.Where("source = ?", *q.Source)
	}
	return tx, nil
}

// applySort orders by the requested field with the order id as tiebreaker.
func applySort(tx *gorm.DB, s domain.Sort) *gorm.DB {
	column, ok := sortColumns[s.Field]
	if !ok {
		s = domain.DefaultSort
		column = sortColumns[s.Field]
	}
	direction := "ASC"
	if s.Descending {
		direction = "DESC"
	}
	return tx.Order(column + " " + direction).Order("orders_id DESC")
}

// predicateSQL renders a status predicate as a parenthesized WHERE fragment.
func predicateSQL(p domain.Predicate) (string, []any, error) {
	switch p := p.(type) {
	case domain.Equals:
		column, err := axisColumn(p.Axis)
		if err != nil {
			return "", nil, err
		}
		return column + " = ?", []any{string(p.Code)}, nil
	case domain.In:
		column, err := axisColumn(p.Axis)
		if err != nil {
			return "", nil, err
		}
		if len(p.Codes) == 0 {
			return "1 = 0", nil, nil
		}
		codes := make([]string, 0, len(p.Codes))
		for _, code := range p.Codes {
			codes = append(codes, string(code))
		}
		return column + " IN ?", []any{codes}, nil
	case domain.AnyOf:
		return joinPredicates([]domain.Predicate(p), " OR ", "1 = 0")
	case domain.AllOf:
		return joinPredicates([]domain.Predicate(p), " AND ", "1 = 1")
	default:
		return "", nil, fmt.Errorf("unsupported status predicate %T", p)
	}
}

func joinPredicates(preds []domain.Predicate, sep, empty string) (string, []any, error) {
	parts := make([]string, 0, len(preds))
	var args []any
	for _, pred := range preds {
		if pred == nil {
			continue
		}
		sql, predArgs, err := predicateSQL(pred)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		args = append(args, predArgs...)
	}
	if len(parts) == 0 {
		return empty, nil, nil
	}
	return "(" + strings.Join(parts, sep) + ")", args, nil
}

func axisColumn(axis domain.Axis) (string, error) {
	column, ok := axisColumns[axis]
	if !ok {
		return "", fmt.Errorf("unknown status axis %q", axis)
	}
	return column, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
