package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// Scope restricts a query to one buyer or lets it span all buyers.
type Scope struct {
	buyerID int64
	scoped  bool
}

// Scoped limits results to orders owned by buyerID.
func Scoped(buyerID int64) Scope { return Scope{buyerID: buyerID, scoped: true} }

// Unscoped applies no ownership filter.
func Unscoped() Scope { return Scope{} }

// ScopeFor resolves a caller's customer id. Customer 0 is the platform
// administrator and sees every buyer's orders.
func ScopeFor(customerID int64) Scope {
	if customerID == 0 {
		return Unscoped()
	}
	return Scoped(customerID)
}

// BuyerID returns the owning buyer and whether the scope is restricted.
func (s Scope) BuyerID() (int64, bool) { return s.buyerID, s.scoped }

// Allows reports whether o is visible under the scope.
func (s Scope) Allows(o *Order) bool { return !s.scoped || o.BuyerID == s.buyerID }

// DateRange holds inclusive purchase-date bounds. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateLayout = "2006-01-02"

// ParseLowerBound parses a from_date value. ok is false when raw is empty or not a date.
func ParseLowerBound(raw string) (time.Time, bool) {
	return parseBound(raw, false)
}

// ParseUpperBound parses a to_date value. A bare date covers that whole day.
func ParseUpperBound(raw string) (time.Time, bool) {
	return parseBound(raw, true)
}

func parseBound(raw string, upper bool) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if day, err := time.Parse(dateLayout, raw); err == nil {
		if upper {
			return day.Add(24*time.Hour - time.Microsecond), true
		}
		return day, true
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var ErrInvalidSource = errors.New("source_option must be ALL or a numeric marketplace code")

// ParseSource reads a source_option value. Empty and ALL mean no filter.
func ParseSource(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return &code, nil
}

// SortField is a column an order listing can be sorted by.
type SortField string

const (
	SortLastModified  SortField = "last_modified"
	SortDatePurchased SortField = "date_purchased"
	SortTotal         SortField = "total"
	SortSerial        SortField = "serial"
)

// Sort is an ordering of a listing.
type Sort struct {
	Field      SortField
	Descending bool
}

// DefaultSort is most recently modified first.
var DefaultSort = Sort{Field: SortLastModified, Descending: true}

var sortTokens = map[string]Sort{
	"date":          {Field: SortDatePurchased},
	"datedesc":      {Field: SortDatePurchased, Descending: true},
	"price":         {Field: SortTotal},
	"pricedesc":     {Field: SortTotal, Descending: true},
	"orderid":       {Field: SortSerial},
	"orderiddesc":   {Field: SortSerial, Descending: true},
	"last_modified": DefaultSort,
}

// ParseSort maps a store_by token to a Sort. Tokens match exactly, so
// "OrderIdDesc" is unknown; unknown tokens fall back to DefaultSort.
func ParseSort(token string) Sort {
	if sort, ok := sortTokens[token]; ok {
		return sort
	}
	return DefaultSort
}

// Query is the full filter, sort and page specification of an order listing.
type Query struct {
	Scope     Scope
	Status    Predicate
	Purchased DateRange
	Search    string
	Source    *int
	Sort      Sort
	Page      pagination.Request
}

// Matches evaluates every filter of q against o.
func (q Query) Matches(o *Order) bool {
	if !q.Scope.Allows(o) {
		return false
	}
	if q.Status != nil && !q.Status.Matches(o.Status) {
		return false
	}
	if !q.Purchased.Contains(o.DatePurchased) {
		return false
	}
	if q.Source != nil && o.Source != *q.Source {
		return false
	}
	return q.matchesSearch(o)
}

// matchesSearch is exact on the marketplace id and serial, and a case-insensitive
// substring on the delivery name.
func (q Query) matchesSearch(o *Order) bool {
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return true
	}
	if o.AmazonOrderID == term || o.Serial == term {
		return true
	}
	return strings.Contains(strings.ToLower(o.DeliveryName), strings.ToLower(term))
}

// Less orders a before b under s. Equal keys fall back to id descending.
func (s Sort) Less(a, b *Order) bool {
	var cmp int
	switch s.Field {
	case SortDatePurchased:
		cmp = a.DatePurchased.Compare(b.DatePurchased)
	case SortTotal:
		cmp = a.Total().Cmp(b.Total())
	case SortSerial:
		cmp = strings.Compare(a.Serial, b.Serial)
	default:
		cmp = a.LastModified.Compare(b.LastModified)
	}
	if cmp == 0 {
		return a.ID > b.ID
	}
	if s.Descending {
		return cmp > 0
	}
	return cmp < 0
}
