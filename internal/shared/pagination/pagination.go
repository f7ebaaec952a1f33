// Package pagination holds the 1-indexed page request shared by order listings and
// the wallet ledger, plus a generic result page.
package pagination

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var (
	ErrInvalidPage     = errors.New("page must be an integer greater than or equal to 1")
	ErrInvalidPageSize = fmt.Errorf("page_size must be an integer between 1 and %d", MaxPageSize)
)

// Request identifies one page of a filtered result set.
type Request struct {
	Page     int
	PageSize int
}

// Default returns page 1 with the default page size.
func Default() Request {
	return Request{Page: DefaultPage, PageSize: DefaultPageSize}
}

// New validates page bounds.
func New(page, pageSize int) (Request, error) {
	req := Request{Page: page, PageSize: pageSize}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Parse reads raw query values. Empty values take the defaults.
func Parse(rawPage, rawPageSize string) (Request, error) {
	req := Default()
	if raw := strings.TrimSpace(rawPage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, ErrInvalidPage
		}
		req.Page = page
	}
	if raw := strings.TrimSpace(rawPageSize); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return Request{}, ErrInvalidPageSize
		}
		req.PageSize = size
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func (r Request) Validate() error {
	if r.Page < 1 {
		return ErrInvalidPage
	}
	if r.PageSize < 1 || r.PageSize > MaxPageSize {
		return ErrInvalidPageSize
	}
	return nil
}

// Offset is (page-1)*page_size.
func (r Request) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.PageSize
}

func (r Request) Limit() int {
	return r.PageSize
}

// Page is one slice of a result set plus the size of the whole filtered set.
type Page[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	PageSize   int
}

// NewPage assembles a page for req.
func NewPage[T any](req Request, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, TotalCount: total, Page: req.Page, PageSize: req.PageSize}
}

// Window returns the slice of items covered by req. Used by in-memory adapters.
func Window[T any](items []T, req Request) []T {
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Limit()
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
