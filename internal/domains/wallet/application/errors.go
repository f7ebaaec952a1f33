package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/dropship-order-service/internal/domains/wallet/domain"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// ErrInvalidInput signals the request violated a wallet invariant.
var ErrInvalidInput = errors.New("invalid wallet input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidCustomer) ||
		errors.Is(err, pagination.ErrInvalidPage) ||
		errors.Is(err, pagination.ErrInvalidPageSize) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
