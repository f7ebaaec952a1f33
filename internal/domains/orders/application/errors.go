package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/dropship-order-service/internal/domains/orders/domain"
	"github.com/Apurer/dropship-order-service/internal/shared/pagination"
)

// ErrInvalidInput signals a listing parameter could not be used.
var ErrInvalidInput = errors.New("invalid order query")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidSource) ||
		errors.Is(err, domain.ErrUnknownView) ||
		errors.Is(err, pagination.ErrInvalidPage) ||
		errors.Is(err, pagination.ErrInvalidPageSize) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
