package customer

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("customer not found")

	ErrUpdateConflict = errors.New("update conflict detected")
)

type CustomerRepository interface {
	Save(ctx context.Context, customer *Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	FindOverLimit(ctx context.Context) ([]*Customer, error)

	UpdateDebt(ctx context.Context, customerID int64, newDebt float64) error

	// Upsert writes a customer under an externally assigned id. Used by the
	// seed loader, which replays ids from the source workbook.
	Upsert(ctx context.Context, customer *Customer) error
}
