package loan

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("loan not found")

type Repository interface {
	// CreateLoanWithDebtUpdate inserts the loan and raises the owning
	// customer's current debt in one transaction, serialized per customer
	// by a row lock. Either both writes commit or neither does.
	CreateLoanWithDebtUpdate(ctx context.Context, newLoan *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error)

	// Upsert writes a loan under an externally assigned id. Used by the
	// seed loader.
	Upsert(ctx context.Context, l *Loan) error
}
