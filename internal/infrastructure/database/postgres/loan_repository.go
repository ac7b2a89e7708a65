package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v4"
)

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Acquire(ctx context.Context) (*pgxpool.Conn, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var errMsgFormat = "%w: %w"

const loanColumns = `id, customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at`

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

// CreateLoanWithDebtUpdate inserts the loan and bumps the owning customer's
// current_debt in a single transaction. The customer row is locked first so
// concurrent creations for the same customer serialize instead of losing
// debt updates.
func (r *LoanRepository) CreateLoanWithDebtUpdate(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	status := "success"
	startTime := time.Now()

	created, err := r.createLoanWithDebtUpdate(ctx, newLoan)
	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("CreateLoanWithDebtUpdate", status, time.Since(startTime))

	return created, err
}

func (r *LoanRepository) createLoanWithDebtUpdate(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, translateDBError(err, r.logger)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
	}()

	lockSQL := `SELECT current_debt FROM customers WHERE customer_id = $1 FOR UPDATE`

	var currentDebt float64
	err = tx.QueryRow(ctx, lockSQL, newLoan.CustomerID).Scan(&currentDebt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Customer not found while creating loan", "customer_id", newLoan.CustomerID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to lock customer row", "customer_id", newLoan.CustomerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	loanSQL := `
        INSERT INTO loans (customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING ` + loanColumns

	var created loan.Loan
	err = tx.QueryRow(ctx, loanSQL,
		newLoan.CustomerID, newLoan.LoanAmount, newLoan.TenureMonths, newLoan.InterestRate,
		newLoan.MonthlyRepayment, newLoan.EMIsPaidOnTime, newLoan.StartDate, newLoan.EndDate,
	).Scan(
		&created.ID, &created.CustomerID, &created.LoanAmount, &created.TenureMonths,
		&created.InterestRate, &created.MonthlyRepayment, &created.EMIsPaidOnTime,
		&created.StartDate, &created.EndDate, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, translateDBError(err, r.logger)
	}

	debtSQL := `UPDATE customers SET current_debt = current_debt + $1, updated_at = NOW() WHERE customer_id = $2`

	cmdTag, err := tx.Exec(ctx, debtSQL, created.LoanAmount, created.CustomerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update customer debt", "customer_id", created.CustomerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	if cmdTag.RowsAffected() != 1 {
		r.logger.ErrorContext(ctx, "Debt update affected zero rows", "customer_id", created.CustomerID)
		return nil, fmt.Errorf("%w: debt update affected zero rows", apperrors.ErrDatabase)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return nil, translateDBError(err, r.logger)
	}

	r.logger.InfoContext(ctx, "Loan created with debt update",
		"loan_id", created.ID, "customer_id", created.CustomerID, "previous_debt", currentDebt)
	return &created, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.CustomerID, &l.LoanAmount, &l.TenureMonths,
		&l.InterestRate, &l.MonthlyRepayment, &l.EMIsPaidOnTime,
		&l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, loan.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	return &l, nil
}

func (r *LoanRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]*loan.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE customer_id = $1 ORDER BY id ASC`
	status := "success"
	startTime := time.Now()

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		monitoring.RecordDBQuery("ListByCustomerID", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query loans for customer", "customer_id", customerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}
	defer rows.Close()

	loans := make([]*loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.CustomerID, &l.LoanAmount, &l.TenureMonths,
			&l.InterestRate, &l.MonthlyRepayment, &l.EMIsPaidOnTime,
			&l.StartDate, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			monitoring.RecordDBQuery("ListByCustomerID", "error", time.Since(startTime))
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, translateDBError(err, r.logger)
		}
		loans = append(loans, &l)
	}

	if err = rows.Err(); err != nil {
		monitoring.RecordDBQuery("ListByCustomerID", "error", time.Since(startTime))
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, translateDBError(err, r.logger)
	}

	monitoring.RecordDBQuery("ListByCustomerID", status, time.Since(startTime))
	return loans, nil
}

// Upsert writes a loan row with its externally assigned id. The seed loader
// uses it, so replays of the same file keep the table idempotent.
func (r *LoanRepository) Upsert(ctx context.Context, l *loan.Loan) error {
	query := `
        INSERT INTO loans (id, customer_id, loan_amount, tenure_months, interest_rate, monthly_repayment, emis_paid_on_time, start_date, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
        ON CONFLICT (id) DO UPDATE SET
            customer_id = EXCLUDED.customer_id,
            loan_amount = EXCLUDED.loan_amount,
            tenure_months = EXCLUDED.tenure_months,
            interest_rate = EXCLUDED.interest_rate,
            monthly_repayment = EXCLUDED.monthly_repayment,
            emis_paid_on_time = EXCLUDED.emis_paid_on_time,
            start_date = EXCLUDED.start_date,
            end_date = EXCLUDED.end_date,
            updated_at = NOW()`

	_, err := r.db.Exec(ctx, query,
		l.ID, l.CustomerID, l.LoanAmount, l.TenureMonths, l.InterestRate,
		l.MonthlyRepayment, l.EMIsPaidOnTime, l.StartDate, l.EndDate,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert loan", "loan_id", l.ID, "error", err)
		return translateDBError(err, r.logger)
	}
	return nil
}

// Postgres error codes that signal a lost race rather than a broken query.
const (
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03"
	pgCodeUniqueViolation      = "23505"
)

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
			contextLogger.Warn("Concurrent database update conflict", "code", pgErr.Code, "message", pgErr.Message)
			return fmt.Errorf(errMsgFormat, apperrors.ErrConcurrentUpdate, err)
		case pgCodeUniqueViolation:
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrRepositoryUnavailable, err)
}
