package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"
)

// defaultAge is assigned when the customer workbook carries no age column.
const defaultAge = 30

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"1/2/06",
	"01-02-06",
	"1/2/06 15:04",
}

// Result summarizes one workbook import.
type Result struct {
	Imported int
	Skipped  int
}

type Importer struct {
	customers customer.CustomerRepository
	loans     loan.Repository
	logger    *slog.Logger
}

func NewImporter(customers customer.CustomerRepository, loans loan.Repository, logger *slog.Logger) *Importer {
	if customers == nil {
		panic("customer repository cannot be nil for Importer")
	}
	if loans == nil {
		panic("loan repository cannot be nil for Importer")
	}
	if logger == nil {
		panic("logger cannot be nil for Importer")
	}
	return &Importer{
		customers: customers,
		loans:     loans,
		logger:    logger.With(slog.String("component", "Importer")),
	}
}

// ImportCustomers loads the customer seed workbook at path and upserts every
// valid row. Invalid rows are logged and skipped, never fatal.
func (i *Importer) ImportCustomers(ctx context.Context, path string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open customer workbook %q: %w", path, err)
	}
	defer f.Close()
	return i.importCustomers(ctx, f)
}

// ImportCustomersFromReader is ImportCustomers over an already opened stream.
func (i *Importer) ImportCustomersFromReader(ctx context.Context, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open customer workbook: %w", err)
	}
	defer f.Close()
	return i.importCustomers(ctx, f)
}

// ImportLoans loads the loan seed workbook at path. Rows referencing an
// unknown customer are skipped, matching the behavior of the source data set
// which carries a handful of orphaned loans.
func (i *Importer) ImportLoans(ctx context.Context, path string) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("open loan workbook %q: %w", path, err)
	}
	defer f.Close()
	return i.importLoans(ctx, f)
}

// ImportLoansFromReader is ImportLoans over an already opened stream.
func (i *Importer) ImportLoansFromReader(ctx context.Context, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open loan workbook: %w", err)
	}
	defer f.Close()
	return i.importLoans(ctx, f)
}

func (i *Importer) importCustomers(ctx context.Context, f *excelize.File) (Result, error) {
	rows, cols, err := sheetRows(f)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for idx, row := range rows {
		rowNum := idx + 2

		id, err := parseInt(cols.get(row, "customer_id"))
		if err != nil || id <= 0 {
			i.logger.WarnContext(ctx, "Skipping customer row with invalid id",
				slog.Int("row", rowNum), slog.String("value", cols.get(row, "customer_id")))
			res.Skipped++
			continue
		}

		firstName := strings.TrimSpace(cols.get(row, "first_name"))
		lastName := strings.TrimSpace(cols.get(row, "last_name"))
		phone := strings.TrimSpace(cols.get(row, "phone_number"))
		if firstName == "" || lastName == "" || phone == "" {
			i.logger.WarnContext(ctx, "Skipping customer row with missing required fields",
				slog.Int("row", rowNum), slog.Int64("customerID", id))
			res.Skipped++
			continue
		}

		age := defaultAge
		if cols.has("age") {
			if v, err := parseInt(cols.get(row, "age")); err == nil && v > 0 {
				age = int(v)
			}
		}

		now := time.Now()
		c := &customer.Customer{
			CustomerID:    id,
			FirstName:     firstName,
			LastName:      lastName,
			Age:           age,
			PhoneNumber:   phone,
			MonthlySalary: parseFloatOrZero(cols.get(row, "monthly_salary")),
			ApprovedLimit: parseFloatOrZero(cols.get(row, "approved_limit")),
			CurrentDebt:   parseFloatOrZero(cols.get(row, "current_debt")),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		if err := i.customers.Upsert(ctx, c); err != nil {
			i.logger.ErrorContext(ctx, "Failed to upsert customer row",
				slog.Int("row", rowNum), slog.Int64("customerID", id), slog.Any("error", err))
			res.Skipped++
			continue
		}
		res.Imported++
	}

	i.logger.InfoContext(ctx, "Customer import finished",
		slog.Int("imported", res.Imported), slog.Int("skipped", res.Skipped))
	return res, nil
}

func (i *Importer) importLoans(ctx context.Context, f *excelize.File) (Result, error) {
	rows, cols, err := sheetRows(f)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for idx, row := range rows {
		rowNum := idx + 2

		customerID, errC := parseInt(cols.get(row, "customer_id"))
		loanID, errL := parseInt(cols.get(row, "loan_id"))
		if errC != nil || errL != nil || customerID <= 0 || loanID <= 0 {
			i.logger.WarnContext(ctx, "Skipping loan row with invalid ids",
				slog.Int("row", rowNum),
				slog.String("customerID", cols.get(row, "customer_id")),
				slog.String("loanID", cols.get(row, "loan_id")))
			res.Skipped++
			continue
		}

		if _, err := i.customers.FindByID(ctx, customerID); err != nil {
			if errors.Is(err, customer.ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
				i.logger.WarnContext(ctx, "Skipping loan for unknown customer",
					slog.Int("row", rowNum), slog.Int64("customerID", customerID), slog.Int64("loanID", loanID))
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("look up customer %d for loan %d: %w", customerID, loanID, err)
		}

		startDate := i.parseDate(ctx, cols.get(row, "start_date"), rowNum, time.Now())
		endDate := i.parseDate(ctx, cols.get(row, "end_date"), rowNum, startDate)

		tenure, err := parseInt(cols.get(row, "tenure"))
		if err != nil || tenure <= 0 {
			tenure = 1
		}

		emisPaid, err := parseInt(cols.get(row, "emis_paid_on_time"))
		if err != nil || emisPaid < 0 {
			emisPaid = 0
		}

		now := time.Now()
		l := &loan.Loan{
			ID:               loanID,
			CustomerID:       customerID,
			LoanAmount:       parseFloatOrZero(cols.get(row, "loan_amount")),
			TenureMonths:     int(tenure),
			InterestRate:     parseFloatOrZero(cols.get(row, "interest_rate")),
			MonthlyRepayment: parseFloatOrZero(cols.get(row, "monthly_repayment")),
			EMIsPaidOnTime:   int(emisPaid),
			StartDate:        startDate,
			EndDate:          endDate,
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		if err := i.loans.Upsert(ctx, l); err != nil {
			i.logger.ErrorContext(ctx, "Failed to upsert loan row",
				slog.Int("row", rowNum), slog.Int64("loanID", loanID), slog.Any("error", err))
			res.Skipped++
			continue
		}
		res.Imported++
	}

	i.logger.InfoContext(ctx, "Loan import finished",
		slog.Int("imported", res.Imported), slog.Int("skipped", res.Skipped))
	return res, nil
}

func (i *Importer) parseDate(ctx context.Context, raw string, rowNum int, fallback time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	i.logger.WarnContext(ctx, "Could not parse date cell, using fallback",
		slog.Int("row", rowNum), slog.String("value", raw))
	return fallback
}

// columnIndex maps canonical column names to their position in the header row.
type columnIndex map[string]int

func (c columnIndex) has(name string) bool {
	_, ok := c[name]
	return ok
}

func (c columnIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// headerAliases folds the header spellings seen across seed workbook
// revisions onto one canonical name.
var headerAliases = map[string]string{
	"customer_id":       "customer_id",
	"first_name":        "first_name",
	"last_name":         "last_name",
	"age":               "age",
	"phone_number":      "phone_number",
	"monthly_salary":    "monthly_salary",
	"monthly_income":    "monthly_salary",
	"approved_limit":    "approved_limit",
	"current_debt":      "current_debt",
	"loan_id":           "loan_id",
	"loan_amount":       "loan_amount",
	"tenure":            "tenure",
	"interest_rate":     "interest_rate",
	"monthly_payment":   "monthly_repayment",
	"monthly_repayment": "monthly_repayment",
	"emis_paid_on_time": "emis_paid_on_time",
	"date_of_approval":  "start_date",
	"start_date":        "start_date",
	"end_date":          "end_date",
}

// sheetRows returns the data rows of the first sheet together with a column
// index built from the header row.
func sheetRows(f *excelize.File) ([][]string, columnIndex, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols := make(columnIndex)
	for idx, header := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(header))
		key = strings.ReplaceAll(key, " ", "_")
		if canonical, ok := headerAliases[key]; ok {
			cols[canonical] = idx
		}
	}
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("sheet %q has no recognized header columns", sheet)
	}

	return rows[1:], cols, nil
}

func parseInt(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("empty cell")
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	// excelize renders some integer cells with a decimal part.
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse integer cell %q: %w", raw, err)
	}
	return int64(f), nil
}

func parseFloatOrZero(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
