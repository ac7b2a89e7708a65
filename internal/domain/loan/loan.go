package loan

import (
	"fmt"
	"math"
	"time"

	"credit-engine/internal/pkg/apperrors"
)

type Money = float64

// zeroRateEpsilon guards the amortization denominator: rates below it use
// the linear repayment branch instead of the reducing-balance formula.
const zeroRateEpsilon = 1e-9

// tenure is expressed in months; each month counts as 30 days for the
// repayment window, matching the originating system.
const daysPerTenureMonth = 30

type Loan struct {
	ID               int64     `json:"id"`
	CustomerID       int64     `json:"customerId"`
	LoanAmount       Money     `json:"loanAmount"`
	TenureMonths     int       `json:"tenureMonths"`
	InterestRate     float64   `json:"interestRate"`
	MonthlyRepayment Money     `json:"monthlyRepayment"`
	EMIsPaidOnTime   int       `json:"emisPaidOnTime"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewLoan(customerID int64, amount Money, annualInterestRate float64, tenureMonths int, startDate time.Time) (*Loan, error) {
	emi, err := EMI(amount, annualInterestRate, tenureMonths)
	if err != nil {
		return nil, err
	}
	if startDate.IsZero() {
		startDate = time.Now().Truncate(24 * time.Hour)
	}

	return &Loan{
		CustomerID:       customerID,
		LoanAmount:       amount,
		TenureMonths:     tenureMonths,
		InterestRate:     annualInterestRate,
		MonthlyRepayment: roundTo(emi, 2),
		EMIsPaidOnTime:   0,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 0, daysPerTenureMonth*tenureMonths),
	}, nil
}

// ValidateTerms rejects terms the amortization formula cannot price.
func ValidateTerms(principal Money, annualRatePercent float64, tenureMonths int) error {
	if principal <= 0 {
		return fmt.Errorf("%w: principal must be positive, got %.2f", apperrors.ErrInvalidLoanTerms, principal)
	}
	if tenureMonths <= 0 {
		return fmt.Errorf("%w: tenure must be a positive number of months, got %d", apperrors.ErrInvalidLoanTerms, tenureMonths)
	}
	if annualRatePercent < 0 {
		return fmt.Errorf("%w: interest rate cannot be negative, got %.2f", apperrors.ErrInvalidLoanTerms, annualRatePercent)
	}
	return nil
}

// EMI computes the equated monthly installment under reducing-balance
// amortization. A zero (or near-zero) rate collapses the formula to a
// straight division, which the general branch cannot express.
func EMI(principal Money, annualRatePercent float64, tenureMonths int) (Money, error) {
	if err := ValidateTerms(principal, annualRatePercent, tenureMonths); err != nil {
		return 0, err
	}

	if annualRatePercent < zeroRateEpsilon {
		return principal / float64(tenureMonths), nil
	}

	monthlyRate := annualRatePercent / (12 * 100)
	compounded := math.Pow(1+monthlyRate, float64(tenureMonths))
	return principal * monthlyRate * compounded / (compounded - 1), nil
}

func roundTo(n float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(n*pow) / pow
}
