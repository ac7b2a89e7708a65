package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const (
	MessageApproved       = "Loan approved"
	MessageDeniedIncome   = "Loan denied: EMIs exceed 50% of income"
	MessageDeniedLowScore = "Loan denied: low credit score"
	incomeGateEMIShare    = 0.5
	opCheckEligibility    = "check_eligibility"
	opCreateLoan          = "create_loan"
)

// Decision is the outcome of a single eligibility evaluation. A denial is a
// successfully computed decision, not an error.
type Decision struct {
	CustomerID            int64
	Approved              bool
	InterestRate          float64
	CorrectedInterestRate float64
	TenureMonths          int
	MonthlyInstallment    Money
	Message               string
	LoanID                *int64
}

type LoanService interface {
	// CheckEligibility runs the decision path without persisting anything.
	CheckEligibility(ctx context.Context, customerID int64, loanAmount Money, interestRate float64, tenureMonths int) (*Decision, error)

	// CreateLoan runs the same decision path and, on approval, persists the
	// loan and the customer's debt increase atomically.
	CreateLoan(ctx context.Context, customerID int64, loanAmount Money, interestRate float64, tenureMonths int) (*Decision, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	CreditScoreFor(ctx context.Context, customerID int64) (int, error)
}

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	pub             event.EventPublisher
	logger          *slog.Logger
	now             func() time.Time
}

func NewLoanService(r Repository, cs customer.CustomerService, pub event.EventPublisher, logger *slog.Logger) LoanService {
	if pub == nil {
		pub = event.NopPublisher{}
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		pub:             pub,
		logger:          logger.With(slog.String("component", "loanService")),
		now:             time.Now,
	}
}

func (s *loanServiceImpl) CreditScoreFor(ctx context.Context, customerID int64) (int, error) {
	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	loans, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}
	return CreditScore(cust, loans, s.now()), nil
}

// decide runs the shared decision path of CheckEligibility and CreateLoan up
// to, but not including, persistence.
func (s *loanServiceImpl) decide(ctx context.Context, customerID int64, loanAmount Money, interestRate float64, tenureMonths int) (*Decision, *customer.Customer, error) {
	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	loans, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list loans for customer %d: %w", customerID, err)
	}

	creditScore := CreditScore(cust, loans, s.now())
	monitoring.ObserveCreditScore(creditScore)
	logCtx := s.logger.With(slog.Int64("customerID", customerID), slog.Int("creditScore", creditScore))

	emi, err := EMI(loanAmount, interestRate, tenureMonths)
	if err != nil {
		return nil, nil, err
	}

	existingEMITotal := Money(0)
	for _, l := range loans {
		existingEMITotal += l.MonthlyRepayment
	}

	// The income gate runs before the slab policy and independently of it.
	// A denial here reports the requested rate untouched.
	if existingEMITotal+emi > incomeGateEMIShare*cust.MonthlySalary {
		logCtx.InfoContext(ctx, "Loan denied by income gate",
			slog.Float64("existingEMITotal", existingEMITotal),
			slog.Float64("requestedEMI", emi),
			slog.Float64("monthlySalary", cust.MonthlySalary))
		return &Decision{
			CustomerID:            customerID,
			Approved:              false,
			InterestRate:          interestRate,
			CorrectedInterestRate: interestRate,
			TenureMonths:          tenureMonths,
			MonthlyInstallment:    roundTo(emi, 2),
			Message:               MessageDeniedIncome,
		}, cust, nil
	}

	eval := EvaluateEligibility(creditScore, interestRate)
	if eval.CorrectedRate != interestRate {
		logCtx.InfoContext(ctx, "Interest rate corrected to slab floor",
			slog.Float64("requestedRate", interestRate),
			slog.Float64("correctedRate", eval.CorrectedRate))
		emi, err = EMI(loanAmount, eval.CorrectedRate, tenureMonths)
		if err != nil {
			return nil, nil, err
		}
	}

	decision := &Decision{
		CustomerID:            customerID,
		Approved:              eval.Approved,
		InterestRate:          interestRate,
		CorrectedInterestRate: eval.CorrectedRate,
		TenureMonths:          tenureMonths,
		MonthlyInstallment:    roundTo(emi, 2),
	}
	if eval.Approved {
		decision.Message = MessageApproved
	} else {
		decision.Message = MessageDeniedLowScore
		logCtx.InfoContext(ctx, "Loan denied by credit score slab")
	}

	return decision, cust, nil
}

func (s *loanServiceImpl) CheckEligibility(ctx context.Context, customerID int64, loanAmount Money, interestRate float64, tenureMonths int) (*Decision, error) {
	decision, _, err := s.decide(ctx, customerID, loanAmount, interestRate, tenureMonths)
	if err != nil {
		return nil, err
	}

	monitoring.RecordDecision(opCheckEligibility, outcomeLabel(decision.Approved), reasonLabel(decision))
	return decision, nil
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID int64, loanAmount Money, interestRate float64, tenureMonths int) (*Decision, error) {
	decision, _, err := s.decide(ctx, customerID, loanAmount, interestRate, tenureMonths)
	if err != nil {
		return nil, err
	}

	if !decision.Approved {
		monitoring.RecordDecision(opCreateLoan, outcomeLabel(false), reasonLabel(decision))
		return decision, nil
	}

	startDate := s.now().Truncate(24 * time.Hour)
	newLoan, err := NewLoan(customerID, loanAmount, decision.CorrectedInterestRate, tenureMonths, startDate)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateLoanWithDebtUpdate(ctx, newLoan)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist approved loan", slog.Any("error", err))
		return nil, fmt.Errorf("failed to persist approved loan: %w", err)
	}

	decision.LoanID = &created.ID
	monitoring.RecordDecision(opCreateLoan, outcomeLabel(true), reasonLabel(decision))
	monitoring.RecordLoanCreated()

	approvedEvent := event.LoanApprovedEvent{
		LoanID:             created.ID,
		CustomerID:         customerID,
		LoanAmount:         loanAmount,
		InterestRate:       decision.CorrectedInterestRate,
		TenureMonths:       tenureMonths,
		MonthlyInstallment: decision.MonthlyInstallment,
		Timestamp:          s.now(),
	}
	if pubErr := s.pub.PublishLoanApproved(ctx, approvedEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Loan created, but FAILED to publish approval event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Loan created successfully",
		slog.Int64("loanID", created.ID), slog.Int64("customerID", customerID))
	return decision, nil
}

func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Loan not found", slog.Int64("loanID", loanID))
			return nil, fmt.Errorf("%w: loan with ID %d not found", ErrNotFound, loanID)
		}
		s.logger.ErrorContext(ctx, "Failed to get loan", slog.Int64("loanID", loanID), slog.Any("error", err))
		return nil, fmt.Errorf("failed to get loan %d: %w", loanID, err)
	}
	return l, nil
}

func outcomeLabel(approved bool) string {
	if approved {
		return "approved"
	}
	return "denied"
}

func reasonLabel(d *Decision) string {
	switch d.Message {
	case MessageDeniedIncome:
		return "income_gate"
	case MessageDeniedLowScore:
		return "low_credit_score"
	default:
		return "eligible"
	}
}
