package loan

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, nil))

type MockRepository struct {
	mock.Mock
}

func (_m *MockRepository) CreateLoanWithDebtUpdate(ctx context.Context, newLoan *Loan) (*Loan, error) {
	ret := _m.Called(ctx, newLoan)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) ListByCustomerID(ctx context.Context, customerID int64) ([]*Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []*Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Loan)
	}
	return r0, ret.Error(1)
}

func (_m *MockRepository) Upsert(ctx context.Context, l *Loan) error {
	ret := _m.Called(ctx, l)
	return ret.Error(0)
}

type MockCustomerService struct {
	mock.Mock
}

func (_m *MockCustomerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, phoneNumber string, monthlyIncome float64) (*customer.Customer, error) {
	ret := _m.Called(ctx, firstName, lastName, age, phoneNumber, monthlyIncome)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerService) GetCustomer(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func newTestService(repo *MockRepository, cs *MockCustomerService) *loanServiceImpl {
	svc := NewLoanService(repo, cs, nil, logger).(*loanServiceImpl)
	svc.now = func() time.Time { return time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func freshCustomer() *customer.Customer {
	return &customer.Customer{
		CustomerID:    1,
		FirstName:     "Asha",
		LastName:      "Rao",
		MonthlySalary: 100000,
		ApprovedLimit: 3600000,
		CurrentDebt:   0,
	}
}

func TestCheckEligibilityApprovesNewCustomer(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	decision, err := service.CheckEligibility(ctx, 1, 500000, 10, 24)

	assert.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, 10.0, decision.InterestRate)
	assert.Equal(t, 10.0, decision.CorrectedInterestRate)
	assert.Equal(t, 24, decision.TenureMonths)
	assert.InDelta(t, 23072.46, decision.MonthlyInstallment, 0.01)
	assert.Nil(t, decision.LoanID)
	mockRepo.AssertNotCalled(t, "CreateLoanWithDebtUpdate", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCheckEligibilityZeroRate(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	decision, err := service.CheckEligibility(ctx, 1, 500000, 0, 24)

	assert.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, 20833.33, decision.MonthlyInstallment)
}

func TestCheckEligibilityIncomeGateDenial(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	existing := []*Loan{
		{CustomerID: 1, MonthlyRepayment: 45000, TenureMonths: 24, EMIsPaidOnTime: 24,
			StartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), LoanAmount: 1000000},
	}
	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return(existing, nil)

	decision, err := service.CheckEligibility(ctx, 1, 500000, 10, 24)

	assert.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.Equal(t, MessageDeniedIncome, decision.Message)
	// Income-gate denials never correct the rate.
	assert.Equal(t, decision.InterestRate, decision.CorrectedInterestRate)
}

func TestCheckEligibilityCorrectsRateForMidSlab(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	// Three mixed loans score 20 + 6 + 5 + 10 = 41, the 12%-floor slab.
	existing := []*Loan{
		{CustomerID: 1, MonthlyRepayment: 5000, TenureMonths: 24, EMIsPaidOnTime: 24,
			StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 300000},
		{CustomerID: 1, MonthlyRepayment: 5000, TenureMonths: 24, EMIsPaidOnTime: 2,
			StartDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 300000},
		{CustomerID: 1, MonthlyRepayment: 5000, TenureMonths: 24, EMIsPaidOnTime: 24,
			StartDate: time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), LoanAmount: 400000},
	}

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return(existing, nil)

	decision, err := service.CheckEligibility(ctx, 1, 500000, 10, 24)

	assert.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, 10.0, decision.InterestRate)
	assert.Equal(t, 12.0, decision.CorrectedInterestRate)
	// EMI is recomputed at the corrected rate.
	assert.InDelta(t, 23536.74, decision.MonthlyInstallment, 0.01)
}

func TestCheckEligibilityOverLimitCustomerDenied(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	overLimit := freshCustomer()
	overLimit.CurrentDebt = 600000
	overLimit.ApprovedLimit = 500000

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(overLimit, nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	decision, err := service.CheckEligibility(ctx, 1, 100000, 25, 12)

	assert.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.Equal(t, MessageDeniedLowScore, decision.Message)
}

func TestCheckEligibilityCustomerNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(99)).Return(nil, customer.ErrNotFound)

	_, err := service.CheckEligibility(ctx, 99, 500000, 10, 24)

	assert.ErrorIs(t, err, customer.ErrNotFound)
}

func TestCheckEligibilityInvalidTerms(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	_, err := service.CheckEligibility(ctx, 1, -500000, 10, 24)

	assert.ErrorIs(t, err, apperrors.ErrInvalidLoanTerms)
}

func TestCreateLoanPersistsOnApproval(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)
	mockRepo.On("CreateLoanWithDebtUpdate", ctx, mock.Anything).Return(&Loan{ID: 42, CustomerID: 1}, nil)

	decision, err := service.CreateLoan(ctx, 1, 500000, 10, 24)

	assert.NoError(t, err)
	assert.True(t, decision.Approved)
	assert.Equal(t, MessageApproved, decision.Message)
	assert.NotNil(t, decision.LoanID)
	assert.Equal(t, int64(42), *decision.LoanID)

	persisted := mockRepo.Calls[1].Arguments.Get(1).(*Loan)
	assert.Equal(t, int64(1), persisted.CustomerID)
	assert.Equal(t, 0, persisted.EMIsPaidOnTime)
	assert.Equal(t, 23072.46, persisted.MonthlyRepayment)
	assert.Equal(t, persisted.StartDate.AddDate(0, 0, 30*24), persisted.EndDate)
	mockRepo.AssertExpectations(t)
}

func TestCreateLoanDenialDoesNotPersist(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	overLimit := freshCustomer()
	overLimit.CurrentDebt = 600000
	overLimit.ApprovedLimit = 500000
	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(overLimit, nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	decision, err := service.CreateLoan(ctx, 1, 500000, 10, 24)

	assert.NoError(t, err)
	assert.False(t, decision.Approved)
	assert.Nil(t, decision.LoanID)
	assert.Equal(t, MessageDeniedLowScore, decision.Message)
	mockRepo.AssertNotCalled(t, "CreateLoanWithDebtUpdate", mock.Anything, mock.Anything)
}

func TestCreateLoanRepositoryFailureSurfaces(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)
	mockRepo.On("CreateLoanWithDebtUpdate", ctx, mock.Anything).
		Return(nil, apperrors.WrapRepositoryError(errors.New("connection reset"), "insert failed"))

	_, err := service.CreateLoan(ctx, 1, 500000, 10, 24)

	assert.ErrorIs(t, err, apperrors.ErrRepositoryUnavailable)
}

func TestGetLoanNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockRepo.On("GetLoanByID", ctx, int64(404)).Return(nil, ErrNotFound)

	_, err := service.GetLoan(ctx, 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditScoreForNewCustomer(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCustomers := new(MockCustomerService)
	service := newTestService(mockRepo, mockCustomers)
	ctx := context.Background()

	mockCustomers.On("GetCustomer", ctx, int64(1)).Return(freshCustomer(), nil)
	mockRepo.On("ListByCustomerID", ctx, int64(1)).Return([]*Loan{}, nil)

	score, err := service.CreditScoreFor(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, 60, score)
}
