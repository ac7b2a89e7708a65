package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"credit-engine/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	return _m.Called(ctx, cust).Error(0)
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) FindOverLimit(ctx context.Context) ([]*customer.Customer, error) {
	ret := _m.Called(ctx)

	var r0 []*customer.Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*customer.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) UpdateDebt(ctx context.Context, customerID int64, newDebt float64) error {
	return _m.Called(ctx, customerID, newDebt).Error(0)
}

func (_m *MockCustomerRepository) Upsert(ctx context.Context, cust *customer.Customer) error {
	return _m.Called(ctx, cust).Error(0)
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOverLimitAuditJobRun(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	job := NewOverLimitAuditJob(mockRepo, testLogger)

	overLimit := []*customer.Customer{
		{CustomerID: 1, CurrentDebt: 4000000, ApprovedLimit: 3600000},
		{CustomerID: 2, CurrentDebt: 900000, ApprovedLimit: 800000},
	}
	mockRepo.On("FindOverLimit", mock.Anything).Return(overLimit, nil)

	err := job.Run(context.Background())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestOverLimitAuditJobRunNoneFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	job := NewOverLimitAuditJob(mockRepo, testLogger)

	mockRepo.On("FindOverLimit", mock.Anything).Return([]*customer.Customer{}, nil)

	err := job.Run(context.Background())

	assert.NoError(t, err)
}

func TestOverLimitAuditJobRunRepositoryFailure(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	job := NewOverLimitAuditJob(mockRepo, testLogger)

	mockRepo.On("FindOverLimit", mock.Anything).Return(nil, errors.New("connection refused"))

	err := job.Run(context.Background())

	assert.Error(t, err)
}
