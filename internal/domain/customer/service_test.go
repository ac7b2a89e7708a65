package customer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"credit-engine/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))

func TestRegisterCustomer(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil, testLogger)
	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*Customer).CustomerID = 7
	}).Return(nil)

	cust, err := service.RegisterCustomer(ctx, "Asha", "Rao", 29, "9876543210", 100000)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), cust.CustomerID)
	assert.Equal(t, 3600000.0, cust.ApprovedLimit)
	assert.Equal(t, 0.0, cust.CurrentDebt)
	mockRepo.AssertExpectations(t)
}

func TestRegisterCustomerTrimsNames(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil, testLogger)
	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.Anything).Return(nil)

	cust, err := service.RegisterCustomer(ctx, "  Asha ", " Rao  ", 29, " 9876543210 ", 100000)

	assert.NoError(t, err)
	assert.Equal(t, "Asha", cust.FirstName)
	assert.Equal(t, "Rao", cust.LastName)
	assert.Equal(t, "9876543210", cust.PhoneNumber)
}

func TestRegisterCustomerValidation(t *testing.T) {
	tests := []struct {
		name          string
		firstName     string
		lastName      string
		age           int
		monthlyIncome float64
	}{
		{"empty first name", "", "Rao", 29, 100000},
		{"empty last name", "Asha", "   ", 29, 100000},
		{"zero age", "Asha", "Rao", 0, 100000},
		{"negative income", "Asha", "Rao", 29, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCustomerRepository)
			service := NewCustomerService(mockRepo, nil, testLogger)

			_, err := service.RegisterCustomer(context.Background(), tt.firstName, tt.lastName, tt.age, "9876543210", tt.monthlyIncome)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
			mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterCustomerRepositoryFailure(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil, testLogger)
	ctx := context.Background()

	mockRepo.On("Save", ctx, mock.Anything).Return(errors.New("insert failed"))

	_, err := service.RegisterCustomer(ctx, "Asha", "Rao", 29, "9876543210", 100000)

	assert.Error(t, err)
}

func TestGetCustomer(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil, testLogger)
	ctx := context.Background()

	expected := &Customer{CustomerID: 1, FirstName: "Asha"}
	mockRepo.On("FindByID", ctx, int64(1)).Return(expected, nil)

	cust, err := service.GetCustomer(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, expected, cust)
}

func TestGetCustomerNotFound(t *testing.T) {
	mockRepo := new(MockCustomerRepository)
	service := NewCustomerService(mockRepo, nil, testLogger)
	ctx := context.Background()

	mockRepo.On("FindByID", ctx, int64(99)).Return(nil, ErrNotFound)

	_, err := service.GetCustomer(ctx, 99)

	assert.ErrorIs(t, err, ErrNotFound)
}
