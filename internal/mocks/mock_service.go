package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/amortization-engine/internal/domain"
)

type MockCalculatorService struct {
	mock.Mock
}

func (m *MockCalculatorService) Preview(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalculationResult), args.Error(1)
}

func (m *MockCalculatorService) CreateCalculation(ctx context.Context, request *domain.CalculationRequest) (*domain.CalculationResult, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalculationResult), args.Error(1)
}

func (m *MockCalculatorService) GetCalculation(ctx context.Context, id uuid.UUID) (*domain.CalculationResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalculationResult), args.Error(1)
}

func (m *MockCalculatorService) ListCalculations(ctx context.Context, limit, offset int) (*domain.ListCalculationsResponse, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListCalculationsResponse), args.Error(1)
}

func (m *MockCalculatorService) QuotePayment(ctx context.Context, request *domain.PaymentQuoteRequest) (*domain.PaymentQuote, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentQuote), args.Error(1)
}

// NewMockCalculatorService creates a new mock calculator service instance
func NewMockCalculatorService() *MockCalculatorService {
	return &MockCalculatorService{}
}
