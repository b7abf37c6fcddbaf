package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/domain/repositories"
)

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *entities.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contract), args.Error(1)
}

func (m *MockContractRepository) GetByCode(ctx context.Context, code string) (*entities.Contract, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contract), args.Error(1)
}

func (m *MockContractRepository) GetByAccessToken(ctx context.Context, token string) (*entities.Contract, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contract), args.Error(1)
}

func (m *MockContractRepository) List(ctx context.Context, filter entities.ContractFilter) ([]*entities.Contract, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Contract), args.Int(1), args.Error(2)
}

func (m *MockContractRepository) CountByTemplateID(ctx context.Context, templateID uuid.UUID) (int64, error) {
	args := m.Called(ctx, templateID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) AccessTokenExists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.ContractStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockContractRepository) MarkSigned(ctx context.Context, id uuid.UUID, from entities.ContractStatus, sig repositories.SignatureRecord) error {
	args := m.Called(ctx, id, from, sig)
	return args.Error(0)
}

func (m *MockContractRepository) MarkCancelled(ctx context.Context, id uuid.UUID, from entities.ContractStatus, reason string) error {
	args := m.Called(ctx, id, from, reason)
	return args.Error(0)
}

func (m *MockContractRepository) ExpireContracts(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockContractRepository) ListExpiredPendingSign(ctx context.Context, now time.Time, limit int) ([]*entities.Contract, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Contract), args.Error(1)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockContractTemplateRepository struct {
	mock.Mock
}

func (m *MockContractTemplateRepository) Create(ctx context.Context, template *entities.ContractTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockContractTemplateRepository) Update(ctx context.Context, template *entities.ContractTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockContractTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ContractTemplate), args.Error(1)
}

func (m *MockContractTemplateRepository) GetBySKU(ctx context.Context, sku string) (*entities.ContractTemplate, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ContractTemplate), args.Error(1)
}

func (m *MockContractTemplateRepository) List(ctx context.Context, activeOnly bool) ([]*entities.ContractTemplate, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ContractTemplate), args.Error(1)
}

func (m *MockContractTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
