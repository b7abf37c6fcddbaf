package repositories

import (
	"context"

	"github.com/google/uuid"
	"charter-ops.backend/internal/domain/entities"
)

// ContractTemplateRepository defines the persistence boundary for contract templates
type ContractTemplateRepository interface {
	Create(ctx context.Context, template *entities.ContractTemplate) error
	Update(ctx context.Context, template *entities.ContractTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error)
	GetBySKU(ctx context.Context, sku string) (*entities.ContractTemplate, error)
	List(ctx context.Context, activeOnly bool) ([]*entities.ContractTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
