package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/domain/errors"
	domainRepos "charter-ops.backend/internal/domain/repositories"
	"charter-ops.backend/pkg/utils"
)

// TemplateUsecase owns contract template lifecycle: creation, in-place
// updates, activation toggling and deletion. Deletion and SKU changes are
// refused once contracts reference the template.
type TemplateUsecase struct {
	templateRepo domainRepos.ContractTemplateRepository
	contractRepo domainRepos.ContractRepository
}

func NewTemplateUsecase(
	templateRepo domainRepos.ContractTemplateRepository,
	contractRepo domainRepos.ContractRepository,
) *TemplateUsecase {
	return &TemplateUsecase{
		templateRepo: templateRepo,
		contractRepo: contractRepo,
	}
}

type TemplateInput struct {
	SKU         string
	Name        string
	Description string
	Variables   []entities.VariableDef
	Body        string
	IsActive    bool
}

func (uc *TemplateUsecase) CreateTemplate(ctx context.Context, input TemplateInput) (*entities.ContractTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	if existing, err := uc.templateRepo.GetBySKU(ctx, input.SKU); err == nil && existing != nil {
		return nil, errors.Conflict("a template with this sku already exists", errors.ErrAlreadyExists)
	}

	now := time.Now()
	template := &entities.ContractTemplate{
		ID:          utils.NewID(),
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		Variables:   input.Variables,
		Body:        input.Body,
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.templateRepo.Create(ctx, template); err != nil {
		return nil, errors.InternalError(err)
	}
	return template, nil
}

func (uc *TemplateUsecase) UpdateTemplate(ctx context.Context, id uuid.UUID, input TemplateInput) (*entities.ContractTemplate, error) {
	if err := validateTemplateInput(input); err != nil {
		return nil, err
	}

	template, err := uc.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract template not found")
	}

	if input.SKU != template.SKU {
		count, err := uc.contractRepo.CountByTemplateID(ctx, id)
		if err != nil {
			return nil, errors.InternalError(err)
		}
		if count > 0 {
			return nil, errors.Conflict("sku is referenced by issued contracts", errors.ErrSKUImmutable)
		}
		if existing, err := uc.templateRepo.GetBySKU(ctx, input.SKU); err == nil && existing != nil && existing.ID != id {
			return nil, errors.Conflict("a template with this sku already exists", errors.ErrAlreadyExists)
		}
	}

	template.SKU = input.SKU
	template.Name = input.Name
	template.Description = input.Description
	template.Variables = input.Variables
	template.Body = input.Body
	template.IsActive = input.IsActive
	template.UpdatedAt = time.Now()

	if err := uc.templateRepo.Update(ctx, template); err != nil {
		return nil, errors.InternalError(err)
	}
	return template, nil
}

// SetActive toggles whether new contracts may be issued from the template.
// Inactive templates remain readable for contracts already rendered from them.
func (uc *TemplateUsecase) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entities.ContractTemplate, error) {
	template, err := uc.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract template not found")
	}
	template.IsActive = active
	template.UpdatedAt = time.Now()
	if err := uc.templateRepo.Update(ctx, template); err != nil {
		return nil, errors.InternalError(err)
	}
	return template, nil
}

func (uc *TemplateUsecase) GetTemplate(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error) {
	template, err := uc.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract template not found")
	}
	return template, nil
}

func (uc *TemplateUsecase) ListTemplates(ctx context.Context, activeOnly bool) ([]*entities.ContractTemplate, error) {
	templates, err := uc.templateRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, errors.InternalError(err)
	}
	return templates, nil
}

// DeleteTemplate removes a template that has never issued a contract
func (uc *TemplateUsecase) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, err := uc.templateRepo.GetByID(ctx, id); err != nil {
		return errors.NotFound("contract template not found")
	}
	count, err := uc.contractRepo.CountByTemplateID(ctx, id)
	if err != nil {
		return errors.InternalError(err)
	}
	if count > 0 {
		return errors.Conflict("template has issued contracts", errors.ErrTemplateInUse)
	}
	if err := uc.templateRepo.Delete(ctx, id); err != nil {
		return errors.InternalError(err)
	}
	return nil
}

// validateTemplateInput checks the declared schema and that every body
// placeholder references a declared, required key. Optional variables may
// not appear in the body: validation would let them go unsupplied, and an
// unsupplied placeholder can never render.
func validateTemplateInput(input TemplateInput) error {
	if input.SKU == "" {
		return errors.BadRequest("sku is required")
	}
	if input.Name == "" {
		return errors.BadRequest("name is required")
	}

	required := make(map[string]bool, len(input.Variables))
	seen := make(map[string]bool, len(input.Variables))
	for _, def := range input.Variables {
		if def.Key == "" {
			return errors.BadRequest("variable key cannot be empty")
		}
		if seen[def.Key] {
			return errors.BadRequest(fmt.Sprintf("duplicate variable key %q", def.Key))
		}
		seen[def.Key] = true
		required[def.Key] = def.Required
		if !def.Type.IsValid() {
			return errors.BadRequest(fmt.Sprintf("variable %q has unsupported type %q", def.Key, def.Type))
		}
	}

	for _, key := range PlaceholderKeys(input.Body) {
		if !seen[key] {
			return errors.BadRequest(fmt.Sprintf("body references undeclared variable %q", key))
		}
		if !required[key] {
			return errors.BadRequest(fmt.Sprintf("body references optional variable %q; referenced variables must be required", key))
		}
	}
	return nil
}
