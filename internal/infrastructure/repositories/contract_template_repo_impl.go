package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/infrastructure/models"
)

// ContractTemplateRepositoryImpl implements ContractTemplateRepository
type ContractTemplateRepositoryImpl struct {
	db *gorm.DB
}

func NewContractTemplateRepository(db *gorm.DB) *ContractTemplateRepositoryImpl {
	return &ContractTemplateRepositoryImpl{db: db}
}

func (r *ContractTemplateRepositoryImpl) Create(ctx context.Context, template *entities.ContractTemplate) error {
	m, err := r.toModel(template)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *ContractTemplateRepositoryImpl) Update(ctx context.Context, template *entities.ContractTemplate) error {
	m, err := r.toModel(template)
	if err != nil {
		return err
	}
	m.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Model(&models.ContractTemplate{}).
		Where("id = ?", template.ID).
		Updates(map[string]interface{}{
			"sku":         m.SKU,
			"name":        m.Name,
			"description": m.Description,
			"variables":   m.Variables,
			"body":        m.Body,
			"is_active":   m.IsActive,
			"updated_at":  m.UpdatedAt,
		}).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *ContractTemplateRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.ContractTemplate, error) {
	var m models.ContractTemplate
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ContractTemplateRepositoryImpl) GetBySKU(ctx context.Context, sku string) (*entities.ContractTemplate, error) {
	var m models.ContractTemplate
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ContractTemplateRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]*entities.ContractTemplate, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var ms []models.ContractTemplate
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	templates := make([]*entities.ContractTemplate, 0, len(ms))
	for i := range ms {
		t, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func (r *ContractTemplateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContractTemplate{}).Error
}

func (r *ContractTemplateRepositoryImpl) toModel(t *entities.ContractTemplate) (*models.ContractTemplate, error) {
	variables, err := json.Marshal(t.Variables)
	if err != nil {
		return nil, err
	}
	return &models.ContractTemplate{
		ID:          t.ID,
		SKU:         t.SKU,
		Name:        t.Name,
		Description: t.Description,
		Variables:   string(variables),
		Body:        t.Body,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}, nil
}

func (r *ContractTemplateRepositoryImpl) toEntity(m *models.ContractTemplate) (*entities.ContractTemplate, error) {
	var variables []entities.VariableDef
	if m.Variables != "" {
		if err := json.Unmarshal([]byte(m.Variables), &variables); err != nil {
			return nil, err
		}
	}
	return &entities.ContractTemplate{
		ID:          m.ID,
		SKU:         m.SKU,
		Name:        m.Name,
		Description: m.Description,
		Variables:   variables,
		Body:        m.Body,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}
