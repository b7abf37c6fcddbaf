package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"charter-ops.backend/internal/domain/entities"
	domainErrors "charter-ops.backend/internal/domain/errors"
	domainRepos "charter-ops.backend/internal/domain/repositories"
	"charter-ops.backend/internal/infrastructure/models"
)

// ContractRepositoryImpl implements ContractRepository
type ContractRepositoryImpl struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepositoryImpl {
	return &ContractRepositoryImpl{db: db}
}

func (r *ContractRepositoryImpl) Create(ctx context.Context, contract *entities.Contract) error {
	m, err := r.toModel(contract)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *ContractRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contract, error) {
	var m models.Contract
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ContractRepositoryImpl) GetByCode(ctx context.Context, code string) (*entities.Contract, error) {
	var m models.Contract
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ContractRepositoryImpl) GetByAccessToken(ctx context.Context, token string) (*entities.Contract, error) {
	var m models.Contract
	if err := r.db.WithContext(ctx).Where("access_token = ?", token).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toEntity(&m)
}

func (r *ContractRepositoryImpl) List(ctx context.Context, filter entities.ContractFilter) ([]*entities.Contract, int, error) {
	q := r.db.WithContext(ctx).Model(&models.Contract{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.SKU != "" {
		q = q.Where("sku = ?", filter.SKU)
	}
	if filter.TemplateID != uuid.Nil {
		q = q.Where("template_id = ?", filter.TemplateID)
	}
	if filter.RelatedType != "" {
		q = q.Where("related_type = ?", filter.RelatedType)
	}
	if filter.RelatedID != "" {
		q = q.Where("related_id = ?", filter.RelatedID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit).Offset(filter.Offset)
	}

	var ms []models.Contract
	if err := q.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	contracts := make([]*entities.Contract, 0, len(ms))
	for i := range ms {
		c, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, 0, err
		}
		contracts = append(contracts, c)
	}
	return contracts, int(total), nil
}

func (r *ContractRepositoryImpl) CountByTemplateID(ctx context.Context, templateID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	return count, err
}

func (r *ContractRepositoryImpl) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contract{}).Unscoped().
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *ContractRepositoryImpl) AccessTokenExists(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Contract{}).Unscoped().
		Where("access_token = ?", token).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatus moves a contract from one status to another. The from status
// acts as a compare-and-swap guard: zero affected rows means a concurrent
// writer moved the contract first.
func (r *ContractRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.ContractStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainErrors.ErrStateConflict
	}
	return nil
}

func (r *ContractRepositoryImpl) MarkSigned(ctx context.Context, id uuid.UUID, from entities.ContractStatus, sig domainRepos.SignatureRecord) error {
	res := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":          string(entities.ContractStatusSigned),
			"signed_by_name":  sig.Name,
			"signed_by_email": sig.Email,
			"signed_at":       sig.SignedAt,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainErrors.ErrStateConflict
	}
	return nil
}

func (r *ContractRepositoryImpl) MarkCancelled(ctx context.Context, id uuid.UUID, from entities.ContractStatus, reason string) error {
	res := r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":        string(entities.ContractStatusCancelled),
			"cancel_reason": reason,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainErrors.ErrStateConflict
	}
	return nil
}

// ExpireContracts persists the expired status for the given contracts.
// The status guard keeps a contract signed in the meantime untouched.
func (r *ContractRepositoryImpl) ExpireContracts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Contract{}).
		Where("id IN ? AND status = ?", ids, string(entities.ContractStatusPendingSign)).
		Updates(map[string]interface{}{
			"status":     string(entities.ContractStatusExpired),
			"updated_at": time.Now(),
		}).Error
}

func (r *ContractRepositoryImpl) ListExpiredPendingSign(ctx context.Context, now time.Time, limit int) ([]*entities.Contract, error) {
	var ms []models.Contract
	q := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", string(entities.ContractStatusPendingSign), now)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, err
	}
	contracts := make([]*entities.Contract, 0, len(ms))
	for i := range ms {
		c, err := r.toEntity(&ms[i])
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, nil
}

func (r *ContractRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Contract{}).Error
}

func (r *ContractRepositoryImpl) toModel(c *entities.Contract) (*models.Contract, error) {
	values, err := json.Marshal(c.VariableValues)
	if err != nil {
		return nil, err
	}
	return &models.Contract{
		ID:             c.ID,
		Code:           c.Code,
		SKU:            c.SKU,
		TemplateID:     c.TemplateID,
		VariableValues: string(values),
		RenderedBody:   c.RenderedBody,
		Status:         string(c.Status),
		AccessToken:    c.AccessToken,
		SignedByName:   c.SignedByName.String,
		SignedByEmail:  c.SignedByEmail.String,
		SignedAt:       c.SignedAt.Ptr(),
		RelatedType:    c.RelatedType.String,
		RelatedID:      c.RelatedID.String,
		CancelReason:   c.CancelReason.String,
		ExpiresAt:      c.ExpiresAt.Ptr(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}, nil
}

func (r *ContractRepositoryImpl) toEntity(m *models.Contract) (*entities.Contract, error) {
	var values entities.VariableValues
	if m.VariableValues != "" {
		if err := json.Unmarshal([]byte(m.VariableValues), &values); err != nil {
			return nil, err
		}
	}
	return &entities.Contract{
		ID:             m.ID,
		Code:           m.Code,
		SKU:            m.SKU,
		TemplateID:     m.TemplateID,
		VariableValues: values,
		RenderedBody:   m.RenderedBody,
		Status:         entities.ContractStatus(m.Status),
		AccessToken:    m.AccessToken,
		SignedByName:   null.NewString(m.SignedByName, m.SignedByName != ""),
		SignedByEmail:  null.NewString(m.SignedByEmail, m.SignedByEmail != ""),
		SignedAt:       null.TimeFromPtr(m.SignedAt),
		RelatedType:    null.NewString(m.RelatedType, m.RelatedType != ""),
		RelatedID:      null.NewString(m.RelatedID, m.RelatedID != ""),
		CancelReason:   null.NewString(m.CancelReason, m.CancelReason != ""),
		ExpiresAt:      null.TimeFromPtr(m.ExpiresAt),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

// translateUniqueViolation maps store-level uniqueness failures onto the
// domain collision error so the issuing path can retry generation
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.ErrIdentifierCollision
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed") {
		return domainErrors.ErrIdentifierCollision
	}
	return err
}
