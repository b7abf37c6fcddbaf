package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"charter-ops.backend/internal/domain/entities"
	domainErrors "charter-ops.backend/internal/domain/errors"
)

func newStoredTemplate(t *testing.T, repo *ContractTemplateRepositoryImpl, sku string) *entities.ContractTemplate {
	t.Helper()
	now := time.Now()
	template := &entities.ContractTemplate{
		ID:   uuid.New(),
		SKU:  sku,
		Name: "Day Charter Agreement",
		Variables: []entities.VariableDef{
			{Key: "amount", Type: entities.VariableTypeNumber, Required: true},
		},
		Body:      "Total: {{amount}}",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), template))
	return template
}

func TestTemplateRepo_CreateAndGet(t *testing.T) {
	repo := NewContractTemplateRepository(newTestDB(t))
	ctx := context.Background()

	created := newStoredTemplate(t, repo, "CHARTER-DAY")

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CHARTER-DAY", got.SKU)
	require.Len(t, got.Variables, 1)
	assert.Equal(t, "amount", got.Variables[0].Key)
	assert.Equal(t, entities.VariableTypeNumber, got.Variables[0].Type)
	assert.True(t, got.Variables[0].Required)

	bySKU, err := repo.GetBySKU(ctx, "CHARTER-DAY")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySKU.ID)
}

func TestTemplateRepo_CreateDuplicateSKU(t *testing.T) {
	repo := NewContractTemplateRepository(newTestDB(t))

	newStoredTemplate(t, repo, "CHARTER-DAY")

	dup := &entities.ContractTemplate{
		ID:       uuid.New(),
		SKU:      "CHARTER-DAY",
		Name:     "Another",
		Body:     "",
		IsActive: true,
	}
	err := repo.Create(context.Background(), dup)
	require.ErrorIs(t, err, domainErrors.ErrIdentifierCollision)
}

func TestTemplateRepo_Update(t *testing.T) {
	repo := NewContractTemplateRepository(newTestDB(t))
	ctx := context.Background()

	template := newStoredTemplate(t, repo, "CHARTER-DAY")
	template.Name = "Day Charter Agreement v2"
	template.Body = "Total due: {{amount}}"
	template.Variables = append(template.Variables,
		entities.VariableDef{Key: "notes", Type: entities.VariableTypeString})
	template.IsActive = false

	require.NoError(t, repo.Update(ctx, template))

	got, err := repo.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day Charter Agreement v2", got.Name)
	assert.Equal(t, "Total due: {{amount}}", got.Body)
	assert.Len(t, got.Variables, 2)
	assert.False(t, got.IsActive)
}

func TestTemplateRepo_List(t *testing.T) {
	repo := NewContractTemplateRepository(newTestDB(t))
	ctx := context.Background()

	newStoredTemplate(t, repo, "CHARTER-DAY")
	inactive := newStoredTemplate(t, repo, "CHARTER-WEEK")
	inactive.IsActive = false
	require.NoError(t, repo.Update(ctx, inactive))

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "CHARTER-DAY", active[0].SKU)
}

func TestTemplateRepo_Delete(t *testing.T) {
	repo := NewContractTemplateRepository(newTestDB(t))
	ctx := context.Background()

	template := newStoredTemplate(t, repo, "CHARTER-DAY")
	require.NoError(t, repo.Delete(ctx, template.ID))

	_, err := repo.GetByID(ctx, template.ID)
	require.Error(t, err)
}
