package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"charter-ops.backend/internal/domain/entities"
)

// SignatureRecord carries the signer identity applied on the signed transition
type SignatureRecord struct {
	Name     string
	Email    string
	SignedAt time.Time
}

// ContractRepository defines the persistence boundary for contracts.
//
// UpdateStatus, MarkSigned and MarkCancelled take the status the caller read
// and apply the write only if the stored status still matches it. A zero-row
// update means another writer moved the contract first; implementations
// return errors.ErrStateConflict in that case.
type ContractRepository interface {
	Create(ctx context.Context, contract *entities.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Contract, error)
	GetByCode(ctx context.Context, code string) (*entities.Contract, error)
	GetByAccessToken(ctx context.Context, token string) (*entities.Contract, error)
	List(ctx context.Context, filter entities.ContractFilter) ([]*entities.Contract, int, error)
	CountByTemplateID(ctx context.Context, templateID uuid.UUID) (int64, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	AccessTokenExists(ctx context.Context, token string) (bool, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.ContractStatus) error
	MarkSigned(ctx context.Context, id uuid.UUID, from entities.ContractStatus, sig SignatureRecord) error
	MarkCancelled(ctx context.Context, id uuid.UUID, from entities.ContractStatus, reason string) error
	ExpireContracts(ctx context.Context, ids []uuid.UUID) error
	ListExpiredPendingSign(ctx context.Context, now time.Time, limit int) ([]*entities.Contract, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
