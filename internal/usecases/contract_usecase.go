package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/domain/errors"
	domainRepos "charter-ops.backend/internal/domain/repositories"
	"charter-ops.backend/pkg/metrics"
	"charter-ops.backend/pkg/utils"
)

// maxIdentifierAttempts bounds retries after a code or access token collides
// with an existing contract
const maxIdentifierAttempts = 5

// ContractUsecase is the contract lifecycle manager. Every status change
// goes through it; nothing else mutates contract fields.
type ContractUsecase struct {
	contractRepo domainRepos.ContractRepository
	templateRepo domainRepos.ContractTemplateRepository
	gen          *IdentifierGenerator
}

func NewContractUsecase(
	contractRepo domainRepos.ContractRepository,
	templateRepo domainRepos.ContractTemplateRepository,
	gen *IdentifierGenerator,
) *ContractUsecase {
	return &ContractUsecase{
		contractRepo: contractRepo,
		templateRepo: templateRepo,
		gen:          gen,
	}
}

type IssueContractInput struct {
	TemplateID  uuid.UUID
	Values      map[string]interface{}
	RelatedType string
	RelatedID   string
	ExpiresAt   *time.Time
	// ReadyToSign starts the contract at pending_sign instead of draft
	ReadyToSign bool
	// InitialStatus overrides the starting status when set; limited to the
	// non-terminal states (draft, pending, pending_sign)
	InitialStatus entities.ContractStatus
}

// IssueContract turns a template plus a raw variable map into a persisted
// contract: validate, render, mint identifiers, store. The rendered body and
// the normalized values are snapshots; later template edits never touch them.
func (uc *ContractUsecase) IssueContract(ctx context.Context, input IssueContractInput) (*entities.Contract, error) {
	template, err := uc.templateRepo.GetByID(ctx, input.TemplateID)
	if err != nil {
		return nil, errors.NotFound("contract template not found")
	}
	if !template.IsActive {
		return nil, errors.Conflict("template is inactive", errors.ErrTemplateInactive)
	}

	values, err := ValidateVariables(template.Variables, input.Values)
	if err != nil {
		return nil, err
	}

	rendered, err := RenderBody(template.Body, values)
	if err != nil {
		return nil, err
	}

	status := entities.ContractStatusDraft
	if input.ReadyToSign {
		status = entities.ContractStatusPendingSign
	}
	if input.InitialStatus != "" {
		switch input.InitialStatus {
		case entities.ContractStatusDraft, entities.ContractStatusPending, entities.ContractStatusPendingSign:
			status = input.InitialStatus
		default:
			return nil, errors.BadRequest("initial status must be draft, pending or pending_sign")
		}
	}

	now := time.Now()
	contract := &entities.Contract{
		ID:             utils.NewID(),
		SKU:            template.SKU,
		TemplateID:     template.ID,
		VariableValues: values,
		RenderedBody:   rendered,
		Status:         status,
		RelatedType:    null.NewString(input.RelatedType, input.RelatedType != ""),
		RelatedID:      null.NewString(input.RelatedID, input.RelatedID != ""),
		ExpiresAt:      null.TimeFromPtr(input.ExpiresAt),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.persistWithIdentifiers(ctx, contract, now); err != nil {
		return nil, err
	}

	metrics.ContractsIssued.Inc()
	return contract, nil
}

// persistWithIdentifiers mints a code/token pair and creates the contract,
// retrying on uniqueness collisions. Collisions are rare but expected; the
// store's unique constraints are the arbiter under concurrency.
func (uc *ContractUsecase) persistWithIdentifiers(ctx context.Context, contract *entities.Contract, now time.Time) error {
	for attempt := 0; attempt < maxIdentifierAttempts; attempt++ {
		if attempt > 0 {
			metrics.IdentifierRetries.Inc()
		}

		code, err := uc.gen.NewCode(now)
		if err != nil {
			return errors.InternalError(err)
		}
		token, err := uc.gen.NewAccessToken()
		if err != nil {
			return errors.InternalError(err)
		}

		if taken, err := uc.contractRepo.CodeExists(ctx, code); err != nil {
			return errors.InternalError(err)
		} else if taken {
			continue
		}
		if taken, err := uc.contractRepo.AccessTokenExists(ctx, token); err != nil {
			return errors.InternalError(err)
		} else if taken {
			continue
		}

		contract.Code = code
		contract.AccessToken = token

		err = uc.contractRepo.Create(ctx, contract)
		if err == nil {
			return nil
		}
		// a concurrent writer may win the constraint race after our pre-check
		if errorIs(err, errors.ErrIdentifierCollision) {
			continue
		}
		return errors.InternalError(err)
	}
	return errors.Conflict("could not allocate unique contract identifiers", errors.ErrIdentifierCollision)
}

func (uc *ContractUsecase) GetContract(ctx context.Context, id uuid.UUID) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	applyEffectiveStatus(contract, time.Now())
	return contract, nil
}

func (uc *ContractUsecase) GetContractByCode(ctx context.Context, code string) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	applyEffectiveStatus(contract, time.Now())
	return contract, nil
}

func (uc *ContractUsecase) ListContracts(ctx context.Context, filter entities.ContractFilter) ([]*entities.Contract, int, error) {
	contracts, total, err := uc.contractRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, errors.InternalError(err)
	}
	now := time.Now()
	for _, c := range contracts {
		applyEffectiveStatus(c, now)
	}
	return contracts, total, nil
}

// GetRenderedBody exposes the immutable document body for the external PDF
// renderer. Never re-renders.
func (uc *ContractUsecase) GetRenderedBody(ctx context.Context, id uuid.UUID) (string, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return "", errors.NotFound("contract not found")
	}
	return contract.RenderedBody, nil
}

// RequestSignature moves a draft contract to pending_sign
func (uc *ContractUsecase) RequestSignature(ctx context.Context, id uuid.UUID) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	if contract.Status.Terminal() {
		return nil, errors.Conflict("contract is in a terminal state", errors.ErrAlreadyTerminal)
	}
	if contract.Status != entities.ContractStatusDraft {
		return nil, errors.Conflict("contract is not in draft", errors.ErrStateConflict)
	}

	err = uc.contractRepo.UpdateStatus(ctx, id, entities.ContractStatusDraft, entities.ContractStatusPendingSign)
	if err != nil {
		return nil, mapStatusWriteError(err)
	}
	contract.Status = entities.ContractStatusPendingSign
	contract.UpdatedAt = time.Now()
	return contract, nil
}

// SignContract applies the signer identity and moves the contract to signed.
// signed_at and signed_by_* are written exactly once, on this transition.
func (uc *ContractUsecase) SignContract(ctx context.Context, id uuid.UUID, name, email string) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	return uc.sign(ctx, contract, name, email)
}

// SignContractByToken is the signer-surface entry: the access token is the
// sole authorization
func (uc *ContractUsecase) SignContractByToken(ctx context.Context, token, name, email string) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByAccessToken(ctx, token)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	return uc.sign(ctx, contract, name, email)
}

func (uc *ContractUsecase) sign(ctx context.Context, contract *entities.Contract, name, email string) (*entities.Contract, error) {
	if name == "" || email == "" {
		return nil, errors.BadRequest("signer name and email are required")
	}

	now := time.Now()
	switch {
	case contract.Status == entities.ContractStatusSigned:
		return nil, errors.Conflict("contract already signed", errors.ErrAlreadySigned)
	case contract.EffectiveStatus(now) == entities.ContractStatusExpired:
		return nil, errors.Conflict("contract has expired", errors.ErrAlreadyTerminal)
	case contract.Status == entities.ContractStatusCancelled:
		return nil, errors.Conflict("contract was cancelled", errors.ErrAlreadyTerminal)
	case !contract.Status.Signable():
		return nil, errors.Conflict("contract is not awaiting signature", errors.ErrAlreadySigned)
	}

	sig := domainRepos.SignatureRecord{Name: name, Email: email, SignedAt: now}
	if err := uc.contractRepo.MarkSigned(ctx, contract.ID, contract.Status, sig); err != nil {
		return nil, mapStatusWriteError(err)
	}

	contract.Status = entities.ContractStatusSigned
	contract.SignedByName = null.StringFrom(name)
	contract.SignedByEmail = null.StringFrom(email)
	contract.SignedAt = null.TimeFrom(now)
	contract.UpdatedAt = now

	metrics.ContractsSigned.Inc()
	return contract, nil
}

// InvalidateContract cancels a not-yet-terminal contract, recording the
// reason for the audit trail
func (uc *ContractUsecase) InvalidateContract(ctx context.Context, id uuid.UUID, reason string) (*entities.Contract, error) {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}

	now := time.Now()
	if contract.Status.Terminal() || contract.EffectiveStatus(now) == entities.ContractStatusExpired {
		return nil, errors.Conflict("contract is in a terminal state", errors.ErrAlreadyTerminal)
	}

	if err := uc.contractRepo.MarkCancelled(ctx, id, contract.Status, reason); err != nil {
		return nil, mapStatusWriteError(err)
	}

	contract.Status = entities.ContractStatusCancelled
	contract.CancelReason = null.NewString(reason, reason != "")
	contract.UpdatedAt = now

	metrics.ContractsCancelled.Inc()
	return contract, nil
}

// DeleteContract removes a draft or cancelled contract. Active or signed
// contracts are refused to preserve the audit trail; invalidate first.
func (uc *ContractUsecase) DeleteContract(ctx context.Context, id uuid.UUID) error {
	contract, err := uc.contractRepo.GetByID(ctx, id)
	if err != nil {
		return errors.NotFound("contract not found")
	}
	if !contract.Deletable() {
		return errors.Conflict("contract is active and cannot be deleted", errors.ErrCannotDeleteActive)
	}
	if err := uc.contractRepo.Delete(ctx, id); err != nil {
		return errors.InternalError(err)
	}
	return nil
}

// ContractPublicView is what an access token grants: the rendered document
// plus just enough state for the signer page
type ContractPublicView struct {
	Code          string                  `json:"code"`
	SKU           string                  `json:"sku"`
	RenderedBody  string                  `json:"renderedBody"`
	Status        entities.ContractStatus `json:"status"`
	SignedByName  null.String             `json:"signedByName,omitempty"`
	SignedAt      null.Time               `json:"signedAt,omitempty"`
	ExpiresAt     null.Time               `json:"expiresAt,omitempty"`
}

// EffectiveStatus applies the deadline rule to a view that may have been
// cached before the deadline passed. Mirrors Contract.EffectiveStatus.
func (v *ContractPublicView) EffectiveStatus(now time.Time) entities.ContractStatus {
	if v.Status == entities.ContractStatusPendingSign && v.ExpiresAt.Valid && !now.Before(v.ExpiresAt.Time) {
		return entities.ContractStatusExpired
	}
	return v.Status
}

// GetPublicView resolves an access token to the signer-facing view. Tokens
// stay valid for viewing after signature; only the sign action is one-shot.
func (uc *ContractUsecase) GetPublicView(ctx context.Context, token string) (*ContractPublicView, error) {
	contract, err := uc.contractRepo.GetByAccessToken(ctx, token)
	if err != nil {
		return nil, errors.NotFound("contract not found")
	}
	applyEffectiveStatus(contract, time.Now())
	return &ContractPublicView{
		Code:         contract.Code,
		SKU:          contract.SKU,
		RenderedBody: contract.RenderedBody,
		Status:       contract.Status,
		SignedByName: contract.SignedByName,
		SignedAt:     contract.SignedAt,
		ExpiresAt:    contract.ExpiresAt,
	}, nil
}

// ExpireDue persists the expired status for pending_sign contracts past
// their deadline. Read paths never depend on this having run.
func (uc *ContractUsecase) ExpireDue(ctx context.Context, batchSize int) (int, error) {
	now := time.Now()
	due, err := uc.contractRepo.ListExpiredPendingSign(ctx, now, batchSize)
	if err != nil {
		return 0, errors.InternalError(err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(due))
	for _, c := range due {
		ids = append(ids, c.ID)
	}
	if err := uc.contractRepo.ExpireContracts(ctx, ids); err != nil {
		return 0, errors.InternalError(err)
	}

	metrics.ContractsExpired.Add(float64(len(ids)))
	return len(ids), nil
}

// applyEffectiveStatus overlays the derived status on a read copy; the
// stored row is untouched until the sweep persists it
func applyEffectiveStatus(c *entities.Contract, now time.Time) {
	c.Status = c.EffectiveStatus(now)
}

func mapStatusWriteError(err error) error {
	if errorIs(err, errors.ErrStateConflict) {
		return errors.Conflict("contract status changed concurrently", errors.ErrStateConflict)
	}
	return errors.InternalError(err)
}
