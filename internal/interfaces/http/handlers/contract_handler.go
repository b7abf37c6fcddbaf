package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"charter-ops.backend/internal/domain/entities"
	domainerrors "charter-ops.backend/internal/domain/errors"
	"charter-ops.backend/internal/interfaces/http/response"
	"charter-ops.backend/internal/usecases"
	"charter-ops.backend/pkg/redis"
)

type ContractHandler struct {
	usecase *usecases.ContractUsecase
	cache   *redis.SignerViewCache
}

func NewContractHandler(usecase *usecases.ContractUsecase, cache *redis.SignerViewCache) *ContractHandler {
	return &ContractHandler{usecase: usecase, cache: cache}
}

// dropSignerView evicts the cached public view; staff-side transitions change
// what the signer link shows
func (h *ContractHandler) dropSignerView(c *gin.Context, token string) {
	if h.cache != nil && token != "" {
		_ = h.cache.Invalidate(c.Request.Context(), token)
	}
}

type IssueContractRequest struct {
	TemplateID    string                 `json:"templateId" binding:"required"`
	Values        map[string]interface{} `json:"values"`
	RelatedType   string                 `json:"relatedType"`
	RelatedID     string                 `json:"relatedId"`
	ExpiresAt     *time.Time             `json:"expiresAt"`
	ReadyToSign   bool                   `json:"readyToSign"`
	InitialStatus string                 `json:"initialStatus"`
}

type issuedContractResponse struct {
	*entities.Contract
	// the bearer token is exposed exactly once, at issuance
	AccessToken string `json:"accessToken"`
}

// IssueContract issues a new contract from a template
// POST /api/v1/contracts
func (h *ContractHandler) IssueContract(c *gin.Context) {
	var req IssueContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid template ID"))
		return
	}

	contract, err := h.usecase.IssueContract(c.Request.Context(), usecases.IssueContractInput{
		TemplateID:    templateID,
		Values:        req.Values,
		RelatedType:   req.RelatedType,
		RelatedID:     req.RelatedID,
		ExpiresAt:     req.ExpiresAt,
		ReadyToSign:   req.ReadyToSign,
		InitialStatus: entities.ContractStatus(req.InitialStatus),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, issuedContractResponse{
		Contract:    contract,
		AccessToken: contract.AccessToken,
	})
}

// GetContract gets a contract by ID, reporting the effective status
// GET /api/v1/contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	contract, err := h.usecase.GetContract(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// GetContractByCode gets a contract by its human-readable code
// GET /api/v1/contracts/code/:code
func (h *ContractHandler) GetContractByCode(c *gin.Context) {
	contract, err := h.usecase.GetContractByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, contract)
}

// ListContracts lists contracts with optional filters
// GET /api/v1/contracts
func (h *ContractHandler) ListContracts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := entities.ContractFilter{
		Status:      entities.ContractStatus(c.Query("status")),
		SKU:         c.Query("sku"),
		RelatedType: c.Query("relatedType"),
		RelatedID:   c.Query("relatedId"),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	}
	if templateID := c.Query("templateId"); templateID != "" {
		id, err := uuid.Parse(templateID)
		if err != nil {
			response.Error(c, domainerrors.BadRequest("invalid template ID filter"))
			return
		}
		filter.TemplateID = id
	}

	contracts, total, err := h.usecase.ListContracts(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"contracts": contracts,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetRenderedBody exposes the immutable document body for PDF export
// GET /api/v1/contracts/:id/body
func (h *ContractHandler) GetRenderedBody(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	body, err := h.usecase.GetRenderedBody(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"renderedBody": body})
}

// RequestSignature moves a draft contract to pending_sign
// POST /api/v1/contracts/:id/request-signature
func (h *ContractHandler) RequestSignature(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	contract, err := h.usecase.RequestSignature(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dropSignerView(c, contract.AccessToken)
	response.Success(c, http.StatusOK, contract)
}

type SignContractRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// SignContract signs a contract on behalf of a signer (staff-entered)
// POST /api/v1/contracts/:id/sign
func (h *ContractHandler) SignContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	var req SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.usecase.SignContract(c.Request.Context(), id, req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dropSignerView(c, contract.AccessToken)
	response.Success(c, http.StatusOK, contract)
}

type InvalidateContractRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// InvalidateContract cancels a contract before signing or expiration
// POST /api/v1/contracts/:id/invalidate
func (h *ContractHandler) InvalidateContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	var req InvalidateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.usecase.InvalidateContract(c.Request.Context(), id, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.dropSignerView(c, contract.AccessToken)
	response.Success(c, http.StatusOK, contract)
}

// DeleteContract removes a draft or cancelled contract
// DELETE /api/v1/contracts/:id
func (h *ContractHandler) DeleteContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid contract ID"))
		return
	}

	if err := h.usecase.DeleteContract(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
