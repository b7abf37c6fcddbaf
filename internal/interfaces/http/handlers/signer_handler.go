package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	domainerrors "charter-ops.backend/internal/domain/errors"
	"charter-ops.backend/internal/interfaces/http/response"
	"charter-ops.backend/internal/usecases"
	"charter-ops.backend/pkg/redis"
)

// SignerHandler is the unauthenticated signer surface: the access token in
// the path is the sole authorization. It resolves tokens to a limited public
// view and accepts the sign action.
type SignerHandler struct {
	usecase *usecases.ContractUsecase
	cache   *redis.SignerViewCache
}

func NewSignerHandler(usecase *usecases.ContractUsecase, cache *redis.SignerViewCache) *SignerHandler {
	return &SignerHandler{usecase: usecase, cache: cache}
}

// GetContractView resolves an access token to the signer-facing view
// GET /api/v1/sign/:token
func (h *SignerHandler) GetContractView(c *gin.Context) {
	token := c.Param("token")
	ctx := c.Request.Context()

	if h.cache != nil {
		var cached usecases.ContractPublicView
		if found, err := h.cache.GetView(ctx, token, &cached); err == nil && found {
			// the deadline may have passed while the entry sat in the cache
			cached.Status = cached.EffectiveStatus(time.Now())
			response.Success(c, http.StatusOK, cached)
			return
		}
	}

	view, err := h.usecase.GetPublicView(ctx, token)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.PutView(ctx, token, view)
	}
	response.Success(c, http.StatusOK, view)
}

type SignRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// Sign signs the contract the token resolves to
// POST /api/v1/sign/:token
func (h *SignerHandler) Sign(c *gin.Context) {
	token := c.Param("token")

	var req SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	contract, err := h.usecase.SignContractByToken(c.Request.Context(), token, req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	// the cached view is stale the moment the status moves
	if h.cache != nil {
		_ = h.cache.Invalidate(c.Request.Context(), token)
	}
	response.Success(c, http.StatusOK, contract)
}
