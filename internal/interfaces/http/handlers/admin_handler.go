package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"charter-ops.backend/internal/interfaces/http/response"
	"charter-ops.backend/internal/usecases"
)

// AdminHandler serves maintenance endpoints guarded by the admin API key
type AdminHandler struct {
	contracts *usecases.ContractUsecase
}

func NewAdminHandler(contracts *usecases.ContractUsecase) *AdminHandler {
	return &AdminHandler{contracts: contracts}
}

// ExpireSweep runs one expiry sweep batch on demand
// POST /api/v1/admin/contracts/expire-sweep
func (h *AdminHandler) ExpireSweep(c *gin.Context) {
	batch, _ := strconv.Atoi(c.DefaultQuery("batch", "100"))

	expired, err := h.contracts.ExpireDue(c.Request.Context(), batch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"expired": expired})
}
