package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"charter-ops.backend/internal/domain/entities"
	domainerrors "charter-ops.backend/internal/domain/errors"
	"charter-ops.backend/internal/interfaces/http/response"
	"charter-ops.backend/internal/usecases"
)

type TemplateHandler struct {
	usecase *usecases.TemplateUsecase
}

func NewTemplateHandler(usecase *usecases.TemplateUsecase) *TemplateHandler {
	return &TemplateHandler{usecase: usecase}
}

type VariableDefRequest struct {
	Key      string `json:"key" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Required bool   `json:"required"`
}

type TemplateRequest struct {
	SKU         string               `json:"sku" binding:"required"`
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Variables   []VariableDefRequest `json:"variables"`
	Body        string               `json:"body" binding:"required"`
	IsActive    *bool                `json:"isActive"`
}

func (r TemplateRequest) toInput() usecases.TemplateInput {
	variables := make([]entities.VariableDef, 0, len(r.Variables))
	for _, v := range r.Variables {
		variables = append(variables, entities.VariableDef{
			Key:      v.Key,
			Type:     entities.VariableType(v.Type),
			Required: v.Required,
		})
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return usecases.TemplateInput{
		SKU:         r.SKU,
		Name:        r.Name,
		Description: r.Description,
		Variables:   variables,
		Body:        r.Body,
		IsActive:    active,
	}
}

// CreateTemplate creates a new contract template
// POST /api/v1/contract-templates
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.usecase.CreateTemplate(c.Request.Context(), req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, template)
}

// UpdateTemplate updates a template in place
// PUT /api/v1/contract-templates/:id
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid template ID"))
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.usecase.UpdateTemplate(c.Request.Context(), id, req.toInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetActive toggles whether the template can issue new contracts
// PUT /api/v1/contract-templates/:id/active
func (h *TemplateHandler) SetActive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid template ID"))
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	template, err := h.usecase.SetActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// GetTemplate gets a template by ID
// GET /api/v1/contract-templates/:id
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid template ID"))
		return
	}

	template, err := h.usecase.GetTemplate(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, template)
}

// ListTemplates lists templates, optionally active only
// GET /api/v1/contract-templates?active=true
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	templates, err := h.usecase.ListTemplates(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, templates)
}

// DeleteTemplate deletes a template that never issued a contract
// DELETE /api/v1/contract-templates/:id
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid template ID"))
		return
	}

	if err := h.usecase.DeleteTemplate(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
