package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	domainerrors "charter-ops.backend/internal/domain/errors"
)

// Success sends the standard success envelope
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// Error sends the standard failure envelope. The engine's error kinds map to
// distinct statuses and, for validation and render errors, the structured
// detail rides along so controllers can surface the offending key.
func Error(c *gin.Context, err error) {
	status, message, detail := classify(err)
	body := gin.H{
		"success": false,
		"message": message,
	}
	if detail != nil {
		body["error"] = detail
	}
	c.JSON(status, body)
}

func classify(err error) (int, string, interface{}) {
	var validationErr *domainerrors.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error(), validationErr
	}

	var renderErr *domainerrors.RenderError
	if errors.As(err, &renderErr) {
		// render failures after validation indicate a schema/body integrity
		// defect, not caller input
		return http.StatusInternalServerError, renderErr.Error(), renderErr
	}

	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code, appErr.Message, nil
	}

	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		return http.StatusNotFound, err.Error(), nil
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), nil
	case errors.Is(err, domainerrors.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error(), nil
	case errors.Is(err, domainerrors.ErrAlreadySigned),
		errors.Is(err, domainerrors.ErrAlreadyTerminal),
		errors.Is(err, domainerrors.ErrStateConflict),
		errors.Is(err, domainerrors.ErrTemplateInactive),
		errors.Is(err, domainerrors.ErrTemplateInUse),
		errors.Is(err, domainerrors.ErrCannotDeleteActive),
		errors.Is(err, domainerrors.ErrAlreadyExists),
		errors.Is(err, domainerrors.ErrSKUImmutable),
		errors.Is(err, domainerrors.ErrIdentifierCollision):
		return http.StatusConflict, err.Error(), nil
	}
	return http.StatusInternalServerError, "internal server error", nil
}
