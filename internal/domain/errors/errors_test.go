package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"charter-ops.backend/internal/domain/errors"
)

func TestValidationError_Messages(t *testing.T) {
	assert.Equal(t, `missing required variable "amount"`, errors.MissingRequiredVariable("amount").Error())
	assert.Equal(t, `unknown variable "extra"`, errors.UnknownVariable("extra").Error())
	assert.Equal(t, `variable "amount": expected number, got string`, errors.TypeMismatch("amount", "number", "string").Error())
}

func TestValidationError_CarriesDetail(t *testing.T) {
	err := errors.TypeMismatch("amount", "number", "boolean")
	assert.Equal(t, errors.ReasonTypeMismatch, err.Reason)
	assert.Equal(t, "amount", err.Key)
	assert.Equal(t, "number", err.Expected)
	assert.Equal(t, "boolean", err.Actual)
}

func TestRenderError_Message(t *testing.T) {
	assert.Equal(t, `unresolved placeholder "amount"`, errors.UnresolvedPlaceholder("amount").Error())
}

func TestAppError_WrapsSentinel(t *testing.T) {
	err := errors.NotFound("contract not found")
	assert.Equal(t, http.StatusNotFound, err.Code)
	assert.True(t, stderrors.Is(err, errors.ErrNotFound))
	assert.Equal(t, "resource not found", err.Error())
}

func TestAppError_ConflictKeepsKind(t *testing.T) {
	err := errors.Conflict("contract already signed", errors.ErrAlreadySigned)
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.True(t, stderrors.Is(err, errors.ErrAlreadySigned))
	assert.False(t, stderrors.Is(err, errors.ErrAlreadyTerminal))
}

func TestAppError_MessageWithoutWrapped(t *testing.T) {
	err := errors.NewAppError(http.StatusBadRequest, "bad input", nil)
	assert.Equal(t, "bad input", err.Error())
}
