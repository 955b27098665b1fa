package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))

	notFound := ToDomainError(fmt.Errorf("load: %w", pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, CodeNotFound, notFound.Code)

	internal := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
	assert.Equal(t, "Internal Server Error", internal.Message)

	wrapped := fmt.Errorf("handler: %w", NewValidationError("amount required", nil))
	assert.Equal(t, http.StatusBadRequest, ToDomainError(wrapped).HTTPStatus)
}

func TestNewUnauthorizedHidesCause(t *testing.T) {
	cause := errors.New("signature is invalid")
	de := ToDomainError(NewUnauthorized(CodeTokenInvalid, cause))

	assert.Equal(t, "Unauthorized", de.Message)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.ErrorIs(t, de, cause)
}
