package apperrors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err     *BusinessError
		status  int
		message string
	}{
		{RecordNotFound(""), http.StatusNotFound, "Record not found"},
		{RecordNotFound("User not found"), http.StatusNotFound, "User not found"},
		{Conflict(""), http.StatusConflict, "Conflict"},
		{Unauthorized(""), http.StatusUnauthorized, "Unauthorized"},
		{Forbidden("Inactive user"), http.StatusForbidden, "Inactive user"},
		{Validation(""), http.StatusUnprocessableEntity, "Validation error"},
		{InternalServer(""), http.StatusInternalServerError, "Internal server error"},
		{BadRequest("Email already registered"), http.StatusBadRequest, "Email already registered"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode)
		assert.Equal(t, tt.message, tt.err.Error())
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", RecordNotFound("Post not found"))

	be, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, be.StatusCode)

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
