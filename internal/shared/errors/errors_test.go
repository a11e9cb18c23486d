package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetType(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", Validationf("star mass must be positive, got %g", -1.0), ErrorTypeValidation},
		{"not found", NotFoundf("system %d not found", 3), ErrorTypeNotFound},
		{"external", WrapExternal("failed to query systems", cause), ErrorTypeExternal},
		{"forbidden", Forbidden("admin access required"), ErrorTypeForbidden},
		{"internal", Internalf("system %q did not settle", "Sol"), ErrorTypeInternal},
		{"wrapped by fmt", fmt.Errorf("create system: %w", Validation("name is required")), ErrorTypeValidation},
		{"plain error", cause, ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetType(tt.err))
		})
	}
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := WrapInternal("accretion failed", cause)

	assert.Equal(t, "accretion failed: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
}
