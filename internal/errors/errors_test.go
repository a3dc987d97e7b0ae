package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := ValidationError("bad input")
	assert.Equal(t, "validation: bad input", err.Error())

	wrapped := ExternalError("search failed", errors.New("boom"))
	assert.Equal(t, "external: search failed: boom", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := ExternalError("search failed", cause)
	assert.True(t, errors.Is(err, cause))
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ValidationError("x"), http.StatusBadRequest},
		{NotFoundError("x"), http.StatusNotFound},
		{ExternalError("x", nil), http.StatusBadGateway},
		{InternalError("x", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestWithField_Chainable(t *testing.T) {
	err := NotFoundError("item not found").
		WithField("item_id", "gid://123").
		WithField("user_id", "abc")

	assert.Equal(t, "gid://123", err.Context["item_id"])
	assert.Equal(t, "abc", err.Context["user_id"])
}

func TestAsStructuredError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsStructuredError(nil))
	})

	t.Run("structured error passes through", func(t *testing.T) {
		orig := ValidationError("bad")
		got := AsStructuredError(orig)
		assert.Same(t, orig, got)
	})

	t.Run("wrapped structured error is recovered", func(t *testing.T) {
		orig := NotFoundError("missing")
		got := AsStructuredError(fmt.Errorf("outer: %w", orig))
		require.NotNil(t, got)
		assert.Equal(t, TypeNotFound, got.Type)
	})

	t.Run("plain error becomes internal", func(t *testing.T) {
		got := AsStructuredError(errors.New("boom"))
		require.NotNil(t, got)
		assert.Equal(t, TypeInternal, got.Type)
	})
}
