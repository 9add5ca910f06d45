package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("generate bill: %w", NewRuleError("empty_cart", "Cart is empty"))

		appErr := GetAppError(err)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		assert.Equal(t, "empty_cart", appErr.Reason)
		assert.True(t, IsAppError(err))
	})

	t.Run("plain error becomes internal server error", func(t *testing.T) {
		appErr := GetAppError(errors.New("connection reset"))
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
		assert.Equal(t, "connection reset", appErr.Message)
		assert.False(t, IsAppError(errors.New("x")))
	})
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Customer")
	assert.Equal(t, "Customer not found", err.Error())
	assert.Equal(t, http.StatusNotFound, err.Code)
}
