package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsMatchBySentinel(t *testing.T) {
	err := insufficientBalance(21.01, 21)
	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.False(t, errors.Is(err, ErrAccountFrozen))
	assert.Contains(t, err.Error(), "21.01")

	assert.True(t, errors.Is(accountFrozen("risk review"), ErrAccountFrozen))
	assert.True(t, errors.Is(accountNotFound("abc"), ErrAccountNotFound))
	assert.True(t, errors.Is(duplicateOperation("order-1"), ErrDuplicateOperation))
	assert.True(t, errors.Is(LimitExceeded("max %d per day", 3), ErrLimitExceeded))
	assert.True(t, errors.Is(PlacementNotFound("no root"), ErrPlacementNotFound))
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create withdrawal: %w", insufficientBalance(50, 10))
	assert.True(t, errors.Is(wrapped, ErrInsufficientBalance))

	var walletErr *Error
	assert.True(t, errors.As(wrapped, &walletErr))
	assert.Equal(t, KindInsufficientBalance, walletErr.Kind)
}
