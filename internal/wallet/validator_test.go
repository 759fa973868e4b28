package wallet

import (
	"errors"
	"math"
	"testing"

	"binaryledger/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(0.01))
	assert.NoError(t, ValidateAmount(20))
	assert.NoError(t, ValidateAmount(999999.99))

	cases := []float64{0, -1, 0.001, 20.011, 1000000.01, math.NaN(), math.Inf(1)}
	for _, amount := range cases {
		err := ValidateAmount(amount)
		assert.Error(t, err, "amount %v should be rejected", amount)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "amount %v should map to invalid_amount", amount)
	}
}

func TestValidateWithdrawalAmount(t *testing.T) {
	params := config.DefaultWithdrawalParams()

	assert.NoError(t, ValidateWithdrawalAmount(20, params))
	assert.NoError(t, ValidateWithdrawalAmount(100000, params))

	assert.True(t, errors.Is(ValidateWithdrawalAmount(19.99, params), ErrInvalidAmount))
	assert.True(t, errors.Is(ValidateWithdrawalAmount(100000.01, params), ErrInvalidAmount))
	assert.True(t, errors.Is(ValidateWithdrawalAmount(20.001, params), ErrInvalidAmount))
}

func TestValidateWalletAddress(t *testing.T) {
	params := config.DefaultWithdrawalParams()

	assert.NoError(t, ValidateWalletAddress("T"+strRepeat("a", 33), params))

	assert.True(t, errors.Is(ValidateWalletAddress("Xabcdef", params), ErrInvalidAddress))
	assert.True(t, errors.Is(ValidateWalletAddress("Tshort", params), ErrInvalidAddress))
	assert.True(t, errors.Is(ValidateWalletAddress("T"+strRepeat("a", 40), params), ErrInvalidAddress))
}

func strRepeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
