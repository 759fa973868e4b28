package business

import (
	"testing"

	"binaryledger/internal/models"
	"binaryledger/pkg/config"

	"github.com/stretchr/testify/assert"
)

func TestCalculateWithdrawalFee(t *testing.T) {
	params := config.DefaultWithdrawalParams() // 5% rate, 1U floor

	// minimum withdrawal hits the fee floor
	assert.Equal(t, 1.0, CalculateWithdrawalFee(20, params))
	assert.Equal(t, 21.0, CalculateWithdrawalTotal(20, params))

	// above the floor the rate applies
	assert.Equal(t, 5.0, CalculateWithdrawalFee(100, params))
	assert.Equal(t, 105.0, CalculateWithdrawalTotal(100, params))

	assert.Equal(t, 5000.0, CalculateWithdrawalFee(100000, params))

	// fee rounds to cents
	assert.Equal(t, 1.67, CalculateWithdrawalFee(33.33, params))
}

func TestWithdrawalStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.WithdrawalStatus
		to      models.WithdrawalStatus
		allowed bool
	}{
		{models.WithdrawalPending, models.WithdrawalApproved, true},
		{models.WithdrawalPending, models.WithdrawalRejected, true},
		{models.WithdrawalApproved, models.WithdrawalProcessing, true},
		{models.WithdrawalProcessing, models.WithdrawalCompleted, true},
		{models.WithdrawalPending, models.WithdrawalCompleted, false},
		{models.WithdrawalApproved, models.WithdrawalRejected, false},
		{models.WithdrawalRejected, models.WithdrawalApproved, false},
		{models.WithdrawalCompleted, models.WithdrawalPending, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}
