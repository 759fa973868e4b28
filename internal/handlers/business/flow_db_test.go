package business

// Database-backed flow tests, skipped unless DB_HOST points at a reachable
// postgres instance.

import (
	"os"
	"sync"
	"testing"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flowDBOnce sync.Once

func setupFlowDB(t *testing.T) {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping database-backed flow tests")
	}
	flowDBOnce.Do(func() {
		config.InitDB()
	})
}

func createFlowAccount(t *testing.T, uBalance float64) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:       uuid.New().String(),
		Username: "flow-test",
		UBalance: uBalance,
	}
	require.NoError(t, config.DB.Create(account).Error)
	return account
}

func testAddress() string {
	addr := "T"
	for len(addr) < 34 {
		addr += "a"
	}
	return addr
}

func TestRejectedWithdrawalRefundsInFull(t *testing.T) {
	setupFlowDB(t)

	account := createFlowAccount(t, 100)

	withdrawal, err := CreateWithdrawal(account.ID, 20, testAddress())
	require.NoError(t, err)
	assert.InDelta(t, 1, withdrawal.Fee, 1e-9)
	assert.InDelta(t, 21, withdrawal.TotalAmount, 1e-9)

	var afterCreate models.Account
	require.NoError(t, config.DB.First(&afterCreate, "id = ?", account.ID).Error)
	assert.InDelta(t, 79, afterCreate.UBalance, 1e-9)

	reviewed, err := ReviewWithdrawal(withdrawal.ID, false, "test rejection")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalRejected, reviewed.Status)

	var afterRefund models.Account
	require.NoError(t, config.DB.First(&afterRefund, "id = ?", account.ID).Error)
	assert.InDelta(t, 100, afterRefund.UBalance, 1e-9)

	// a replayed review hits the status machine, not the wallet
	_, err = ReviewWithdrawal(withdrawal.ID, false, "replay")
	require.ErrorIs(t, err, wallet.ErrDuplicateOperation)
}

func TestRejectionRevertsToPendingWhenRefundFails(t *testing.T) {
	setupFlowDB(t)

	account := createFlowAccount(t, 100)
	withdrawal, err := CreateWithdrawal(account.ID, 20, testAddress())
	require.NoError(t, err)

	// with the account gone the refund cannot land; the request must stay
	// reviewable instead of being stuck rejected-unrefunded
	require.NoError(t, config.DB.Delete(&models.Account{}, "id = ?", account.ID).Error)

	_, err = ReviewWithdrawal(withdrawal.ID, false, "reject orphan")
	require.ErrorIs(t, err, wallet.ErrAccountNotFound)

	var reloaded models.Withdrawal
	require.NoError(t, config.DB.First(&reloaded, "id = ?", withdrawal.ID).Error)
	assert.Equal(t, models.WithdrawalPending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedAt)
}

func TestFreePairingCapCounterStopsAtCap(t *testing.T) {
	setupFlowDB(t)

	params := config.DefaultBinaryParams() // cap 10, unlock at 2 referrals

	// locked account one pair short of the cap, with enough pending volume
	// for four more matches
	account := createFlowAccount(t, 0)
	member := &models.BinaryMember{
		AccountID:    account.ID,
		PositionSide: models.SideA,
		IsActive:     true,
		ASidePending: 8,
		BSidePending: 4,
		SettledPairs: params.FreePairingCap - 1,
	}
	require.NoError(t, config.DB.Create(member).Error)

	require.NoError(t, SettleNode(account.ID, params))

	var reloaded models.BinaryMember
	require.NoError(t, config.DB.First(&reloaded, "account_id = ?", account.ID).Error)

	// one paid pair took the counter to the cap; the rest of the volume
	// burned with zero payout
	assert.Equal(t, params.FreePairingCap, reloaded.SettledPairs)
	assert.Equal(t, 0, reloaded.ASidePending)
	assert.Equal(t, 0, reloaded.BSidePending)

	var records []models.PairingRecord
	require.NoError(t, config.DB.Where("account_id = ?", account.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].Pairs)

	var afterPay models.Account
	require.NoError(t, config.DB.First(&afterPay, "id = ?", account.ID).Error)
	assert.InDelta(t, 5.95, afterPay.UBalance, 1e-9) // 1 pair * 7 * 0.85
}
