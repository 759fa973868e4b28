package wallet

// Database-backed tests for the mutation path. They exercise the conditional
// UPDATE semantics the pure tests cannot reach and are skipped unless
// DB_HOST points at a reachable postgres instance.

import (
	"os"
	"sync"
	"testing"

	"binaryledger/internal/models"
	"binaryledger/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ledgerDBOnce sync.Once

func setupLedgerDB(t *testing.T) {
	t.Helper()
	if os.Getenv("DB_HOST") == "" {
		t.Skip("DB_HOST not set, skipping database-backed ledger tests")
	}
	ledgerDBOnce.Do(func() {
		config.InitDB()
	})
}

func createTestAccount(t *testing.T, uBalance float64) *models.Account {
	t.Helper()
	account := &models.Account{
		ID:       uuid.New().String(),
		Username: "ledger-test",
		UBalance: uBalance,
	}
	require.NoError(t, config.DB.Create(account).Error)
	return account
}

func TestDeductExactBalanceBoundary(t *testing.T) {
	setupLedgerDB(t)

	// deducting exactly the balance succeeds and lands on zero
	account := createTestAccount(t, 100)
	after, err := Deduct(account.ID, 100, models.RewardAdminAdjust, "drain to zero", nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0, after, 1e-9)

	// one cent over the balance fails and leaves it untouched
	account = createTestAccount(t, 100)
	_, err = Deduct(account.ID, 100.01, models.RewardAdminAdjust, "overdraw attempt", nil, nil)
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var reloaded models.Account
	require.NoError(t, config.DB.First(&reloaded, "id = ?", account.ID).Error)
	assert.InDelta(t, 100, reloaded.UBalance, 1e-9)
}

func TestDuplicateOrderKeyReplay(t *testing.T) {
	setupLedgerDB(t)

	account := createTestAccount(t, 0)
	orderID := "order-" + uuid.New().String()

	after, err := Add(account.ID, 10, models.RewardAdminAdjust, "first credit", nil, &orderID)
	require.NoError(t, err)
	assert.InDelta(t, 10, after, 1e-9)

	// replaying the same order key mutates nothing
	_, err = Add(account.ID, 10, models.RewardAdminAdjust, "replayed credit", nil, &orderID)
	require.ErrorIs(t, err, ErrDuplicateOperation)

	var reloaded models.Account
	require.NoError(t, config.DB.First(&reloaded, "id = ?", account.ID).Error)
	assert.InDelta(t, 10, reloaded.UBalance, 1e-9)

	var rows int64
	require.NoError(t, config.DB.Model(&models.Transaction{}).
		Where("order_id = ?", orderID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestAddDeductRoundTrip(t *testing.T) {
	setupLedgerDB(t)

	account := createTestAccount(t, 25.5)

	after, err := Add(account.ID, 10.25, models.RewardAdminAdjust, "round trip credit", nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 35.75, after, 1e-9)

	after, err = Deduct(account.ID, 10.25, models.RewardAdminAdjust, "round trip debit", nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 25.5, after, 1e-9)

	// the two ledger rows cancel out exactly
	var sum float64
	require.NoError(t, config.DB.Model(&models.Transaction{}).
		Where("account_id = ?", account.ID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestTransferConservation(t *testing.T) {
	setupLedgerDB(t)

	from := createTestAccount(t, 100)
	to := createTestAccount(t, 20)

	require.NoError(t, Transfer(from.ID, to.ID, 30, "conservation check"))

	var fromAfter, toAfter models.Account
	require.NoError(t, config.DB.First(&fromAfter, "id = ?", from.ID).Error)
	require.NoError(t, config.DB.First(&toAfter, "id = ?", to.ID).Error)
	assert.InDelta(t, 70, fromAfter.UBalance, 1e-9)
	assert.InDelta(t, 50, toAfter.UBalance, 1e-9)
	assert.InDelta(t, 120, fromAfter.UBalance+toAfter.UBalance, 1e-9)

	// the matched ledger pair sums to zero
	var sum float64
	require.NoError(t, config.DB.Model(&models.Transaction{}).
		Where("account_id IN ?", []string{from.ID, to.ID}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error)
	assert.InDelta(t, 0, sum, 1e-9)
}

func TestPointsSubLedgerInvariant(t *testing.T) {
	setupLedgerDB(t)

	account := createTestAccount(t, 0)

	_, err := AddPoints(account.ID, 5, models.RewardMiningRelease, "mining yield")
	require.NoError(t, err)
	_, err = AddTransferPoints(account.ID, 2.5, models.RewardTransferIn, "gifted points")
	require.NoError(t, err)

	var reloaded models.Account
	require.NoError(t, config.DB.First(&reloaded, "id = ?", account.ID).Error)
	assert.InDelta(t, 5, reloaded.MiningPoints, 1e-9)
	assert.InDelta(t, 2.5, reloaded.TransferPoints, 1e-9)
	assert.InDelta(t, reloaded.MiningPoints+reloaded.TransferPoints, reloaded.PointsBalance, 1e-9)
}
