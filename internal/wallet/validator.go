package wallet

import (
	"errors"
	"math"
	"strings"

	"binaryledger/internal/models"
	"binaryledger/pkg/config"
	"binaryledger/pkg/utils"

	"gorm.io/gorm"
)

// Amount limits for a single wallet operation
const (
	MinAmount = 0.01
	MaxAmount = 1000000
)

// PointsType selects which points sub-ledger a check runs against
type PointsType string

const (
	PointsMining   PointsType = "mining"
	PointsTransfer PointsType = "transfer"
)

// ValidateAmount checks that an amount is finite, positive, within the
// global bounds and has at most 2 decimal places. Pure, no DB access.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return invalidAmount("amount must be a finite number")
	}
	if amount <= 0 {
		return invalidAmount("amount must be greater than 0")
	}
	if amount < MinAmount {
		return invalidAmount("amount must be at least %.2f", MinAmount)
	}
	if amount > MaxAmount {
		return invalidAmount("amount must not exceed %.0f", float64(MaxAmount))
	}
	if !utils.HasMaxTwoDecimals(amount) {
		return invalidAmount("amount supports at most 2 decimal places")
	}
	return nil
}

// ValidateWithdrawalAmount checks an amount against the withdrawal bounds.
func ValidateWithdrawalAmount(amount float64, params config.WithdrawalParams) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return invalidAmount("amount must be a finite number")
	}
	if amount < params.MinAmount {
		return invalidAmount("minimum withdrawal is %.0fU", params.MinAmount)
	}
	if amount > params.MaxAmount {
		return invalidAmount("maximum withdrawal is %.0fU", params.MaxAmount)
	}
	if !utils.HasMaxTwoDecimals(amount) {
		return invalidAmount("amount supports at most 2 decimal places")
	}
	return nil
}

// ValidateWalletAddress checks the destination address format.
func ValidateWalletAddress(address string, params config.WithdrawalParams) error {
	if !strings.HasPrefix(address, params.AddressPrefix) || len(address) != params.AddressLength {
		return invalidAddress("wallet address must start with " + params.AddressPrefix +
			" and be exactly the expected length")
	}
	return nil
}

// CheckAccountStatus fails when the account is missing or frozen. This is a
// precondition check only: the mutation primitives re-check at their own
// atomicity boundary because this read can race.
func CheckAccountStatus(accountID string) error {
	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return accountNotFound(accountID)
		}
		return err
	}
	if account.IsFrozen {
		return accountFrozen(account.FreezeReason)
	}
	return nil
}

// CheckSufficient fails fast when the U balance cannot cover the amount.
func CheckSufficient(accountID string, amount float64) error {
	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return accountNotFound(accountID)
		}
		return err
	}
	if account.IsFrozen {
		return accountFrozen(account.FreezeReason)
	}
	if account.UBalance < amount {
		return insufficientBalance(amount, account.UBalance)
	}
	return nil
}

// CheckPointsSufficient fails fast when the selected points sub-ledger
// cannot cover the amount. Mining and transfer points are never confused.
func CheckPointsSufficient(accountID string, amount float64, pointsType PointsType) error {
	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return accountNotFound(accountID)
		}
		return err
	}

	balance := account.TransferPoints
	if pointsType == PointsMining {
		balance = account.MiningPoints
	}
	if balance < amount {
		return insufficientBalance(amount, balance)
	}
	return nil
}

// CheckDuplicate fails when the idempotency key was already used. The unique
// index on transactions.order_id is the race backstop.
func CheckDuplicate(orderID string) error {
	return checkDuplicate(config.DB, orderID)
}

func checkDuplicate(tx *gorm.DB, orderID string) error {
	var count int64
	if err := tx.Model(&models.Transaction{}).
		Where("order_id = ?", orderID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return duplicateOperation(orderID)
	}
	return nil
}
