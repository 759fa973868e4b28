package business

import (
	"errors"
	"fmt"
	"math"
	"time"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"
	"binaryledger/pkg/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CalculateWithdrawalFee applies the rate with a floor, rounded to cents.
func CalculateWithdrawalFee(amount float64, params config.WithdrawalParams) float64 {
	return utils.Round2(math.Max(amount*params.FeeRate, params.MinFee))
}

// CalculateWithdrawalTotal is the amount debited at request time.
func CalculateWithdrawalTotal(amount float64, params config.WithdrawalParams) float64 {
	return utils.Round2(amount + CalculateWithdrawalFee(amount, params))
}

// CreateWithdrawal validates the request against the amount, address and
// rate limits, debits amount+fee up front and records a pending request.
// The debit is keyed by the request id, so a retry after a partial failure
// cannot double-charge.
func CreateWithdrawal(accountID string, amount float64, address string) (*models.Withdrawal, error) {
	params := config.Params.Withdrawal()

	if err := wallet.ValidateWithdrawalAmount(amount, params); err != nil {
		return nil, err
	}
	if err := wallet.ValidateWalletAddress(address, params); err != nil {
		return nil, err
	}

	fee := CalculateWithdrawalFee(amount, params)
	total := CalculateWithdrawalTotal(amount, params)

	if err := checkWithdrawalLimits(accountID, amount, params); err != nil {
		return nil, err
	}

	withdrawal := &models.Withdrawal{
		ID:            uuid.New().String(),
		AccountID:     accountID,
		Amount:        amount,
		Fee:           fee,
		TotalAmount:   total,
		WalletAddress: address,
		Status:        models.WithdrawalPending,
	}

	orderID := "withdraw-" + withdrawal.ID
	description := fmt.Sprintf("withdrawal request %.2fU (fee %.2fU)", amount, fee)
	if _, err := wallet.Deduct(accountID, total, models.RewardWithdraw, description, nil, &orderID); err != nil {
		return nil, err
	}

	if err := config.DB.Create(withdrawal).Error; err != nil {
		// the debit landed but the request row did not; put the money back
		refundID := "withdraw-refund-" + withdrawal.ID
		if _, refundErr := wallet.Add(accountID, total, models.RewardRefund,
			"withdrawal request failed, refunding", nil, &refundID); refundErr != nil {
			logrus.Errorf("refund after failed withdrawal create for %s: %v", accountID, refundErr)
		}
		return nil, err
	}

	publishEvent("withdrawal_requested", map[string]interface{}{
		"withdrawal_id": withdrawal.ID,
		"account_id":    accountID,
		"amount":        amount,
		"fee":           fee,
	})
	return withdrawal, nil
}

// checkWithdrawalLimits enforces the pending-count, daily-count and
// daily-amount ceilings.
func checkWithdrawalLimits(accountID string, amount float64, params config.WithdrawalParams) error {
	var pending int64
	if err := config.DB.Model(&models.Withdrawal{}).
		Where("account_id = ? AND status = ?", accountID, models.WithdrawalPending).
		Count(&pending).Error; err != nil {
		return err
	}
	if int(pending) >= params.PendingCount {
		return wallet.LimitExceeded("at most %d pending withdrawal allowed", params.PendingCount)
	}

	dayStart := time.Now().Truncate(24 * time.Hour)

	var todayCount int64
	if err := config.DB.Model(&models.Withdrawal{}).
		Where("account_id = ? AND created_at >= ? AND status <> ?",
			accountID, dayStart, models.WithdrawalRejected).
		Count(&todayCount).Error; err != nil {
		return err
	}
	if int(todayCount) >= params.DailyCount {
		return wallet.LimitExceeded("at most %d withdrawals per day", params.DailyCount)
	}

	var todayAmount float64
	if err := config.DB.Model(&models.Withdrawal{}).
		Where("account_id = ? AND created_at >= ? AND status <> ?",
			accountID, dayStart, models.WithdrawalRejected).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&todayAmount).Error; err != nil {
		return err
	}
	if utils.SafeAdd(todayAmount, amount) > params.DailyAmount {
		return wallet.LimitExceeded("daily withdrawal cap of %.2fU exceeded", params.DailyAmount)
	}
	return nil
}

// ReviewWithdrawal moves a pending request to approved or rejected. A
// rejection refunds the full debited amount, keyed by the withdrawal id so
// a replayed review cannot refund twice.
func ReviewWithdrawal(withdrawalID string, approve bool, note string) (*models.Withdrawal, error) {
	next := models.WithdrawalRejected
	if approve {
		next = models.WithdrawalApproved
	}

	var withdrawal models.Withdrawal
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&withdrawal, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wallet.PlacementNotFound("withdrawal not found")
			}
			return err
		}
		if !withdrawal.Status.CanTransitionTo(next) {
			return wallet.Duplicate("withdrawal %s is %s, cannot move to %s",
				withdrawalID, withdrawal.Status, next)
		}

		now := time.Now()
		withdrawal.Status = next
		withdrawal.AdminNote = note
		withdrawal.ReviewedAt = &now
		return tx.Model(&models.Withdrawal{}).
			Where("id = ?", withdrawalID).
			Updates(map[string]interface{}{
				"status":      next,
				"admin_note":  note,
				"reviewed_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	if next == models.WithdrawalRejected {
		refundID := "withdraw-refund-" + withdrawal.ID
		description := fmt.Sprintf("withdrawal %s rejected: %s", withdrawal.ID, note)
		if _, err := wallet.Add(withdrawal.AccountID, withdrawal.TotalAmount,
			models.RewardRefund, description, nil, &refundID); err != nil &&
			!errors.Is(err, wallet.ErrDuplicateOperation) {
			logrus.Errorf("refund for rejected withdrawal %s failed: %v", withdrawal.ID, err)
			// put the request back to pending; a rejected-unrefunded row
			// would be unreachable for any retry under the status machine
			if revertErr := config.DB.Model(&models.Withdrawal{}).
				Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalRejected).
				Updates(map[string]interface{}{
					"status":      models.WithdrawalPending,
					"admin_note":  "",
					"reviewed_at": nil,
				}).Error; revertErr != nil {
				logrus.Errorf("failed to revert withdrawal %s to pending: %v", withdrawal.ID, revertErr)
			}
			return nil, err
		}
	}

	publishEvent("withdrawal_reviewed", map[string]interface{}{
		"withdrawal_id": withdrawal.ID,
		"status":        next,
	})
	return &withdrawal, nil
}

// AdvanceWithdrawal moves an approved request through processing to
// completed, recording the on-chain hash when one is supplied. No balance
// effect; the money left at request time.
func AdvanceWithdrawal(withdrawalID string, next models.WithdrawalStatus, txHash string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&withdrawal, "id = ?", withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return wallet.PlacementNotFound("withdrawal not found")
			}
			return err
		}
		if !withdrawal.Status.CanTransitionTo(next) {
			return wallet.Duplicate("withdrawal %s is %s, cannot move to %s",
				withdrawalID, withdrawal.Status, next)
		}

		updates := map[string]interface{}{"status": next}
		if txHash != "" {
			updates["tx_hash"] = txHash
		}
		if next == models.WithdrawalCompleted {
			now := time.Now()
			updates["completed_at"] = now
			withdrawal.CompletedAt = &now
		}
		withdrawal.Status = next
		if txHash != "" {
			withdrawal.TxHash = txHash
		}
		return tx.Model(&models.Withdrawal{}).
			Where("id = ?", withdrawalID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

// SweepStaleWithdrawals auto-rejects pending requests older than the review
// timeout, refunding each. Called from the scheduler; one failure never
// stops the sweep.
func SweepStaleWithdrawals() (int, error) {
	params := config.Params.Withdrawal()
	cutoff := time.Now().Add(-time.Duration(params.ReviewTimeout) * time.Hour)

	var stale []models.Withdrawal
	if err := config.DB.
		Where("status = ? AND created_at < ?", models.WithdrawalPending, cutoff).
		Find(&stale).Error; err != nil {
		return 0, err
	}

	swept := 0
	for _, w := range stale {
		note := fmt.Sprintf("auto-rejected after %dh without review", params.ReviewTimeout)
		if _, err := ReviewWithdrawal(w.ID, false, note); err != nil {
			logrus.Errorf("auto-reject of withdrawal %s failed: %v", w.ID, err)
			continue
		}
		swept++
	}
	return swept, nil
}
