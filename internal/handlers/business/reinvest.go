package business

import (
	"errors"
	"fmt"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// crossedReinvestThreshold reports whether cumulative earnings crossed the
// next reinvest gate between two readings. The gate for a node that has
// reinvested n times is threshold*(n+1), so a node earning 239 then 241
// against a 240 gate crosses exactly once.
func crossedReinvestThreshold(prev, next, threshold float64, reinvestCount int) bool {
	if threshold <= 0 {
		return false
	}
	gate := threshold * float64(reinvestCount+1)
	return next >= gate && prev < gate
}

// maybeReinvest runs the automatic reinvest check after a pairing payout.
// When the gate is crossed the reinvest fee is debited and one unit re-enters
// the tree at the node's own slot; when the balance cannot cover the fee the
// node is parked inactive until reactivated.
func maybeReinvest(accountID string, prevEarnings, newEarnings float64, params config.BinaryParams) {
	var member models.BinaryMember
	if err := config.DB.First(&member, "account_id = ?", accountID).Error; err != nil {
		logrus.Errorf("reinvest check failed for %s: %v", accountID, err)
		return
	}
	if !crossedReinvestThreshold(prevEarnings, newEarnings, params.ReinvestThreshold, member.ReinvestCount) {
		return
	}
	if err := executeReinvest(&member, params); err != nil {
		logrus.Errorf("reinvest for %s failed: %v", accountID, err)
	}
}

// executeReinvest debits the fee idempotently, bumps the reinvest counter
// and feeds one unit back up the tree. A node that cannot pay is parked.
func executeReinvest(member *models.BinaryMember, params config.BinaryParams) error {
	cycle := member.ReinvestCount + 1
	orderID := fmt.Sprintf("reinvest-%s-%d", member.AccountID, cycle)
	description := fmt.Sprintf("automatic reinvest cycle %d", cycle)

	_, err := wallet.Deduct(member.AccountID, params.ReinvestAmount, models.RewardBinaryReinvest, description, nil, &orderID)
	if errors.Is(err, wallet.ErrInsufficientBalance) || errors.Is(err, wallet.ErrAccountFrozen) {
		if parkErr := config.DB.Model(&models.BinaryMember{}).
			Where("account_id = ?", member.AccountID).
			UpdateColumn("is_active", false).Error; parkErr != nil {
			return parkErr
		}
		logrus.WithField("account_id", member.AccountID).
			Warn("reinvest fee unpayable, node parked")
		publishEvent("reinvest_parked", map[string]interface{}{
			"account_id": member.AccountID,
			"cycle":      cycle,
		})
		return nil
	}
	if errors.Is(err, wallet.ErrDuplicateOperation) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := config.DB.Model(&models.BinaryMember{}).
		Where("account_id = ?", member.AccountID).
		UpdateColumn("reinvest_count", gorm.Expr("reinvest_count + 1")).Error; err != nil {
		return err
	}

	if member.UplineID != nil {
		path, err := PropagateUnits(*member.UplineID, member.PositionSide, 1, params)
		if err != nil {
			return err
		}
		settlePath(path, params)
	}

	publishEvent("reinvest_executed", map[string]interface{}{
		"account_id": member.AccountID,
		"cycle":      cycle,
		"fee":        params.ReinvestAmount,
	})
	return nil
}

// ReactivateNode retries the reinvest fee for a parked node and, on success,
// unparks it and feeds the owed unit into the tree.
func ReactivateNode(accountID string, params config.BinaryParams) error {
	var member models.BinaryMember
	if err := config.DB.First(&member, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return wallet.PlacementNotFound("account has no binary position")
		}
		return err
	}
	if member.IsActive {
		return wallet.Duplicate("node %s is already active", accountID)
	}

	cycle := member.ReinvestCount + 1
	orderID := fmt.Sprintf("reinvest-%s-%d", accountID, cycle)
	description := fmt.Sprintf("reinvest cycle %d on reactivation", cycle)
	if _, err := wallet.Deduct(accountID, params.ReinvestAmount, models.RewardBinaryReinvest, description, nil, &orderID); err != nil {
		if !errors.Is(err, wallet.ErrDuplicateOperation) {
			return err
		}
	}

	if err := config.DB.Model(&models.BinaryMember{}).
		Where("account_id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"is_active":      true,
			"reinvest_count": gorm.Expr("reinvest_count + 1"),
		}).Error; err != nil {
		return err
	}

	if member.UplineID != nil {
		path, err := PropagateUnits(*member.UplineID, member.PositionSide, 1, params)
		if err != nil {
			return err
		}
		settlePath(path, params)
	}

	// a parked node may have accumulated settleable units in the meantime
	if err := SettleNode(accountID, params); err != nil {
		logrus.Errorf("post-reactivation settlement for %s failed: %v", accountID, err)
	}

	publishEvent("node_reactivated", map[string]interface{}{
		"account_id": accountID,
		"cycle":      cycle,
	})
	return nil
}
