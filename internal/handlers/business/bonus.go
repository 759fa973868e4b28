package business

import (
	"errors"
	"fmt"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"
	"binaryledger/pkg/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// payLevelBonuses walks the referral chain upward and pays the per-pair
// level bonus to each of the first N referral generations. An ancestor
// qualifies only while holding enough direct referrals; unqualified
// generations are skipped, not compressed. One failing payout never stops
// the walk.
func payLevelBonuses(trigger *models.Account, pairs int, params config.BinaryParams) {
	if pairs <= 0 || params.LevelBonusAmount <= 0 {
		return
	}

	amount := utils.Round2(params.LevelBonusAmount * float64(pairs))
	current := trigger.InviterID
	visited := map[string]bool{}

	for gen := 1; gen <= params.LevelBonusDepth && current != nil; gen++ {
		if visited[*current] {
			logrus.Errorf("cycle detected in referral chain at %s", *current)
			return
		}
		visited[*current] = true

		var ancestor models.Account
		if err := config.DB.First(&ancestor, "id = ?", *current).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.Errorf("level bonus walk failed at gen %d: %v", gen, err)
			}
			return
		}

		if ancestor.DirectReferralCount >= params.LevelUnlockReferrals {
			description := fmt.Sprintf("level bonus: gen %d, %d pairs from %s", gen, pairs, trigger.Username)
			if _, err := wallet.Add(ancestor.ID, amount, models.RewardBinaryLevelBonus, description, &trigger.ID, nil); err != nil {
				logrus.Errorf("level bonus payout to %s failed: %v", ancestor.ID, err)
			} else {
				bumpMemberTotals(ancestor.ID, "total_level_bonus", amount)
			}
		}

		current = ancestor.InviterID
	}
}

// payOrderBonuses walks the same referral chain with its own depth and pays
// a flat per-pair amount per generation. Unlike the level bonus there is no
// referral gate.
func payOrderBonuses(trigger *models.Account, pairs int, params config.BinaryParams) {
	if pairs <= 0 || params.OrderBonusAmount <= 0 {
		return
	}

	amount := utils.Round2(params.OrderBonusAmount * float64(pairs))
	current := trigger.InviterID
	visited := map[string]bool{}

	for gen := 1; gen <= params.OrderBonusDepth && current != nil; gen++ {
		if visited[*current] {
			logrus.Errorf("cycle detected in referral chain at %s", *current)
			return
		}
		visited[*current] = true

		var ancestor models.Account
		if err := config.DB.First(&ancestor, "id = ?", *current).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logrus.Errorf("order bonus walk failed at gen %d: %v", gen, err)
			}
			return
		}

		description := fmt.Sprintf("order bonus: gen %d, %d pairs", gen, pairs)
		if _, err := wallet.Add(ancestor.ID, amount, models.RewardBinaryOrderBonus, description, &trigger.ID, nil); err != nil {
			logrus.Errorf("order bonus payout to %s failed: %v", ancestor.ID, err)
		} else {
			bumpMemberTotals(ancestor.ID, "total_order_bonus", amount)
		}

		current = ancestor.InviterID
	}
}

// bumpMemberTotals adds amount to one bonus counter and the earnings total.
func bumpMemberTotals(accountID, column string, amount float64) {
	err := config.DB.Model(&models.BinaryMember{}).
		Where("account_id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			column:           gorm.Expr(column+" + ?", amount),
			"total_earnings": gorm.Expr("total_earnings + ?", amount),
		}).Error
	if err != nil {
		logrus.Errorf("failed to update %s for %s: %v", column, accountID, err)
	}
}
