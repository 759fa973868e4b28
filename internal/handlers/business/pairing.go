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

// SettlementPlan is the outcome of one settlement computation.
//
// Pairs is the matched pair count and UseA/UseB the pending units it
// consumes. PayablePairs is how many of those pairs actually pay out: for a
// locked account past its free-pairing cap the units are still consumed but
// PayablePairs is zero.
type SettlementPlan struct {
	Pairs         int
	PayablePairs  int
	UseA          int
	UseB          int
	Ratio         string
	Bonus         float64
	PlatformShare float64
}

// ComputeSettlement decides how many pairs settle given the two pending
// counts. Pure so the arithmetic is testable without a database.
//
// Both the configured ratio and its mirror are tried; the engine settles
// with whichever consumes more pending units, preferring the configured
// ratio on ties. The member share and platform share are computed from
// PayablePairs only.
func ComputeSettlement(pendingA, pendingB int, params config.BinaryParams, unlocked bool, priorPairs int) SettlementPlan {
	rA, rB := params.RequiredA, params.RequiredB
	if rA <= 0 || rB <= 0 || pendingA < 0 || pendingB < 0 {
		return SettlementPlan{}
	}

	primary := minInt(pendingA/rA, pendingB/rB)
	mirror := minInt(pendingA/rB, pendingB/rA)

	pairs, useRA, useRB := primary, rA, rB
	ratio := fmt.Sprintf("%d:%d", rA, rB)
	if mirror*(rA+rB) > primary*(rA+rB) {
		pairs, useRA, useRB = mirror, rB, rA
		ratio = fmt.Sprintf("%d:%d", rB, rA)
	}
	if pairs == 0 {
		return SettlementPlan{}
	}

	payable := pairs
	if !unlocked {
		remaining := params.FreePairingCap - priorPairs
		switch {
		case remaining <= 0:
			// cap exhausted: the matched units still burn, nothing pays
			payable = 0
		case pairs > remaining:
			// cap partially available: settle only what the cap covers
			pairs = remaining
			payable = remaining
		}
	}

	plan := SettlementPlan{
		Pairs:        pairs,
		PayablePairs: payable,
		UseA:         pairs * useRA,
		UseB:         pairs * useRB,
		Ratio:        ratio,
	}
	if payable > 0 {
		gross := float64(payable) * params.PairBonus
		plan.Bonus = utils.Round2(gross * params.MemberRatio)
		plan.PlatformShare = utils.Round2(gross * params.PlatformRatio)
	}
	return plan
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SettleNode runs the settlement check for one node, repeating until the
// pending counts no longer form a pair. Safe to call from concurrent paths:
// the pending deduction is a conditional update, so two racers cannot both
// consume the same units.
func SettleNode(accountID string, params config.BinaryParams) error {
	for iteration := 0; iteration < 50; iteration++ {
		settled, err := settleOnce(accountID, params)
		if err != nil {
			return err
		}
		if !settled {
			return nil
		}
	}
	return fmt.Errorf("settlement for %s did not converge", accountID)
}

func settleOnce(accountID string, params config.BinaryParams) (bool, error) {
	var member models.BinaryMember
	if err := config.DB.First(&member, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if !member.IsActive {
		// parked nodes accumulate units but earn nothing until reactivated
		return false, nil
	}

	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		return false, err
	}

	unlocked := account.DirectReferralCount >= params.PairingUnlockReferrals

	plan := ComputeSettlement(member.ASidePending, member.BSidePending, params, unlocked, member.SettledPairs)
	if plan.Pairs == 0 {
		return false, nil
	}

	// conditional deduction is the settlement's atomicity boundary; losing
	// the race just means another settlement already consumed the units.
	// For locked accounts the cap counter is guarded here too, so two racers
	// near the cap cannot both pay out against the same allowance.
	query := config.DB.Model(&models.BinaryMember{}).
		Where("account_id = ? AND a_side_pending >= ? AND b_side_pending >= ?",
			accountID, plan.UseA, plan.UseB)
	if !unlocked {
		query = query.Where("settled_pairs = ?", member.SettledPairs)
	}
	res := query.UpdateColumns(map[string]interface{}{
		"a_side_pending": gorm.Expr("a_side_pending - ?", plan.UseA),
		"b_side_pending": gorm.Expr("b_side_pending - ?", plan.UseB),
		"settled_pairs":  gorm.Expr("settled_pairs + ?", plan.PayablePairs),
	})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	if plan.PayablePairs == 0 {
		publishEvent("pairing_capped", map[string]interface{}{
			"account_id": accountID,
			"pairs":      plan.Pairs,
			"ratio":      plan.Ratio,
		})
		return true, nil
	}

	description := fmt.Sprintf("pairing bonus: %d pairs at %s", plan.PayablePairs, plan.Ratio)
	if _, err := wallet.Add(accountID, plan.Bonus, models.RewardBinaryPairing, description, nil, nil); err != nil {
		return false, fmt.Errorf("pay pairing bonus: %w", err)
	}

	if err := config.DB.Model(&models.BinaryMember{}).
		Where("account_id = ?", accountID).
		UpdateColumns(map[string]interface{}{
			"total_pairing_bonus": gorm.Expr("total_pairing_bonus + ?", plan.Bonus),
			"total_earnings":      gorm.Expr("total_earnings + ?", plan.Bonus),
		}).Error; err != nil {
		return false, err
	}

	if err := config.DB.Create(&models.PairingRecord{
		AccountID: accountID,
		Pairs:     plan.PayablePairs,
		Ratio:     plan.Ratio,
		Amount:    plan.Bonus,
	}).Error; err != nil {
		return false, err
	}

	if plan.PlatformShare > 0 {
		if err := AddToPool(plan.PlatformShare, "pairing"); err != nil {
			logrus.Errorf("failed to feed dividend pool for %s: %v", accountID, err)
		}
	}

	payLevelBonuses(&account, plan.PayablePairs, params)
	payOrderBonuses(&account, plan.PayablePairs, params)

	maybeReinvest(accountID, member.TotalEarnings, member.TotalEarnings+plan.Bonus, params)

	publishEvent("pairing_settled", map[string]interface{}{
		"account_id": accountID,
		"pairs":      plan.PayablePairs,
		"ratio":      plan.Ratio,
		"bonus":      plan.Bonus,
	})
	return true, nil
}
