package business

import (
	"fmt"
	"math"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"
	"binaryledger/pkg/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddToPool accrues an amount into the shared dividend pool.
func AddToPool(amount float64, source string) error {
	if amount <= 0 {
		return nil
	}
	return config.DB.Create(&models.DividendPoolEntry{
		Amount: amount,
		Source: source,
	}).Error
}

// PoolBalance returns the undistributed pool total.
func PoolBalance() (float64, error) {
	var total float64
	err := config.DB.Model(&models.DividendPoolEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// DistributionSummary reports one distribution cycle.
type DistributionSummary struct {
	Pool          float64 `json:"pool"`
	EligibleCount int     `json:"eligible_count"`
	Share         float64 `json:"share"`
	Paid          int     `json:"paid"`
	Failed        int     `json:"failed"`
}

// splitDividend computes the per-recipient share, rounded down so the sum of
// shares never exceeds the pool.
func splitDividend(pool float64, recipients int) float64 {
	if recipients <= 0 || pool <= 0 {
		return 0
	}
	return math.Floor(pool/float64(recipients)*100) / 100
}

// dividendResidue is what the floor rounding leaves unpaid.
func dividendResidue(pool, share float64, recipients int) float64 {
	return utils.Round2(pool - share*float64(recipients))
}

// DistributeDividends pays the accumulated pool out evenly to every account
// holding enough direct referrals. With no eligible account the pool is left
// untouched for the next cycle. The pool rows are claimed and deleted in one
// transaction before any payout, so a concurrent run cannot double-spend
// them; individual payout failures are logged and skipped, never rolled up.
func DistributeDividends(params config.BinaryParams) (DistributionSummary, error) {
	var eligible []models.Account
	err := config.DB.
		Joins("JOIN binary_members ON binary_members.account_id = accounts.id").
		Where("accounts.direct_referral_count >= ? AND binary_members.is_active = ?", params.DividendReferrals, true).
		Order("accounts.id asc").
		Find(&eligible).Error
	if err != nil {
		return DistributionSummary{}, err
	}
	if len(eligible) == 0 {
		logrus.Info("dividend distribution skipped: no eligible accounts")
		return DistributionSummary{}, nil
	}

	// a pool too small to pay a cent each stays intact for the next cycle;
	// claiming it first would make it vanish without a ledger trace
	balance, err := PoolBalance()
	if err != nil {
		return DistributionSummary{}, err
	}
	if splitDividend(balance, len(eligible)) <= 0 {
		logrus.Infof("dividend distribution skipped: pool %.2f below one cent per recipient", balance)
		return DistributionSummary{Pool: balance, EligibleCount: len(eligible)}, nil
	}

	var pool float64
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.DividendPoolEntry{}).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&pool).Error; err != nil {
			return err
		}
		if pool <= 0 {
			return nil
		}
		return tx.Where("1 = 1").Delete(&models.DividendPoolEntry{}).Error
	})
	if err != nil {
		return DistributionSummary{}, err
	}
	if pool <= 0 {
		return DistributionSummary{EligibleCount: len(eligible)}, nil
	}

	share := splitDividend(pool, len(eligible))
	summary := DistributionSummary{
		Pool:          pool,
		EligibleCount: len(eligible),
		Share:         share,
	}
	if share <= 0 {
		// claimed pool can only be larger than the pre-check read; guard anyway
		if err := AddToPool(pool, "dividend_residue"); err != nil {
			logrus.Errorf("failed to return unsplittable pool %.2f: %v", pool, err)
		}
		return summary, nil
	}

	// the floor rounding leaves up to n-1 cents; carry them into the next cycle
	if residue := dividendResidue(pool, share, len(eligible)); residue > 0 {
		if err := AddToPool(residue, "dividend_residue"); err != nil {
			logrus.Errorf("failed to carry dividend residue %.2f: %v", residue, err)
		}
	}

	for _, account := range eligible {
		description := fmt.Sprintf("dividend share of %.2f pool across %d accounts", pool, len(eligible))
		if _, err := wallet.Add(account.ID, share, models.RewardDividend, description, nil, nil); err != nil {
			logrus.Errorf("dividend payout to %s failed: %v", account.ID, err)
			summary.Failed++
			continue
		}
		bumpMemberTotals(account.ID, "total_dividend", share)

		if err := config.DB.Create(&models.DividendRecord{
			AccountID:     account.ID,
			Amount:        share,
			PoolBalance:   pool,
			EligibleCount: len(eligible),
		}).Error; err != nil {
			logrus.Errorf("dividend record for %s failed: %v", account.ID, err)
		}
		summary.Paid++
	}

	publishEvent("dividend_distributed", map[string]interface{}{
		"pool":     pool,
		"share":    share,
		"paid":     summary.Paid,
		"failed":   summary.Failed,
		"eligible": summary.EligibleCount,
	})
	logrus.Infof("dividend distribution done: pool=%.2f share=%.2f paid=%d failed=%d",
		pool, share, summary.Paid, summary.Failed)
	return summary, nil
}
