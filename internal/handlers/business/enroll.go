package business

import (
	"errors"
	"fmt"
	"time"

	"binaryledger/internal/models"
	"binaryledger/internal/wallet"
	"binaryledger/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BecomeAgent collects the one-time join fee, marks the account as a paid
// agent, credits the referrer's direct count and places the new agent into
// the binary tree. The fee debit is keyed by the account id, so a retried
// request can never charge twice.
func BecomeAgent(accountID string, params config.BinaryParams) (*models.BinaryMember, error) {
	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, wallet.ErrAccountNotFound
		}
		return nil, err
	}
	if account.IsAgent {
		return JoinBinary(accountID, params)
	}

	orderID := fmt.Sprintf("agent-join-%s", accountID)
	description := fmt.Sprintf("agent enrollment fee %.2fU", params.JoinFee)
	if _, err := wallet.Deduct(accountID, params.JoinFee, models.RewardBinaryJoin, description, nil, &orderID); err != nil {
		if !errors.Is(err, wallet.ErrDuplicateOperation) {
			return nil, err
		}
		// fee already collected by an earlier attempt that died before
		// finishing; fall through and complete the enrollment
	}

	now := time.Now()
	if err := config.DB.Model(&models.Account{}).
		Where("id = ? AND is_agent = ?", accountID, false).
		UpdateColumns(map[string]interface{}{
			"is_agent":      true,
			"agent_paid_at": now,
		}).Error; err != nil {
		return nil, err
	}

	if account.InviterID != nil {
		if err := config.DB.Model(&models.Account{}).
			Where("id = ?", *account.InviterID).
			UpdateColumn("direct_referral_count", gorm.Expr("direct_referral_count + 1")).Error; err != nil {
			logrus.Errorf("failed to credit referral count for %s: %v", *account.InviterID, err)
		}
	}

	member, err := JoinBinary(accountID, params)
	if err != nil {
		return nil, err
	}

	publishEvent("agent_enrolled", map[string]interface{}{
		"account_id": accountID,
		"inviter_id": account.InviterID,
		"fee":        params.JoinFee,
	})
	return member, nil
}
