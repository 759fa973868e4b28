package wallet

import (
	"errors"
	"fmt"

	"binaryledger/internal/models"
	"binaryledger/pkg/config"
	"binaryledger/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The manager mutates balances through single conditional UPDATEs so that
// concurrent requests can never produce a lost update or a negative balance:
// the sufficiency check and the decrement share one atomicity boundary. Each
// mutation and its ledger row commit in the same transaction.

// Add credits the U balance and returns the post-mutation balance.
// related and orderID are optional; a non-nil orderID makes the call
// idempotent against the ledger's unique key.
func Add(accountID string, amount float64, rewardType models.RewardType, description string, related *string, orderID *string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, related, orderID, models.CurrencyU, false)
}

// Deduct debits the U balance and returns the post-mutation balance.
// Fails with InsufficientBalance when the conditional update matches no row.
func Deduct(accountID string, amount float64, rewardType models.RewardType, description string, related *string, orderID *string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, related, orderID, models.CurrencyU, true)
}

// AddPoints credits the mining-points sub-ledger (and the points total).
func AddPoints(accountID string, amount float64, rewardType models.RewardType, description string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, nil, nil, models.CurrencyPoints, false)
}

// DeductPoints debits the mining-points sub-ledger (and the points total).
func DeductPoints(accountID string, amount float64, rewardType models.RewardType, description string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, nil, nil, models.CurrencyPoints, true)
}

// AddTransferPoints credits the gift-only transfer-points sub-ledger.
func AddTransferPoints(accountID string, amount float64, rewardType models.RewardType, description string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, nil, nil, models.CurrencyTransferPoints, false)
}

// DeductTransferPoints debits the gift-only transfer-points sub-ledger.
func DeductTransferPoints(accountID string, amount float64, rewardType models.RewardType, description string) (float64, error) {
	return mutate(accountID, amount, rewardType, description, nil, nil, models.CurrencyTransferPoints, true)
}

type ledgerColumns struct {
	guard   string
	columns []string
	after   func(a *models.Account) float64
}

func columnsFor(currency models.Currency) (ledgerColumns, error) {
	switch currency {
	case models.CurrencyU:
		return ledgerColumns{
			guard:   "u_balance",
			columns: []string{"u_balance"},
			after:   func(a *models.Account) float64 { return a.UBalance },
		}, nil
	case models.CurrencyPoints:
		// the sub-ledger and the total move in the same UPDATE so that
		// mining_points + transfer_points == points_balance always holds
		return ledgerColumns{
			guard:   "mining_points",
			columns: []string{"mining_points", "points_balance"},
			after:   func(a *models.Account) float64 { return a.MiningPoints },
		}, nil
	case models.CurrencyTransferPoints:
		return ledgerColumns{
			guard:   "transfer_points",
			columns: []string{"transfer_points", "points_balance"},
			after:   func(a *models.Account) float64 { return a.TransferPoints },
		}, nil
	}
	return ledgerColumns{}, fmt.Errorf("unknown currency %q", currency)
}

func mutate(accountID string, amount float64, rewardType models.RewardType, description string, related *string, orderID *string, currency models.Currency, deduct bool) (float64, error) {
	if err := ValidateAmount(amount); err != nil {
		return 0, err
	}
	if !rewardType.Valid() {
		return 0, fmt.Errorf("unknown reward type %q", rewardType)
	}
	if accountID == "" || description == "" {
		return 0, invalidAmount("account id and description are required")
	}

	cols, err := columnsFor(currency)
	if err != nil {
		return 0, err
	}

	var balanceAfter float64
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if orderID != nil {
			if err := checkDuplicate(tx, *orderID); err != nil {
				return err
			}
		}

		updates := make(map[string]interface{}, len(cols.columns))
		for _, col := range cols.columns {
			if deduct {
				updates[col] = gorm.Expr(col+" - ?", amount)
			} else {
				updates[col] = gorm.Expr(col+" + ?", amount)
			}
		}

		query := tx.Model(&models.Account{}).Where("id = ?", accountID)
		if deduct {
			// sufficiency is enforced at the same atomicity boundary as
			// the decrement; a prior read cannot race past this
			query = query.Where("is_frozen = ? AND "+cols.guard+" >= ?", false, amount)
		}
		res := query.UpdateColumns(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return classifyMutationFailure(tx, accountID, cols, amount, deduct)
		}

		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			return err
		}
		balanceAfter = utils.Round2(cols.after(&account))

		signed := amount
		if deduct {
			signed = -amount
		}
		return logEntry(tx, &models.Transaction{
			AccountID:        accountID,
			Type:             rewardType,
			Amount:           signed,
			BalanceAfter:     balanceAfter,
			Currency:         currency,
			RelatedAccountID: related,
			OrderID:          orderID,
			Description:      description,
		})
	})
	if err != nil {
		return 0, err
	}

	invalidateBalanceCache(accountID)
	return balanceAfter, nil
}

// classifyMutationFailure turns a zero-rows conditional update into the
// precise taxonomy error.
func classifyMutationFailure(tx *gorm.DB, accountID string, cols ledgerColumns, amount float64, deduct bool) error {
	var account models.Account
	if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return accountNotFound(accountID)
		}
		return err
	}
	if deduct && account.IsFrozen {
		return accountFrozen(account.FreezeReason)
	}
	if deduct {
		return insufficientBalance(amount, cols.after(&account))
	}
	return accountNotFound(accountID)
}

// Transfer moves U between two accounts as one atomic unit: both row
// updates and the matched ledger pair commit together, so a crash can never
// strand one side. Rows are locked in ascending id order to avoid deadlock.
func Transfer(fromID, toID string, amount float64, description string) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if fromID == toID {
		return invalidAmount("cannot transfer to self")
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		first, second := fromID, toID
		if second < first {
			first, second = second, first
		}

		accounts := make(map[string]*models.Account, 2)
		for _, id := range []string{first, second} {
			var account models.Account
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&account, "id = ?", id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return accountNotFound(id)
				}
				return err
			}
			accounts[id] = &account
		}

		from, to := accounts[fromID], accounts[toID]
		if from.IsFrozen {
			return accountFrozen(from.FreezeReason)
		}
		if from.UBalance < amount {
			return insufficientBalance(amount, from.UBalance)
		}

		fromAfter := utils.SafeSubtract(from.UBalance, amount)
		toAfter := utils.SafeAdd(to.UBalance, amount)

		if err := tx.Model(&models.Account{}).Where("id = ?", fromID).
			UpdateColumn("u_balance", fromAfter).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Account{}).Where("id = ?", toID).
			UpdateColumn("u_balance", toAfter).Error; err != nil {
			return err
		}

		return logTransferPair(tx, fromID, toID, amount, fromAfter, toAfter, description)
	})
	if err != nil {
		return err
	}

	invalidateBalanceCache(fromID)
	invalidateBalanceCache(toID)
	return nil
}

// ConvertPoints converts mining points into U at 1:1. Transfer points never
// convert. Both ledger movements commit in one transaction.
func ConvertPoints(accountID string, amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("id = ? AND is_frozen = ? AND mining_points >= ?", accountID, false, amount).
			UpdateColumns(map[string]interface{}{
				"mining_points":  gorm.Expr("mining_points - ?", amount),
				"points_balance": gorm.Expr("points_balance - ?", amount),
				"u_balance":      gorm.Expr("u_balance + ?", amount),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			cols, _ := columnsFor(models.CurrencyPoints)
			return classifyMutationFailure(tx, accountID, cols, amount, true)
		}

		var account models.Account
		if err := tx.First(&account, "id = ?", accountID).Error; err != nil {
			return err
		}

		if err := logEntry(tx, &models.Transaction{
			AccountID:    accountID,
			Type:         models.RewardPointsConvert,
			Amount:       -amount,
			BalanceAfter: utils.Round2(account.MiningPoints),
			Currency:     models.CurrencyPoints,
			Description:  fmt.Sprintf("converted %.2f mining points to U", amount),
		}); err != nil {
			return err
		}
		return logEntry(tx, &models.Transaction{
			AccountID:    accountID,
			Type:         models.RewardPointsConvert,
			Amount:       amount,
			BalanceAfter: utils.Round2(account.UBalance),
			Currency:     models.CurrencyU,
			Description:  fmt.Sprintf("received %.2fU from mining points", amount),
		})
	})
	if err != nil {
		return err
	}

	invalidateBalanceCache(accountID)
	return nil
}

// GetBalance returns a read-only snapshot of every balance field, served
// from the redis cache when one is configured.
func GetBalance(accountID string) (models.BalanceSnapshot, error) {
	if snapshot, ok := cachedBalance(accountID); ok {
		return snapshot, nil
	}

	var account models.Account
	if err := config.DB.First(&account, "id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.BalanceSnapshot{}, accountNotFound(accountID)
		}
		return models.BalanceSnapshot{}, err
	}

	snapshot := models.BalanceSnapshot{
		UBalance:       account.UBalance,
		PointsBalance:  account.PointsBalance,
		MiningPoints:   account.MiningPoints,
		TransferPoints: account.TransferPoints,
	}
	cacheBalance(accountID, snapshot)
	return snapshot, nil
}
