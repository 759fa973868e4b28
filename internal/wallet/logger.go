package wallet

import (
	"binaryledger/internal/models"
	"binaryledger/pkg/config"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// truncateDescription caps ledger descriptions at the column size.
func truncateDescription(description string) string {
	if len(description) > 200 {
		return description[:200]
	}
	return description
}

// logEntry appends one ledger row within the caller's transaction. The
// mutation and its ledger row commit or roll back together.
func logEntry(tx *gorm.DB, entry *models.Transaction) error {
	entry.Description = truncateDescription(entry.Description)
	return tx.Create(entry).Error
}

// logTransferPair appends the matched out/in rows of a transfer within the
// caller's transaction.
func logTransferPair(tx *gorm.DB, fromID, toID string, amount, fromAfter, toAfter float64, description string) error {
	if description == "" {
		description = "transfer"
	}
	rows := []models.Transaction{
		{
			AccountID:        fromID,
			Type:             models.RewardTransferOut,
			Amount:           -amount,
			BalanceAfter:     fromAfter,
			Currency:         models.CurrencyU,
			RelatedAccountID: &toID,
			Description:      truncateDescription(description),
		},
		{
			AccountID:        toID,
			Type:             models.RewardTransferIn,
			Amount:           amount,
			BalanceAfter:     toAfter,
			Currency:         models.CurrencyU,
			RelatedAccountID: &fromID,
			Description:      truncateDescription(description),
		},
	}
	return tx.Create(&rows).Error
}

// LogBestEffort appends a ledger row outside any transaction. A failure is
// reported to the observability sink but never propagated: the balance
// mutation that already committed stays authoritative.
func LogBestEffort(entry *models.Transaction) {
	entry.Description = truncateDescription(entry.Description)
	if err := config.DB.Create(entry).Error; err != nil {
		logrus.WithFields(logrus.Fields{
			"account_id": entry.AccountID,
			"type":       entry.Type,
			"amount":     entry.Amount,
		}).Errorf("transaction log failed: %v", err)

		config.DB.Create(&models.SystemLog{
			Level:   "ERROR",
			Module:  "wallet",
			Message: "transaction log failed: " + err.Error(),
			Meta: models.JSONMap{
				"account_id": entry.AccountID,
				"type":       string(entry.Type),
				"amount":     entry.Amount,
			},
		})
	}
}
