package models

import "time"

// RewardType enumerates every ledger entry kind. The set is closed on purpose:
// a payout path keyed by a typo must fail loudly, not silently skip.
type RewardType string

const (
	RewardBinaryPairing    RewardType = "binary_pairing"
	RewardBinaryLevelBonus RewardType = "binary_level_bonus"
	RewardBinaryOrderBonus RewardType = "binary_order_bonus"
	RewardDividend         RewardType = "dividend"
	RewardBinaryJoin       RewardType = "binary_join"
	RewardBinaryReinvest   RewardType = "binary_reinvest"
	RewardTransferOut      RewardType = "transfer_out"
	RewardTransferIn       RewardType = "transfer_in"
	RewardWithdraw         RewardType = "withdraw"
	RewardRefund           RewardType = "refund"
	RewardMiningRelease    RewardType = "mining_release"
	RewardPointsConvert    RewardType = "points_convert"
	RewardAdminAdjust      RewardType = "admin_adjust"
)

// Valid reports whether the reward type is a member of the closed set.
func (t RewardType) Valid() bool {
	switch t {
	case RewardBinaryPairing, RewardBinaryLevelBonus, RewardBinaryOrderBonus,
		RewardDividend, RewardBinaryJoin, RewardBinaryReinvest,
		RewardTransferOut, RewardTransferIn, RewardWithdraw, RewardRefund,
		RewardMiningRelease, RewardPointsConvert, RewardAdminAdjust:
		return true
	}
	return false
}

// Currency identifies which ledger a transaction row belongs to
type Currency string

const (
	CurrencyU              Currency = "U"
	CurrencyPoints         Currency = "POINTS"
	CurrencyTransferPoints Currency = "TRANSFER_POINTS"
)

// Transaction is an append-only ledger entry. Rows are never updated or
// deleted; balance_after is the post-mutation balance of the affected ledger.
type Transaction struct {
	ID               uint       `gorm:"primarykey" json:"id"`
	AccountID        string     `gorm:"type:uuid;not null;index" json:"account_id"`
	Type             RewardType `gorm:"size:40;not null" json:"type"`
	Amount           float64    `gorm:"not null" json:"amount"`
	BalanceAfter     float64    `gorm:"not null" json:"balance_after"`
	Currency         Currency   `gorm:"size:20;not null;default:'U'" json:"currency"`
	RelatedAccountID *string    `gorm:"type:uuid" json:"related_account_id"`
	OrderID          *string    `gorm:"size:64;uniqueIndex" json:"order_id"`
	Description      string     `gorm:"size:200" json:"description"`
	Metadata         JSONMap    `gorm:"type:jsonb" json:"metadata"`
	CreatedAt        time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
