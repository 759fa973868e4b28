package models

import "time"

// Account represents a platform member with its U and points ledgers.
// mining_points + transfer_points must always equal points_balance; every
// points mutation updates the sub-ledger and the total in the same UPDATE.
type Account struct {
	ID                  string     `gorm:"primarykey;type:uuid" json:"id"`
	Username            string     `gorm:"size:100;not null" json:"username"`
	InviterID           *string    `gorm:"type:uuid;index" json:"inviter_id"`
	DirectReferralCount int        `gorm:"default:0" json:"direct_referral_count"`
	IsAgent             bool       `gorm:"default:false;index" json:"is_agent"`
	AgentPaidAt         *time.Time `json:"agent_paid_at"`
	UBalance            float64    `gorm:"default:0" json:"u_balance"`
	PointsBalance       float64    `gorm:"default:0" json:"points_balance"`
	MiningPoints        float64    `gorm:"default:0" json:"mining_points"`
	TransferPoints      float64    `gorm:"default:0" json:"transfer_points"`
	IsFrozen            bool       `gorm:"default:false" json:"is_frozen"`
	FreezeReason        string     `gorm:"size:200" json:"freeze_reason"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// BalanceSnapshot is a read-only view of all balance fields
type BalanceSnapshot struct {
	UBalance       float64 `json:"u_balance"`
	PointsBalance  float64 `json:"points_balance"`
	MiningPoints   float64 `json:"mining_points"`
	TransferPoints float64 `json:"transfer_points"`
}
