package models

import "time"

// WithdrawalStatus enumerates the one-directional withdrawal lifecycle
type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalCompleted  WithdrawalStatus = "completed"
)

// CanTransitionTo reports whether the status machine allows moving to next.
// Transitions are one-directional: pending -> approved/rejected,
// approved -> processing, processing -> completed.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalPending:
		return next == WithdrawalApproved || next == WithdrawalRejected
	case WithdrawalApproved:
		return next == WithdrawalProcessing
	case WithdrawalProcessing:
		return next == WithdrawalCompleted
	}
	return false
}

// Withdrawal is a user withdrawal request. total_amount = amount + fee is
// debited at creation and refunded only on rejection.
type Withdrawal struct {
	ID            string           `gorm:"primarykey;type:uuid" json:"id"`
	AccountID     string           `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount        float64          `gorm:"not null" json:"amount"`
	Fee           float64          `gorm:"not null" json:"fee"`
	TotalAmount   float64          `gorm:"not null" json:"total_amount"`
	WalletAddress string           `gorm:"size:64;not null" json:"wallet_address"`
	Status        WithdrawalStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminNote     string           `gorm:"size:200" json:"admin_note"`
	TxHash        string           `gorm:"size:128" json:"tx_hash"`
	ReviewedAt    *time.Time       `json:"reviewed_at"`
	CompletedAt   *time.Time       `json:"completed_at"`
	CreatedAt     time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
