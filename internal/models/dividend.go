package models

import "time"

// DividendPoolEntry is one accumulation into the shared dividend pool.
// The pool balance is the SUM of all rows; distribution deletes them inside
// the same transaction that pays the recipients.
type DividendPoolEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Source    string    `gorm:"size:40;not null" json:"source"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DividendPoolEntry) TableName() string {
	return "dividend_pool"
}

// DividendRecord is one recipient's share of a distribution cycle
type DividendRecord struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AccountID     string    `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	PoolBalance   float64   `gorm:"not null" json:"pool_balance"`
	EligibleCount int       `gorm:"not null" json:"eligible_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (DividendRecord) TableName() string {
	return "dividend_records"
}
