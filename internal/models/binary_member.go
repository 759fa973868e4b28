package models

import "time"

// BinarySide is one of the two legs under a binary tree node
type BinarySide string

const (
	SideA BinarySide = "A"
	SideB BinarySide = "B"
)

// Opposite returns the other leg.
func (s BinarySide) Opposite() BinarySide {
	if s == SideA {
		return SideB
	}
	return SideA
}

// BinaryMember is a node of the binary compensation tree, created once at
// first paid enrollment and never deleted. The (upline_id, position_side)
// unique index is the slot claim: two concurrent placements racing for the
// same slot collide on insert and one of them re-runs the search.
type BinaryMember struct {
	ID                uint       `gorm:"primarykey" json:"id"`
	AccountID         string     `gorm:"type:uuid;not null;uniqueIndex" json:"account_id"`
	UplineID          *string    `gorm:"type:uuid;uniqueIndex:idx_upline_side" json:"upline_id"`
	PositionSide      BinarySide `gorm:"size:1;not null;uniqueIndex:idx_upline_side" json:"position_side"`
	PositionDepth     int        `gorm:"default:1" json:"position_depth"`
	ASideCount        int        `gorm:"default:0" json:"a_side_count"`
	BSideCount        int        `gorm:"default:0" json:"b_side_count"`
	ASidePending      int        `gorm:"default:0" json:"a_side_pending"`
	BSidePending      int        `gorm:"default:0" json:"b_side_pending"`
	SettledPairs      int        `gorm:"default:0" json:"settled_pairs"`
	TotalPairingBonus float64    `gorm:"default:0" json:"total_pairing_bonus"`
	TotalLevelBonus   float64    `gorm:"default:0" json:"total_level_bonus"`
	TotalOrderBonus   float64    `gorm:"default:0" json:"total_order_bonus"`
	TotalDividend     float64    `gorm:"default:0" json:"total_dividend"`
	TotalEarnings     float64    `gorm:"default:0" json:"total_earnings"`
	IsActive          bool       `gorm:"default:true" json:"is_active"`
	ReinvestCount     int        `gorm:"default:0" json:"reinvest_count"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BinaryMember) TableName() string {
	return "binary_members"
}

// PendingFor returns the pending unit count of the given side.
func (m *BinaryMember) PendingFor(side BinarySide) int {
	if side == SideA {
		return m.ASidePending
	}
	return m.BSidePending
}

// CountFor returns the cumulative order count of the given side.
func (m *BinaryMember) CountFor(side BinarySide) int {
	if side == SideA {
		return m.ASideCount
	}
	return m.BSideCount
}

// PairingRecord records one completed settlement as an audit trail. The
// lifetime free-pairing cap is metered by the settled_pairs counter on
// BinaryMember, advanced in the same UPDATE that consumes pending units.
type PairingRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AccountID string    `gorm:"type:uuid;not null;index" json:"account_id"`
	Pairs     int       `gorm:"not null" json:"pairs"`
	Ratio     string    `gorm:"size:8;not null" json:"ratio"`
	Amount    float64   `gorm:"not null" json:"amount"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (PairingRecord) TableName() string {
	return "pairing_records"
}
