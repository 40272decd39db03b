package models

import "time"

// RedemptionCode is a single-use drink voucher. A code is live while
// used_at IS NULL and expires_at is in the future; at most one live code
// may exist per user.
type RedemptionCode struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"size:10;uniqueIndex;not null" json:"code"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	PointsSpent uint       `gorm:"not null" json:"points_spent"`
	ExpiresAt   time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}

func (RedemptionCode) TableName() string {
	return "redemption_codes"
}

// Live reports whether the code can still be redeemed at the given instant.
func (c *RedemptionCode) Live(now time.Time) bool {
	return c.UsedAt == nil && c.ExpiresAt.After(now)
}
