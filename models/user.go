package models

import "time"

type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TelegramID        int64     `gorm:"uniqueIndex;not null" json:"telegram_id"`
	FirstName         string    `gorm:"size:100" json:"first_name"`
	Username          *string   `gorm:"size:100" json:"username,omitempty"`
	Points            uint      `gorm:"not null;default:0" json:"points"`
	LastSpinDate      *string   `gorm:"size:10" json:"last_spin_date,omitempty"`
	TotalSpins        uint      `gorm:"not null;default:0" json:"total_spins"`
	ReferredBy        *uint     `gorm:"column:referred_by;index" json:"referred_by,omitempty"`
	ReferralBonusPaid bool      `gorm:"not null;default:false" json:"referral_bonus_paid"`
	CreatedAt         time.Time `json:"-"`
	UpdatedAt         time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
