package models

import "time"

// SpinRecord is an append-only audit entry, one per successful spin.
type SpinRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	PrizeValue uint      `gorm:"not null" json:"prize_value"`
	PrizeLabel string    `gorm:"size:50;not null" json:"prize_label"`
	Lat        *float64  `json:"lat,omitempty"`
	Lon        *float64  `json:"lon,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SpinRecord) TableName() string {
	return "spin_records"
}
