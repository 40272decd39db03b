package models

import "time"

// DailyLimitEntry tracks points already earned for one (user, source,
// civil-day) key. Rows are created lazily on the first award of the day.
type DailyLimitEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_source_day" json:"user_id"`
	Source       string    `gorm:"size:20;not null;uniqueIndex:idx_user_source_day" json:"source"`
	Day          string    `gorm:"size:10;not null;uniqueIndex:idx_user_source_day" json:"day"`
	PointsEarned uint      `gorm:"not null;default:0" json:"points_earned"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

func (DailyLimitEntry) TableName() string {
	return "daily_limit_entries"
}
