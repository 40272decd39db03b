package models

import "time"

// ScoreSubmission is the append-only audit trail for arcade scores. The
// per-day row count doubles as the scoring-session counter for the arcade
// daily cap, so Day is stored denormalized as a civil-day string.
type ScoreSubmission struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index:idx_score_user_day" json:"user_id"`
	Day           string    `gorm:"size:10;not null;index:idx_score_user_day" json:"day"`
	Score         uint      `gorm:"not null" json:"score"`
	ClaimedAt     time.Time `gorm:"not null" json:"claimed_at"`
	Hash          string    `gorm:"size:64;not null" json:"-"`
	DurationMs    *int64    `json:"duration_ms,omitempty"`
	PointsAwarded uint      `gorm:"not null" json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ScoreSubmission) TableName() string {
	return "score_submissions"
}
