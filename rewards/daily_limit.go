package rewards

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

// awardDailyCapped clamps amount to the remaining daily budget for
// (user, source, day) and increments the ledger row by the clamped value.
// It must run inside the same transaction as the balance mutation; the
// SELECT ... FOR UPDATE serializes concurrent awards on the same key so
// two racing calls can never together exceed the cap. Returns the points
// actually granted.
func (e *Engine) awardDailyCapped(tx *gorm.DB, userID uint, source Source, day string, amount uint) (uint, error) {
	limit, capped := e.caps[source]
	if !capped {
		return amount, nil
	}

	// lazy row creation; a concurrent insert loses silently
	entry := models.DailyLimitEntry{UserID: userID, Source: string(source), Day: day}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error; err != nil {
		return 0, err
	}

	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND source = ? AND day = ?", userID, string(source), day).
		First(&entry).Error; err != nil {
		return 0, err
	}

	if amount == 0 || entry.PointsEarned >= limit {
		return 0, nil
	}
	grant := amount
	if remaining := limit - entry.PointsEarned; grant > remaining {
		grant = remaining
	}

	if err := tx.Model(&models.DailyLimitEntry{}).
		Where("id = ?", entry.ID).
		UpdateColumn("points_earned", gorm.Expr("points_earned + ?", grant)).Error; err != nil {
		return 0, err
	}
	return grant, nil
}

// CreditPoints is the inbound hook for external reward sources (the
// two-player game service credits wins through it). The award is clamped
// by the source's daily cap and applied to the balance in one transaction.
func (e *Engine) CreditPoints(ctx context.Context, userID uint, amount uint, source Source) (uint, error) {
	if source != SourceGameWin && source != SourceArcade {
		return 0, Reject(KindInvalidSource, "unknown reward source").With("source", string(source))
	}

	day := e.clock.TodayString(time.Now())
	var granted uint
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Reject(KindUserNotFound, "user not found")
			}
			return err
		}

		g, err := e.awardDailyCapped(tx, userID, source, day, amount)
		if err != nil {
			return err
		}
		granted = g
		if g == 0 {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points + ?", g)).Error
	})
	if err != nil {
		return 0, err
	}
	return granted, nil
}
