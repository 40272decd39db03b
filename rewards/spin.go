package rewards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

type SpinRequest struct {
	Lat            *float64
	Lon            *float64
	IdempotencyKey string
}

type SpinResult struct {
	PrizeValue          uint      `json:"prize_value"`
	PrizeLabel          string    `json:"prize_label"`
	NewBalance          uint      `json:"new_balance"`
	NextSpinAvailableAt time.Time `json:"next_spin_available_at"`
}

func spinLockKey(userID uint) string {
	return fmt.Sprintf("spin:lock:u:%d", userID)
}

func spinIdemKey(userID uint, key string) string {
	return fmt.Sprintf("spin:idem:u:%d:%s", userID, key)
}

// Spin runs the wheel-of-fortune pipeline: idempotency replay, per-user
// lock, cooldown, geofence, weighted draw, transactional award with the
// referral credit, then the best-effort notification. The lock is held for
// the whole pipeline and released on every exit path.
func (e *Engine) Spin(ctx context.Context, userID uint, req SpinRequest) (*SpinResult, error) {
	now := time.Now()

	if req.IdempotencyKey != "" {
		payload, err := e.coord.GetResult(ctx, spinIdemKey(userID, req.IdempotencyKey))
		if err != nil {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
		if payload != nil {
			var cached SpinResult
			if err := json.Unmarshal(payload, &cached); err != nil {
				return nil, fmt.Errorf("idempotency decode: %w", err)
			}
			return &cached, nil
		}
	}

	acquired, err := e.coord.TryLock(ctx, spinLockKey(userID), e.lockTTL())
	if err != nil {
		return nil, fmt.Errorf("spin lock: %w", err)
	}
	if !acquired {
		return nil, Reject(KindConcurrencyBusy, "another spin is in progress, try again shortly")
	}
	defer func() {
		if err := e.coord.Unlock(context.Background(), spinLockKey(userID)); err != nil {
			logger.Warn("spin lock release failed: ", err)
		}
	}()

	var user models.User
	if err := e.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Reject(KindUserNotFound, "user not found")
		}
		return nil, err
	}

	today := e.clock.TodayString(now)
	nextMidnight := e.clock.NextMidnight(now)
	if user.LastSpinDate != nil && *user.LastSpinDate == today {
		return nil, Reject(KindCooldown, "already spun today").
			With("next_spin_available_at", nextMidnight)
	}

	// geofence bypass is resolved from the verified identity, never from
	// anything the client sends
	if !e.geoBypass[user.TelegramID] {
		if req.Lat == nil || req.Lon == nil {
			return nil, Reject(KindNoLocation, "location is required to spin")
		}
		var sites []models.Site
		if err := e.db.WithContext(ctx).Where("active = ?", true).Find(&sites).Error; err != nil {
			return nil, err
		}
		site, dist, found := NearestSite(*req.Lat, *req.Lon, sites)
		if found && dist > e.cfg.GeofenceRadiusM {
			return nil, Reject(KindOutOfRange, "too far from the nearest coffee shop").
				With("nearest_site", site.Name).
				With("distance_m", math.Round(dist))
		}
		if !found {
			logger.Warn("no active site has coordinates; geofence check skipped")
		}
	}

	prize := e.prizes.Draw()
	firstSpin := user.TotalSpins == 0

	var newBalance uint
	var referrer *models.User
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumns(map[string]interface{}{
				"points":         gorm.Expr("points + ?", prize.Value),
				"total_spins":    gorm.Expr("total_spins + 1"),
				"last_spin_date": today,
			}).Error; err != nil {
			return err
		}

		record := models.SpinRecord{
			UserID:     userID,
			PrizeValue: prize.Value,
			PrizeLabel: prize.Label,
			Lat:        req.Lat,
			Lon:        req.Lon,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		if firstSpin && user.ReferredBy != nil && !user.ReferralBonusPaid {
			r, err := e.creditReferrer(tx, &user)
			if err != nil {
				return err
			}
			referrer = r
		}

		var fresh models.User
		if err := tx.Select("points").First(&fresh, userID).Error; err != nil {
			return err
		}
		newBalance = fresh.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &SpinResult{
		PrizeValue:          prize.Value,
		PrizeLabel:          prize.Label,
		NewBalance:          newBalance,
		NextSpinAvailableAt: nextMidnight,
	}

	if req.IdempotencyKey != "" {
		payload, err := json.Marshal(result)
		if err == nil {
			if err := e.coord.SetResult(ctx, spinIdemKey(userID, req.IdempotencyKey), payload, e.idempotencyTTL()); err != nil {
				logger.Warn("idempotency cache write failed: ", err)
			}
		}
	}

	if prize.Value > 0 {
		e.notify(user.TelegramID, fmt.Sprintf("You won %d points! New balance: %d", prize.Value, newBalance))
	} else {
		e.notify(user.TelegramID, "No luck today. The wheel resets at midnight!")
	}
	if referrer != nil {
		e.notify(referrer.TelegramID, fmt.Sprintf("Your friend %s made their first spin. +%d bonus points!", user.FirstName, e.cfg.ReferralBonus))
	}

	return result, nil
}
