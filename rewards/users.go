package rewards

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

// AuthUser upserts the user for a verified Telegram identity. On first
// contact a referrer may be captured from the mini-app start parameter
// (the inviter's user id); referred_by is set at most once and never to
// the user themselves.
func (e *Engine) AuthUser(ctx context.Context, telegramID int64, firstName string, username *string, startParam string) (*models.User, error) {
	var user models.User
	err := e.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		// keep the display fields current
		updates := map[string]interface{}{"first_name": firstName}
		if username != nil {
			updates["username"] = *username
		}
		if err := e.db.WithContext(ctx).Model(&user).UpdateColumns(updates).Error; err != nil {
			return nil, err
		}
		user.FirstName = firstName
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		Username:   username,
	}
	if startParam != "" {
		if refID, perr := strconv.ParseUint(startParam, 10, 32); perr == nil {
			var referrer models.User
			if e.db.WithContext(ctx).First(&referrer, uint(refID)).Error == nil && referrer.TelegramID != telegramID {
				id := referrer.ID
				user.ReferredBy = &id
			}
		}
	}
	if err := e.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (e *Engine) FindUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := e.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Reject(KindUserNotFound, "user not found")
		}
		return nil, err
	}
	return &user, nil
}

type UserStatus struct {
	Points              uint       `json:"points"`
	TotalSpins          uint       `json:"total_spins"`
	SpunToday           bool       `json:"spun_today"`
	NextSpinAvailableAt *time.Time `json:"next_spin_available_at,omitempty"`
	ActiveCode          *string    `json:"active_code,omitempty"`
	CodeExpiresAt       *time.Time `json:"code_expires_at,omitempty"`
}

// Status is what the mini-app renders on open: balance, cooldown state and
// any live redemption code.
func (e *Engine) Status(ctx context.Context, userID uint) (*UserStatus, error) {
	user, err := e.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := &UserStatus{
		Points:     user.Points,
		TotalSpins: user.TotalSpins,
	}
	if user.LastSpinDate != nil && *user.LastSpinDate == e.clock.TodayString(now) {
		status.SpunToday = true
		next := e.clock.NextMidnight(now)
		status.NextSpinAvailableAt = &next
	}

	var code models.RedemptionCode
	err = e.db.WithContext(ctx).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
		First(&code).Error
	if err == nil {
		status.ActiveCode = &code.Code
		status.CodeExpiresAt = &code.ExpiresAt
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return status, nil
}
