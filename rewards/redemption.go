package rewards

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

type RedeemResult struct {
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
	NewBalance uint      `json:"new_balance"`
}

var (
	codeMu   sync.Mutex
	codeRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// generateCode produces a candidate code: two uppercase letters followed
// by five digits, e.g. "KV40271".
func generateCode() string {
	codeMu.Lock()
	defer codeMu.Unlock()
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	return fmt.Sprintf("%c%c%05d",
		letters[codeRand.Intn(len(letters))],
		letters[codeRand.Intn(len(letters))],
		codeRand.Intn(100000))
}

// Redeem exchanges the redemption threshold of points for a single-use
// drink code. The balance debit and the code insert happen in one
// transaction; the user row lock keeps the single-active-code invariant
// under concurrent calls.
func (e *Engine) Redeem(ctx context.Context, userID uint) (*RedeemResult, error) {
	now := time.Now()
	threshold := e.cfg.RedeemThreshold
	var result *RedeemResult

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Reject(KindUserNotFound, "user not found")
			}
			return err
		}

		if user.Points < threshold {
			return Reject(KindInsufficientPoints, "not enough points to redeem").
				With("points_needed", threshold-user.Points).
				With("points", user.Points)
		}

		var existing models.RedemptionCode
		err := tx.Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
			First(&existing).Error
		if err == nil {
			// codes are not stackable: hand back the live one
			return Reject(KindActiveCodeExists, "an active code already exists").
				With("code", existing.Code).
				With("expires_at", existing.ExpiresAt)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var code string
		for i := 0; i < e.cfg.CodeAttempts; i++ {
			candidate := generateCode()
			var n int64
			if err := tx.Model(&models.RedemptionCode{}).Where("code = ?", candidate).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				code = candidate
				break
			}
		}
		if code == "" {
			return Reject(KindCodeGenerationFailed, "could not generate a unique code")
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("points", gorm.Expr("points - ?", threshold)).Error; err != nil {
			return err
		}

		rc := models.RedemptionCode{
			Code:        code,
			UserID:      userID,
			PointsSpent: threshold,
			ExpiresAt:   now.Add(time.Duration(e.cfg.CodeTTLMinutes) * time.Minute),
		}
		if err := tx.Create(&rc).Error; err != nil {
			return err
		}

		result = &RedeemResult{
			Code:       code,
			ExpiresAt:  rc.ExpiresAt,
			NewBalance: user.Points - threshold,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyCode marks a code as used and returns it with the owning user id.
// The conditional update makes check-then-mark atomic, so two concurrent
// verifications of the same code cannot both succeed.
func (e *Engine) VerifyCode(ctx context.Context, code string) (*models.RedemptionCode, error) {
	now := time.Now()
	var rc models.RedemptionCode

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("code = ?", code).First(&rc).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Reject(KindCodeNotFound, "code not found")
			}
			return err
		}
		if rc.UsedAt != nil {
			return Reject(KindCodeAlreadyUsed, "code was already used").With("used_at", *rc.UsedAt)
		}
		if !rc.ExpiresAt.After(now) {
			return Reject(KindCodeExpired, "code has expired").With("expired_at", rc.ExpiresAt)
		}

		res := tx.Model(&models.RedemptionCode{}).
			Where("id = ? AND used_at IS NULL", rc.ID).
			UpdateColumn("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return Reject(KindCodeAlreadyUsed, "code was already used")
		}
		rc.UsedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rc, nil
}
