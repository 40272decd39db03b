package rewards

import (
	"errors"

	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

// creditReferrer pays the one-time invite bonus to the user's referrer,
// inside the caller's spin transaction. The bonus is due on the invitee's
// first-ever spin regardless of the prize value. Exactly-once is enforced
// by the conditional flag flip, not by retry detection: a replayed or
// retried pipeline finds the flag set and credits nothing. Returns the
// referrer when a credit was made.
func (e *Engine) creditReferrer(tx *gorm.DB, user *models.User) (*models.User, error) {
	var referrer models.User
	if err := tx.First(&referrer, *user.ReferredBy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// referrer account is gone; nothing to pay
			return nil, nil
		}
		return nil, err
	}

	res := tx.Model(&models.User{}).
		Where("id = ? AND referral_bonus_paid = ?", user.ID, false).
		UpdateColumn("referral_bonus_paid", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", referrer.ID).
		UpdateColumn("points", gorm.Expr("points + ?", e.cfg.ReferralBonus)).Error; err != nil {
		return nil, err
	}
	return &referrer, nil
}
