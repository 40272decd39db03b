package rewards

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

type ScoreRequest struct {
	Score       uint   `json:"score"`
	ClaimedAtMs int64  `json:"claimed_at_ms"`
	Hash        string `json:"hash"`
	DurationMs  *int64 `json:"duration_ms,omitempty"`
}

type ScoreResult struct {
	PointsAwarded     uint  `json:"points_awarded"`
	SessionsLeftToday int64 `json:"scoring_sessions_left_today"`
}

// ComputeScoreHash is the shared integrity hash over the score, the
// server-held secret and the client's claimed timestamp. The mini-app
// computes the same value when submitting.
func ComputeScoreHash(secret string, score uint, claimedAtMs int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d:%d", score, claimedAtMs)
	return hex.EncodeToString(mac.Sum(nil))
}

// SubmitScore validates an arcade score (integrity, freshness,
// plausibility) and credits the clamped award. A rejected submission
// leaves no ScoreSubmission row; an accepted one is persisted with the
// points actually awarded, in the same transaction as the balance credit.
func (e *Engine) SubmitScore(ctx context.Context, userID uint, req ScoreRequest) (*ScoreResult, error) {
	now := time.Now()

	expected := ComputeScoreHash(e.cfg.ArcadeSecret, req.Score, req.ClaimedAtMs)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(req.Hash))) {
		return nil, Reject(KindInvalidHash, "score integrity check failed")
	}

	claimed := time.UnixMilli(req.ClaimedAtMs)
	age := now.Sub(claimed)
	window := time.Duration(e.cfg.ArcadeFreshnessMinutes) * time.Minute
	if age < 0 || age > window {
		return nil, Reject(KindExpiredScore, "score is stale or from the future").
			With("claimed_at", claimed)
	}

	if req.DurationMs != nil && *req.DurationMs > 0 {
		rate := float64(req.Score) / (float64(*req.DurationMs) / 1000)
		if rate > e.cfg.ArcadeMaxPointsPerSec {
			return nil, Reject(KindUnrealisticScore, "score rate is not plausible").
				With("points_per_second", rate)
		}
	}

	day := e.clock.TodayString(now)
	var result *ScoreResult

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Reject(KindUserNotFound, "user not found")
			}
			return err
		}

		var sessions int64
		if err := tx.Model(&models.ScoreSubmission{}).
			Where("user_id = ? AND day = ?", userID, day).
			Count(&sessions).Error; err != nil {
			return err
		}

		tentative := req.Score / e.cfg.ArcadeScoreDenominator
		if tentative > e.cfg.ArcadePerSessionCap {
			tentative = e.cfg.ArcadePerSessionCap
		}
		if sessions >= e.cfg.ArcadeMaxSessionsPerDay {
			tentative = 0
		}

		granted, err := e.awardDailyCapped(tx, userID, SourceArcade, day, tentative)
		if err != nil {
			return err
		}

		sub := models.ScoreSubmission{
			UserID:        userID,
			Day:           day,
			Score:         req.Score,
			ClaimedAt:     claimed,
			Hash:          req.Hash,
			DurationMs:    req.DurationMs,
			PointsAwarded: granted,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		if granted > 0 {
			if err := tx.Model(&models.User{}).
				Where("id = ?", userID).
				UpdateColumn("points", gorm.Expr("points + ?", granted)).Error; err != nil {
				return err
			}
		}

		left := e.cfg.ArcadeMaxSessionsPerDay - sessions - 1
		if left < 0 {
			left = 0
		}
		result = &ScoreResult{PointsAwarded: granted, SessionsLeftToday: left}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
