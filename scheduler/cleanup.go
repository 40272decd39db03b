package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/KILATIV100/perks-ua-bot-sub000/logger"
	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

// CleanupScheduler purges rows that are only needed for a bounded time:
// redemption codes that expired unused, and daily-limit rows past their
// civil day. Audit tables (spin records, score submissions) are never
// touched.
type CleanupScheduler struct {
	cron *cron.Cron
	db   *gorm.DB
}

func NewCleanupScheduler(db *gorm.DB) *CleanupScheduler {
	return &CleanupScheduler{
		cron: cron.New(),
		db:   db,
	}
}

func (s *CleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.purge); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info("cleanup scheduler started")
	return nil
}

func (s *CleanupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("cleanup scheduler stopped")
}

func (s *CleanupScheduler) purge() {
	now := time.Now()

	// expired-unused codes are terminal; keep a short grace window so
	// support can still look one up
	res := s.db.Where("used_at IS NULL AND expires_at < ?", now.Add(-24*time.Hour)).
		Delete(&models.RedemptionCode{})
	if res.Error != nil {
		logger.Error("failed to purge expired codes: ", res.Error)
	} else if res.RowsAffected > 0 {
		logger.WithFields(map[string]interface{}{"rows": res.RowsAffected}).Info("purged expired redemption codes")
	}

	// daily-limit rows are meaningless after their civil day
	cutoff := now.AddDate(0, 0, -7).Format("2006-01-02")
	res = s.db.Where("day < ?", cutoff).Delete(&models.DailyLimitEntry{})
	if res.Error != nil {
		logger.Error("failed to purge stale daily-limit rows: ", res.Error)
	} else if res.RowsAffected > 0 {
		logger.WithFields(map[string]interface{}{"rows": res.RowsAffected}).Info("purged stale daily-limit rows")
	}
}
