package rewards

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KILATIV100/perks-ua-bot-sub000/config"
	"github.com/KILATIV100/perks-ua-bot-sub000/models"
)

func testRewardsConfig() config.RewardsConfig {
	return config.RewardsConfig{
		Timezone:            "Europe/Kyiv",
		GeofenceRadiusM:     100,
		RedeemThreshold:     100,
		CodeTTLMinutes:      15,
		CodeAttempts:        5,
		SpinLockTTLSeconds:  10,
		IdempotencyTTLHours: 24,
		ReferralBonus:       50,

		GamePointsPerWin:  10,
		GameMaxWinsPerDay: 3,

		ArcadeSecret:            "test-secret",
		ArcadeScoreDenominator:  10,
		ArcadePerSessionCap:     20,
		ArcadeMaxSessionsPerDay: 2,
		ArcadeDailyCap:          30,
		ArcadeMaxPointsPerSec:   15,
		ArcadeFreshnessMinutes:  5,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Site{},
		&models.SpinRecord{},
		&models.RedemptionCode{},
		&models.DailyLimitEntry{},
		&models.ScoreSubmission{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	clock, err := NewCivilClock("Europe/Kyiv")
	if err != nil {
		t.Fatalf("failed to load timezone: %v", err)
	}
	return NewEngine(db, NewMemoryCoordinator(), clock, NewPrizeTable(DefaultPrizes), nil, testRewardsConfig())
}

func createTestUser(t *testing.T, e *Engine, telegramID int64, points uint) *models.User {
	t.Helper()
	user := models.User{TelegramID: telegramID, FirstName: "Test", Points: points}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestSite(t *testing.T, e *Engine, name string, lat, lon float64) *models.Site {
	t.Helper()
	site := models.Site{Name: name, Lat: &lat, Lon: &lon, Active: true}
	if err := e.db.Create(&site).Error; err != nil {
		t.Fatalf("failed to create site: %v", err)
	}
	return &site
}

func expectRejection(t *testing.T, err error, kind Kind) *Rejection {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s rejection, got nil error", kind)
	}
	rej, ok := AsRejection(err)
	if !ok {
		t.Fatalf("expected %s rejection, got %v", kind, err)
	}
	if rej.Kind != kind {
		t.Fatalf("expected %s rejection, got %s", kind, rej.Kind)
	}
	return rej
}
